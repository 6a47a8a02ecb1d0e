package form

import (
	"reflect"

	"github.com/goliatone/go-formbind/pkg/access"
)

// Sync writes the form's current values back onto the bound models through
// their setters. The walk is depth-first: child forms sync onto their
// sub-models first, then the parent association setter runs, so a freshly
// materialized sub-model is fully populated before it lands on the parent.
// Collection fields rebuild the model's collection to the form's current
// length and order.
//
// Sync is a pure in-memory write; it never triggers persistence. Checking
// that the last Validate call succeeded is the caller's responsibility. On a
// mid-graph setter failure Sync stops at the first error and earlier writes
// stand.
func (f *Form) Sync() error {
	if f == nil {
		return nil
	}
	for _, field := range f.schema.Fields() {
		accessor, err := f.accessorFor(field)
		if err != nil {
			return err
		}

		switch {
		case field.Collection:
			if err := f.syncCollection(field.Name, accessor); err != nil {
				return err
			}
		case field.Nested != nil:
			child := f.children[field.Name]
			if child == nil {
				continue
			}
			if err := child.Sync(); err != nil {
				return err
			}
			if err := accessor.Set(field.Name, child.Model()); err != nil {
				return err
			}
		default:
			if err := accessor.Set(field.Name, f.values[field.Name]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *Form) syncCollection(name string, accessor access.Accessor) error {
	children := f.collections[name]

	models := make([]any, 0, len(children))
	for _, child := range children {
		if err := child.Sync(); err != nil {
			return err
		}
		models = append(models, child.Model())
	}

	if t, ok := f.elemTypes[name]; ok {
		typed := reflect.MakeSlice(reflect.SliceOf(t), 0, len(models))
		for _, model := range models {
			rv := reflect.ValueOf(model)
			switch {
			case rv.Type().AssignableTo(t):
				typed = reflect.Append(typed, rv)
			case rv.Kind() == reflect.Pointer && rv.Elem().Type().AssignableTo(t):
				typed = reflect.Append(typed, rv.Elem())
			default:
				return accessor.Set(name, models)
			}
		}
		return accessor.Set(name, typed.Interface())
	}

	return accessor.Set(name, models)
}
