package access

import (
	"fmt"
	"reflect"
	"strings"
)

// structAccessor binds a struct (or pointer to struct) model. Getter and
// setter lookups are resolved once per field name and cached, so repeated form
// reads/writes skip the reflection walk.
type structAccessor struct {
	value   reflect.Value
	label   string
	getters map[string]func() any
	setters map[string]func(any) error
}

// ForStruct builds an accessor over a struct model. Field names match either
// exported Go fields, value-returning methods (Title() or GetTitle()), and
// setters (SetTitle(v)); snake_case form names resolve against their CamelCase
// counterparts.
func ForStruct(model any) (Accessor, error) {
	value := reflect.ValueOf(model)
	if !value.IsValid() {
		return nil, fmt.Errorf("access: model is nil")
	}
	deref := value
	for deref.Kind() == reflect.Pointer {
		if deref.IsNil() {
			return nil, fmt.Errorf("access: model %s is a nil pointer", value.Type())
		}
		deref = deref.Elem()
	}
	if deref.Kind() != reflect.Struct {
		return nil, fmt.Errorf("access: unsupported model kind %s", deref.Kind())
	}

	return &structAccessor{
		value:   value,
		label:   value.Type().String(),
		getters: make(map[string]func() any),
		setters: make(map[string]func(any) error),
	}, nil
}

func (a *structAccessor) Get(name string) (any, error) {
	if getter, ok := a.getters[name]; ok {
		if getter == nil {
			return nil, MissingAccessorError{Model: a.label, Field: name, Op: OpGet}
		}
		return getter(), nil
	}

	getter := a.resolveGetter(name)
	a.getters[name] = getter
	if getter == nil {
		return nil, MissingAccessorError{Model: a.label, Field: name, Op: OpGet}
	}
	return getter(), nil
}

func (a *structAccessor) Set(name string, value any) error {
	if setter, ok := a.setters[name]; ok {
		if setter == nil {
			return MissingAccessorError{Model: a.label, Field: name, Op: OpSet}
		}
		return setter(value)
	}

	setter := a.resolveSetter(name)
	a.setters[name] = setter
	if setter == nil {
		return MissingAccessorError{Model: a.label, Field: name, Op: OpSet}
	}
	return setter(value)
}

// FieldType implements Typer by reporting the getter's static result type.
func (a *structAccessor) FieldType(name string) (reflect.Type, bool) {
	for _, candidate := range methodNames(name, "", "Get") {
		method := a.value.MethodByName(candidate)
		if !method.IsValid() {
			continue
		}
		mt := method.Type()
		if mt.NumIn() != 0 || mt.NumOut() != 1 {
			continue
		}
		return mt.Out(0), true
	}
	if field := a.fieldByName(name); field.IsValid() {
		return field.Type(), true
	}
	return nil, false
}

func (a *structAccessor) resolveGetter(name string) func() any {
	for _, candidate := range methodNames(name, "", "Get") {
		method := a.value.MethodByName(candidate)
		if !method.IsValid() {
			continue
		}
		mt := method.Type()
		if mt.NumIn() != 0 || mt.NumOut() != 1 {
			continue
		}
		return func() any {
			return method.Call(nil)[0].Interface()
		}
	}

	if field := a.fieldByName(name); field.IsValid() {
		return func() any {
			return field.Interface()
		}
	}
	return nil
}

func (a *structAccessor) resolveSetter(name string) func(any) error {
	label := a.label
	for _, candidate := range methodNames(name, "Set") {
		method := a.value.MethodByName(candidate)
		if !method.IsValid() {
			continue
		}
		mt := method.Type()
		if mt.NumIn() != 1 || mt.NumOut() > 1 {
			continue
		}
		argType := mt.In(0)
		return func(value any) error {
			arg, err := convertValue(value, argType, label, name)
			if err != nil {
				return err
			}
			out := method.Call([]reflect.Value{arg})
			if len(out) == 1 {
				if err, ok := out[0].Interface().(error); ok && err != nil {
					return err
				}
			}
			return nil
		}
	}

	field := a.fieldByName(name)
	if !field.IsValid() || !field.CanSet() {
		return nil
	}
	fieldType := field.Type()
	return func(value any) error {
		arg, err := convertValue(value, fieldType, label, name)
		if err != nil {
			return err
		}
		field.Set(arg)
		return nil
	}
}

func (a *structAccessor) fieldByName(name string) reflect.Value {
	deref := a.value
	for deref.Kind() == reflect.Pointer {
		deref = deref.Elem()
	}
	camel := camelCase(name)
	return deref.FieldByNameFunc(func(fieldName string) bool {
		return fieldName == camel || strings.EqualFold(fieldName, camel)
	})
}

// convertValue adapts the form-held value to the accessor's static type:
// direct assignment, lossless numeric conversion, pointer dereferencing for
// sub-models held by pointer, and element-wise conversion of []any slices
// produced by collection synchronization.
func convertValue(value any, target reflect.Type, model, field string) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(target), nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}

	// *T carrying a T slot (and vice versa).
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Type().AssignableTo(target) {
		return rv.Elem(), nil
	}
	if target.Kind() == reflect.Pointer && rv.Type().AssignableTo(target.Elem()) {
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(rv)
		return ptr, nil
	}

	if target.Kind() == reflect.Slice && rv.Kind() == reflect.Slice {
		out := reflect.MakeSlice(target, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			element := rv.Index(i).Interface()
			converted, err := convertValue(element, target.Elem(), model, field)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(converted)
		}
		return out, nil
	}

	if rv.Type().ConvertibleTo(target) {
		// Refuse int->string style conversions that mangle the value.
		if target.Kind() == reflect.String && rv.Kind() != reflect.String {
			return reflect.Value{}, fmt.Errorf("access: model %s field %q cannot accept %T", model, field, value)
		}
		return rv.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("access: model %s field %q cannot accept %T", model, field, value)
}

// methodNames produces candidate method identifiers for a form field name in
// priority order, e.g. "artist_name" with prefix "Set" yields SetArtistName.
func methodNames(name string, prefixes ...string) []string {
	camel := camelCase(name)
	out := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		out = append(out, prefix+camel)
	}
	return out
}

func camelCase(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
