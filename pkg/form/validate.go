package form

import (
	"strconv"

	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/goliatone/go-formbind/pkg/validation"
)

// Validate merges external input into the form and runs the validation
// engine. The pipeline per retained key is: filter (undeclared keys are
// silently dropped), coerce (failure recorded, previous value kept), assign
// (recursively for nested and collection fields), then engine evaluation over
// the merged values. Values stay merged regardless of outcome so failed
// submissions re-render with what the user sent.
//
// Validate(nil) re-runs the engine against the currently held values without
// merging anything.
func (f *Form) Validate(input map[string]any) validation.Result {
	if f == nil {
		return validation.Result{}
	}

	errs := make(validation.Errors)
	if input != nil {
		errs.Merge(f.merge(input))
	}

	if f.engine != nil {
		errs.Merge(f.engine.Validate(f.Values(), f.schema))
	}

	result := validation.Result{Valid: errs.Empty()}
	if !result.Valid {
		result.Errors = errs
	}
	f.last = result
	return result
}

// merge applies the filter/coerce/assign steps and returns coercion and
// populator errors keyed by dotted path.
func (f *Form) merge(input map[string]any) validation.Errors {
	errs := make(validation.Errors)

	for name, raw := range input {
		field, ok := f.schema.Field(name)
		if !ok {
			// Undeclared input is dropped silently: no declared field, no
			// assignment, regardless of payload shape.
			continue
		}

		if field.Populator != nil {
			value, err := field.Populator(schema.PopulateContext{
				Field:   name,
				Raw:     raw,
				Current: f.values[name],
			})
			if err != nil {
				errs.Add(name, err.Error())
				continue
			}
			f.values[name] = value
			continue
		}

		switch {
		case field.Collection:
			errs.Merge(f.mergeCollection(field, raw))
		case field.Nested != nil:
			errs.Merge(f.mergeNested(field, raw))
		default:
			f.mergeScalar(field, raw, errs)
		}
	}
	return errs
}

func (f *Form) mergeScalar(field schema.Field, raw any, errs validation.Errors) {
	coercer := field.Coercer
	if coercer == nil {
		if resolved, ok := f.coercers.Resolve(string(field.Type)); ok {
			coercer = resolved
		}
	}
	if coercer == nil {
		// No coercer declared for the type (arrays of scalars, raw objects):
		// assign the filtered value as-is.
		f.values[field.Name] = raw
		return
	}

	value, err := coercer(raw)
	if err != nil {
		errs.Add(field.Name, "is invalid")
		return
	}
	f.values[field.Name] = value
}

func (f *Form) mergeNested(field schema.Field, raw any) validation.Errors {
	child := f.children[field.Name]
	if child == nil {
		return nil
	}
	sub, ok := raw.(map[string]any)
	if !ok {
		errs := make(validation.Errors)
		errs.Add(field.Name, "is invalid")
		return errs
	}
	return child.merge(sub).Prefixed(field.Name)
}

// mergeCollection matches input elements to child forms positionally, growing
// or shrinking the child list to the input length. The model's collection is
// only adjusted later, during Sync.
func (f *Form) mergeCollection(field schema.Field, raw any) validation.Errors {
	errs := make(validation.Errors)

	elements, ok := raw.([]any)
	if !ok {
		if raw == nil {
			f.collections[field.Name] = nil
			return nil
		}
		errs.Add(field.Name, "is invalid")
		return errs
	}

	children := f.collections[field.Name]
	if len(elements) < len(children) {
		children = children[:len(elements)]
	}
	for len(children) < len(elements) {
		child, err := f.newElement(field)
		if err != nil {
			errs.Add(field.Name, err.Error())
			return errs
		}
		children = append(children, child)
	}
	f.collections[field.Name] = children

	for idx, element := range elements {
		sub, ok := element.(map[string]any)
		if !ok {
			errs.Add(joinPath(field.Name, idx), "is invalid")
			continue
		}
		errs.Merge(children[idx].merge(sub).Prefixed(joinPath(field.Name, idx)))
	}
	return errs
}

func joinPath(name string, idx int) string {
	return name + "." + strconv.Itoa(idx)
}

// Values returns the current value tree in the shape the validation engine
// consumes: scalars by name, nested forms as maps, collections as []any of
// maps.
func (f *Form) Values() map[string]any {
	return f.Data()
}
