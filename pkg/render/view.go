// Package render exposes a read-only projection of a form suitable for view
// layers: a field tree carrying current values and error messages, plus an
// HTML snapshot renderer for callers that want markup out of the box.
package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/goliatone/go-formbind/pkg/validation"
)

// FieldView is one renderable field: current value, declaration metadata, and
// the error messages attached to its dotted path.
type FieldView struct {
	Name     string
	Path     string
	Label    string
	Type     schema.FieldType
	Required bool
	Value    any
	Enum     []any
	Errors   []string
	Nested   []FieldView
	Children [][]FieldView
}

// FormView is the full projection for one form instance.
type FormView struct {
	Name   string
	Fields []FieldView
}

// View builds a FormView from a form and the error set of its most recent
// validation. Values are copies; mutating the view never touches the form.
func View(f *form.Form) FormView {
	if f == nil {
		return FormView{}
	}
	return FormView{
		Name:   f.Schema().Name(),
		Fields: viewFields(f, "", f.Errors()),
	}
}

func viewFields(f *form.Form, prefix string, errs validation.Errors) []FieldView {
	fields := f.Fields()
	out := make([]FieldView, 0, len(fields))
	for _, field := range fields {
		path := joinPath(prefix, field.Name)
		view := FieldView{
			Name:     field.Name,
			Path:     path,
			Label:    labelFor(field),
			Type:     field.Type,
			Required: field.Required,
			Enum:     append([]any(nil), field.Enum...),
			Errors:   append([]string(nil), errs[path]...),
		}

		switch {
		case field.Collection:
			view.Children = [][]FieldView{}
			for idx, child := range f.Children(field.Name) {
				childPath := joinPath(path, strconv.Itoa(idx))
				view.Children = append(view.Children, viewFields(child, childPath, errs))
			}
		case field.Nested != nil:
			view.Nested = viewFields(f.Child(field.Name), path, errs)
		default:
			view.Value = f.Value(field.Name)
		}
		out = append(out, view)
	}
	return out
}

func labelFor(field schema.Field) string {
	if field.Label != "" {
		return field.Label
	}
	parts := strings.FieldsFunc(field.Name, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}
