package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbind/pkg/schema"
)

// Filler walks a schema and asks for one value per field, producing the raw
// input map a form's Validate accepts. Scalar answers stay strings; coercion
// is the form's job.
type Filler struct {
	driver Driver
}

// FillerOption configures a Filler.
type FillerOption func(*Filler)

// WithDriver swaps the terminal driver, mainly for tests.
func WithDriver(driver Driver) FillerOption {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// NewFiller constructs a Filler with the default survey driver.
func NewFiller(options ...FillerOption) *Filler {
	f := &Filler{driver: NewSurveyDriver()}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fill prompts for every field in the schema and returns the collected input.
func (f *Filler) Fill(ctx context.Context, s *schema.Schema) (map[string]any, error) {
	if s == nil {
		return map[string]any{}, nil
	}
	return f.fill(ctx, s, "")
}

func (f *Filler) fill(ctx context.Context, s *schema.Schema, prefix string) (map[string]any, error) {
	input := make(map[string]any, s.Len())
	for _, field := range s.Fields() {
		label := fieldLabel(field, prefix)
		switch {
		case field.Collection:
			elements, err := f.fillCollection(ctx, field, label)
			if err != nil {
				return nil, err
			}
			input[field.Name] = elements
		case field.Nested != nil:
			if err := f.driver.Info(ctx, label); err != nil {
				return nil, err
			}
			nested, err := f.fill(ctx, field.Nested, label)
			if err != nil {
				return nil, err
			}
			input[field.Name] = nested
		default:
			value, err := f.fillScalar(ctx, field, label)
			if err != nil {
				return nil, err
			}
			input[field.Name] = value
		}
	}
	return input, nil
}

func (f *Filler) fillCollection(ctx context.Context, field schema.Field, label string) ([]any, error) {
	elements := []any{}
	for {
		more, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add %s entry?", label),
			Default: len(elements) == 0 && field.Required,
		})
		if err != nil {
			return nil, err
		}
		if !more {
			return elements, nil
		}
		element, err := f.fill(ctx, field.Nested, fmt.Sprintf("%s %d", label, len(elements)+1))
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
	}
}

func (f *Filler) fillScalar(ctx context.Context, field schema.Field, label string) (any, error) {
	if field.Type == schema.FieldTypeBoolean {
		ok, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: field.Default == true,
			Help:    field.Description,
		})
		if err != nil {
			return nil, err
		}
		return ok, nil
	}

	if len(field.Enum) > 0 {
		options := make([]string, len(field.Enum))
		defaultIndex := 0
		for i, option := range field.Enum {
			options[i] = fmt.Sprint(option)
			if field.Default != nil && options[i] == fmt.Sprint(field.Default) {
				defaultIndex = i
			}
		}
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: defaultIndex,
			Help:         field.Description,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(options) {
			return nil, fmt.Errorf("prompt: selection out of range for %q", field.Name)
		}
		return options[idx], nil
	}

	value, err := f.driver.Input(ctx, InputConfig{
		Message: label,
		Default: defaultText(field),
		Help:    field.Description,
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func fieldLabel(field schema.Field, prefix string) string {
	label := field.Label
	if label == "" {
		label = humanize(field.Name)
	}
	if prefix != "" {
		return prefix + " > " + label
	}
	return label
}

func defaultText(field schema.Field) string {
	if field.Default == nil {
		return ""
	}
	return fmt.Sprint(field.Default)
}

func humanize(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
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
