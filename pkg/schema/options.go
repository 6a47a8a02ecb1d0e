package schema

import (
	"strconv"

	"github.com/goliatone/go-formbind/pkg/coerce"
)

// FieldOption mutates a field declaration during Declare.
type FieldOption func(*Field)

// Required marks the field as mandatory; the rule engine reports a blank
// value as "can't be blank".
func Required() FieldOption {
	return func(f *Field) {
		f.Required = true
	}
}

// On routes the field to a different bound model when the form is constructed
// over a composition of models. An empty role targets the main model.
func On(role string) FieldOption {
	return func(f *Field) {
		f.Role = role
	}
}

// WithLabel sets the human-facing label used by renderers.
func WithLabel(label string) FieldOption {
	return func(f *Field) {
		f.Label = label
	}
}

// WithDescription attaches help text to the declaration.
func WithDescription(text string) FieldOption {
	return func(f *Field) {
		f.Description = text
	}
}

// WithDefault sets the value used when the bound model yields nil.
func WithDefault(value any) FieldOption {
	return func(f *Field) {
		f.Default = value
	}
}

// WithEnum restricts the field to the supplied values.
func WithEnum(values ...any) FieldOption {
	return func(f *Field) {
		f.Enum = append([]any(nil), values...)
	}
}

// WithCoercer overrides the registry coercer for this field only.
func WithCoercer(coercer coerce.Coercer) FieldOption {
	return func(f *Field) {
		f.Coercer = coercer
	}
}

// WithPopulator installs a custom deserialization hook invoked in place of
// the default coerce-and-assign step.
func WithPopulator(populator Populator) FieldOption {
	return func(f *Field) {
		f.Populator = populator
	}
}

// WithValidation appends an arbitrary validation rule.
func WithValidation(rule ValidationRule) FieldOption {
	return func(f *Field) {
		f.Validations = append(f.Validations, rule)
	}
}

// WithMin constrains numeric fields to values >= min.
func WithMin(min float64) FieldOption {
	return WithValidation(ValidationRule{
		Kind:   ValidationRuleMin,
		Params: map[string]string{"value": formatFloat(min)},
	})
}

// WithMax constrains numeric fields to values <= max.
func WithMax(max float64) FieldOption {
	return WithValidation(ValidationRule{
		Kind:   ValidationRuleMax,
		Params: map[string]string{"value": formatFloat(max)},
	})
}

// WithMinLength constrains string fields to a minimum rune count.
func WithMinLength(min int) FieldOption {
	return WithValidation(ValidationRule{
		Kind:   ValidationRuleMinLength,
		Params: map[string]string{"value": strconv.Itoa(min)},
	})
}

// WithMaxLength constrains string fields to a maximum rune count.
func WithMaxLength(max int) FieldOption {
	return WithValidation(ValidationRule{
		Kind:   ValidationRuleMaxLength,
		Params: map[string]string{"value": strconv.Itoa(max)},
	})
}

// WithPattern constrains string fields to match a regular expression.
func WithPattern(pattern string) FieldOption {
	return WithValidation(ValidationRule{
		Kind:   ValidationRulePattern,
		Params: map[string]string{"pattern": pattern},
	})
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
