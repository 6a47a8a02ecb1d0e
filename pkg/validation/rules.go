package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-formbind/pkg/schema"
)

// Rules evaluates the validation constraints declared on a schema: required,
// numeric bounds, length limits, patterns, and enum membership. Nested schemas
// and collections are walked recursively; messages land under dotted paths.
type Rules struct {
	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

var _ Engine = (*Rules)(nil)

// NewRules constructs the default rule engine. Compiled patterns are cached
// across Validate calls.
func NewRules() *Rules {
	return &Rules{patterns: make(map[string]*regexp.Regexp)}
}

// Validate implements Engine.
func (r *Rules) Validate(values map[string]any, s *schema.Schema) Errors {
	errs := make(Errors)
	r.validateSchema(values, s, "", errs)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r *Rules) validateSchema(values map[string]any, s *schema.Schema, prefix string, errs Errors) {
	if s == nil {
		return
	}
	for _, field := range s.Fields() {
		path := joinPath(prefix, field.Name)
		value := values[field.Name]

		switch {
		case field.Collection:
			elements, _ := value.([]any)
			if field.Required && len(elements) == 0 {
				errs.Add(path, "can't be blank")
			}
			for idx, element := range elements {
				child, _ := element.(map[string]any)
				r.validateSchema(child, field.Nested, joinPath(path, strconv.Itoa(idx)), errs)
			}
		case field.Nested != nil:
			child, ok := value.(map[string]any)
			if !ok {
				if field.Required {
					errs.Add(path, "can't be blank")
				}
				continue
			}
			r.validateSchema(child, field.Nested, path, errs)
		default:
			r.validateScalar(field, path, value, errs)
		}
	}
}

func (r *Rules) validateScalar(field schema.Field, path string, value any, errs Errors) {
	if isBlank(value) {
		if field.Required || hasRule(field, schema.ValidationRuleRequired) {
			errs.Add(path, "can't be blank")
		}
		// Remaining constraints only apply to present values.
		return
	}

	if len(field.Enum) > 0 && !enumContains(field.Enum, value) {
		errs.Add(path, "is not included in the list")
	}

	for _, rule := range field.Validations {
		switch rule.Kind {
		case schema.ValidationRuleRequired:
			// Handled above for blank values.
		case schema.ValidationRuleMin:
			r.checkBound(rule, path, value, errs, false)
		case schema.ValidationRuleMax:
			r.checkBound(rule, path, value, errs, true)
		case schema.ValidationRuleMinLength:
			if limit, ok := intParam(rule, "value"); ok {
				if text, ok := value.(string); ok && utf8.RuneCountInString(text) < limit {
					errs.Add(path, fmt.Sprintf("is too short (minimum is %d characters)", limit))
				}
			}
		case schema.ValidationRuleMaxLength:
			if limit, ok := intParam(rule, "value"); ok {
				if text, ok := value.(string); ok && utf8.RuneCountInString(text) > limit {
					errs.Add(path, fmt.Sprintf("is too long (maximum is %d characters)", limit))
				}
			}
		case schema.ValidationRulePattern:
			expr := strings.TrimSpace(rule.Params["pattern"])
			if expr == "" {
				continue
			}
			re, err := r.compile(expr)
			if err != nil {
				errs.Add(path, "has an invalid validation pattern")
				continue
			}
			if text, ok := value.(string); ok && !re.MatchString(text) {
				errs.Add(path, "is invalid")
			}
		case schema.ValidationRuleEnum:
			// Enum membership is declared on the field itself.
		}
	}
}

func (r *Rules) checkBound(rule schema.ValidationRule, path string, value any, errs Errors, upper bool) {
	bound, ok := floatParam(rule, "value")
	if !ok {
		return
	}
	number, ok := asFloat(value)
	if !ok {
		return
	}
	exclusive := rule.Params["exclusive"] == "true"

	switch {
	case upper && exclusive && number >= bound:
		errs.Add(path, fmt.Sprintf("must be less than %s", formatBound(bound)))
	case upper && !exclusive && number > bound:
		errs.Add(path, fmt.Sprintf("must be less than or equal to %s", formatBound(bound)))
	case !upper && exclusive && number <= bound:
		errs.Add(path, fmt.Sprintf("must be greater than %s", formatBound(bound)))
	case !upper && !exclusive && number < bound:
		errs.Add(path, fmt.Sprintf("must be greater than or equal to %s", formatBound(bound)))
	}
}

func (r *Rules) compile(expr string) (*regexp.Regexp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.patterns == nil {
		r.patterns = make(map[string]*regexp.Regexp)
	}
	if re, ok := r.patterns[expr]; ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	r.patterns[expr] = re
	return re, nil
}

func hasRule(field schema.Field, kind string) bool {
	for _, rule := range field.Validations {
		if rule.Kind == kind {
			return true
		}
	}
	return false
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Slice, reflect.Map, reflect.Array:
			return rv.Len() == 0
		default:
			return false
		}
	}
}

func enumContains(values []any, value any) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
		// Coerced integers arrive as int64 while enums are often declared
		// with untyped ints; compare numerically when both sides qualify.
		a, okA := asFloat(candidate)
		b, okB := asFloat(value)
		if okA && okB && a == b {
			return true
		}
	}
	return false
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func floatParam(rule schema.ValidationRule, key string) (float64, bool) {
	raw, ok := rule.Params[key]
	if !ok {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func intParam(rule schema.ValidationRule, key string) (int, bool) {
	raw, ok := rule.Params[key]
	if !ok {
		return 0, false
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func formatBound(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
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
