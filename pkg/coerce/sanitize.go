package coerce

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Sanitized wraps a coercer so every string it produces passes through a
// strict HTML sanitisation policy. Markup is stripped entirely; entities the
// policy escapes are unescaped afterwards so plain text survives unchanged.
func Sanitized(next Coercer) Coercer {
	if next == nil {
		next = String
	}
	return func(raw any) (any, error) {
		value, err := next(raw)
		if err != nil {
			return nil, err
		}
		if s, ok := value.(string); ok {
			return html.UnescapeString(strictPolicy.Sanitize(s)), nil
		}
		return value, nil
	}
}
