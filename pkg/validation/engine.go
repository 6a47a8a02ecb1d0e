// Package validation defines the pluggable engine contract forms validate
// through, plus a rule engine that evaluates the constraints declared on a
// schema. Engines are selected when the form is constructed; the form core is
// agnostic to the rule language behind the interface.
package validation

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formbind/pkg/schema"
)

// Errors maps dotted field paths to human-readable messages. Collection
// elements use numeric segments ("tracks.0.title").
type Errors map[string][]string

// Add appends a message under the supplied field path, dropping blanks and
// exact duplicates.
func (e Errors) Add(field, message string) {
	message = strings.TrimSpace(message)
	if e == nil || message == "" {
		return
	}
	for _, existing := range e[field] {
		if existing == message {
			return
		}
	}
	e[field] = append(e[field], message)
}

// Merge folds another error set into this one.
func (e Errors) Merge(other Errors) {
	if e == nil {
		return
	}
	for field, messages := range other {
		for _, message := range messages {
			e.Add(field, message)
		}
	}
}

// Prefixed returns a copy of the error set with every path nested under the
// supplied prefix.
func (e Errors) Prefixed(prefix string) Errors {
	if len(e) == 0 {
		return nil
	}
	prefix = strings.TrimSpace(prefix)
	out := make(Errors, len(e))
	for field, messages := range e {
		path := field
		if prefix != "" {
			if path == "" {
				path = prefix
			} else {
				path = prefix + "." + path
			}
		}
		out[path] = append([]string(nil), messages...)
	}
	return out
}

// Empty reports whether the set holds no messages.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Fields returns the error paths in sorted order.
func (e Errors) Fields() []string {
	if len(e) == 0 {
		return nil
	}
	out := make([]string, 0, len(e))
	for field := range e {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// Result is the outcome of a validation pass: overall success plus the
// per-field messages. It is recomputed on every Validate call.
type Result struct {
	Valid  bool
	Errors Errors
}

// Engine validates the fully assigned field values of a form against its
// schema. Implementations must treat both arguments as read-only.
type Engine interface {
	Validate(values map[string]any, s *schema.Schema) Errors
}

// EngineFunc adapts a plain function to the Engine interface.
type EngineFunc func(values map[string]any, s *schema.Schema) Errors

// Validate implements Engine.
func (f EngineFunc) Validate(values map[string]any, s *schema.Schema) Errors {
	if f == nil {
		return nil
	}
	return f(values, s)
}
