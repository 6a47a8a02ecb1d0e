// Package formbind is the front door of the module: a schema-driven form
// object that reads bound models once, filters and coerces untrusted input,
// validates it, and writes back only on an explicit Sync or Save.
//
// The subpackages carry the moving parts. pkg/schema declares fields,
// pkg/coerce normalises raw values, pkg/form holds the state machine,
// pkg/validation runs the rule engine, pkg/definition loads schemas from
// JSON/YAML files, pkg/openapi derives them from OpenAPI operations, and
// pkg/render and pkg/prompt cover HTML and terminal front ends.
package formbind

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formbind/pkg/definition"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/goliatone/go-formbind/pkg/validation"
)

// Re-exported names so common flows need a single import.
type (
	// Form is a bound form instance. See pkg/form.
	Form = form.Form
	// Schema declares a form's fields. See pkg/schema.
	Schema = schema.Schema
	// Result is the outcome of a Validate call.
	Result = validation.Result
	// Errors maps dotted field paths to messages.
	Errors = validation.Errors
	// Option configures a form at construction time.
	Option = form.Option
	// SaveOption configures a Save call.
	SaveOption = form.SaveOption
	// Saver is implemented by models that know how to persist themselves.
	Saver = form.Saver
)

// MainRole identifies the primary model in a composition.
const MainRole = form.MainRole

// NewSchema starts a schema declaration.
func NewSchema(name string) *schema.Schema {
	return schema.New(name)
}

// New binds a schema to a single model and returns the resulting form.
func New(s *schema.Schema, model any, options ...form.Option) (*form.Form, error) {
	return form.New(s, model, options...)
}

// NewComposition binds a schema to several models keyed by role.
func NewComposition(s *schema.Schema, models map[string]any, options ...form.Option) (*form.Form, error) {
	return form.NewComposition(s, models, options...)
}

// WithBlock routes persistence through the supplied function instead of the
// models' Save methods.
func WithBlock(block form.SaveBlock) form.SaveOption {
	return form.WithBlock(block)
}

// FromDefinition loads the named form out of the definition files in fsys and
// binds it to model.
func FromDefinition(fsys fs.FS, name string, model any, options ...form.Option) (*form.Form, error) {
	library, err := definition.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	s, ok := library.Form(name)
	if !ok {
		return nil, fmt.Errorf("formbind: form %q not found in definitions", name)
	}
	return form.New(s, model, options...)
}

// FromOpenAPI derives a schema from the request body of the identified
// operation and binds it to model.
func FromOpenAPI(ctx context.Context, doc openapi.Document, operationID string, model any, options ...form.Option) (*form.Form, error) {
	s, err := openapi.NewAdapter().FormSchema(ctx, doc, operationID)
	if err != nil {
		return nil, err
	}
	return form.New(s, model, options...)
}
