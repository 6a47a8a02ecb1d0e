// Package form implements the form-object lifecycle: construct by reading
// bound models once, merge and coerce untrusted input through Validate, and
// write back through explicit Sync/Save calls. A form instance owns its field
// values outright; the bound models are never consulted again after
// construction and never mutated except by Sync.
package form

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-formbind/pkg/access"
	"github.com/goliatone/go-formbind/pkg/coerce"
	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/goliatone/go-formbind/pkg/validation"
)

// MainRole is the role key for the primary bound model.
const MainRole = ""

// Form holds the current field values for one schema instance. It is not safe
// for concurrent use; the lifecycle is single-owner, single-thread per
// request.
type Form struct {
	schema    *schema.Schema
	models    map[string]any
	accessors map[string]access.Accessor

	engine   validation.Engine
	coercers *coerce.Registry

	values      map[string]any
	children    map[string]*Form
	collections map[string][]*Form
	elemTypes   map[string]reflect.Type

	last validation.Result
}

// Option configures form construction.
type Option func(*config)

type config struct {
	engine   validation.Engine
	coercers *coerce.Registry
}

// WithEngine selects the validation engine consulted by Validate. Defaults to
// the declared-rule engine.
func WithEngine(engine validation.Engine) Option {
	return func(cfg *config) {
		cfg.engine = engine
	}
}

// WithCoercers overrides the coercer registry used during input merging.
func WithCoercers(registry *coerce.Registry) Option {
	return func(cfg *config) {
		cfg.coercers = registry
	}
}

// New constructs a form over a single model. Every declared field is read
// once through the model's accessor; nested and collection fields recursively
// construct child forms. Construction never mutates the model. A declared
// field without a getter fails with access.MissingAccessorError.
func New(s *schema.Schema, model any, options ...Option) (*Form, error) {
	return NewComposition(s, map[string]any{MainRole: model}, options...)
}

// NewComposition constructs a form over several models keyed by role. Fields
// declared with schema.On route their reads and writes to the model bound
// under that role; everything else targets the main model.
func NewComposition(s *schema.Schema, models map[string]any, options ...Option) (*Form, error) {
	if s == nil {
		return nil, fmt.Errorf("form: schema is required")
	}

	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.engine == nil {
		cfg.engine = validation.NewRules()
	}
	if cfg.coercers == nil {
		cfg.coercers = coerce.NewRegistry()
	}

	f := &Form{
		schema:      s,
		models:      make(map[string]any, len(models)),
		accessors:   make(map[string]access.Accessor, len(models)),
		engine:      cfg.engine,
		coercers:    cfg.coercers,
		values:      make(map[string]any),
		children:    make(map[string]*Form),
		collections: make(map[string][]*Form),
		elemTypes:   make(map[string]reflect.Type),
	}

	for role, model := range models {
		if model == nil {
			model = map[string]any{}
		}
		accessor, err := access.Resolve(model)
		if err != nil {
			return nil, fmt.Errorf("form: bind model for role %q: %w", role, err)
		}
		f.models[role] = model
		f.accessors[role] = accessor
	}
	if _, ok := f.accessors[MainRole]; !ok {
		return nil, fmt.Errorf("form: main model is required")
	}

	if err := f.read(); err != nil {
		return nil, err
	}
	return f, nil
}

// read performs the construction-time read phase.
func (f *Form) read() error {
	for _, field := range f.schema.Fields() {
		accessor, err := f.accessorFor(field)
		if err != nil {
			return err
		}

		switch {
		case field.Collection:
			if err := f.readCollection(field, accessor); err != nil {
				return err
			}
		case field.Nested != nil:
			if err := f.readNested(field, accessor); err != nil {
				return err
			}
		default:
			value, err := accessor.Get(field.Name)
			if err != nil {
				return err
			}
			if value == nil && field.Default != nil {
				value = field.Default
			}
			f.values[field.Name] = value
		}
	}
	return nil
}

func (f *Form) readNested(field schema.Field, accessor access.Accessor) error {
	sub, err := accessor.Get(field.Name)
	if err != nil {
		return err
	}
	if isNilModel(sub) {
		sub = f.placeholderFor(field.Name, accessor)
	}
	child, err := New(field.Nested, sub, WithEngine(f.engine), WithCoercers(f.coercers))
	if err != nil {
		return err
	}
	f.children[field.Name] = child
	return nil
}

func (f *Form) readCollection(field schema.Field, accessor access.Accessor) error {
	raw, err := accessor.Get(field.Name)
	if err != nil {
		return err
	}

	if typer, ok := accessor.(access.Typer); ok {
		if t, ok := typer.FieldType(field.Name); ok && t.Kind() == reflect.Slice {
			f.elemTypes[field.Name] = t.Elem()
		}
	}

	var children []*Form
	for _, element := range collectionElements(raw) {
		child, err := New(field.Nested, element, WithEngine(f.engine), WithCoercers(f.coercers))
		if err != nil {
			return err
		}
		children = append(children, child)
	}
	f.collections[field.Name] = children
	return nil
}

// placeholderFor materializes a sub-model for an absent association: a typed
// zero value when the accessor can report the association's static type, a
// plain map otherwise.
func (f *Form) placeholderFor(name string, accessor access.Accessor) any {
	typer, ok := accessor.(access.Typer)
	if !ok {
		return map[string]any{}
	}
	t, ok := typer.FieldType(name)
	if !ok {
		return map[string]any{}
	}
	switch t.Kind() {
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct {
			return reflect.New(t.Elem()).Interface()
		}
	case reflect.Struct:
		return reflect.New(t).Interface()
	case reflect.Map:
		return map[string]any{}
	}
	return map[string]any{}
}

func (f *Form) accessorFor(field schema.Field) (access.Accessor, error) {
	accessor, ok := f.accessors[field.Role]
	if !ok {
		return nil, fmt.Errorf("form: field %q targets unbound model role %q", field.Name, field.Role)
	}
	return accessor, nil
}

// newElement constructs a child form for a collection element added during
// input merging. The element model is a typed zero value when the collection's
// element type is known, a map placeholder otherwise.
func (f *Form) newElement(field schema.Field) (*Form, error) {
	var model any = map[string]any{}
	if t, ok := f.elemTypes[field.Name]; ok {
		switch t.Kind() {
		case reflect.Pointer:
			if t.Elem().Kind() == reflect.Struct {
				model = reflect.New(t.Elem()).Interface()
			}
		case reflect.Struct:
			model = reflect.New(t).Interface()
		}
	}
	return New(field.Nested, model, WithEngine(f.engine), WithCoercers(f.coercers))
}

// Schema returns the declaration this form was built from.
func (f *Form) Schema() *schema.Schema {
	if f == nil {
		return nil
	}
	return f.schema
}

// Model returns the main bound model.
func (f *Form) Model() any {
	if f == nil {
		return nil
	}
	return f.models[MainRole]
}

// ModelFor returns the model bound under a role.
func (f *Form) ModelFor(role string) (any, bool) {
	if f == nil {
		return nil, false
	}
	model, ok := f.models[role]
	return model, ok
}

// Value returns the current value of a scalar field.
func (f *Form) Value(name string) any {
	if f == nil {
		return nil
	}
	return f.values[name]
}

// Child returns the child form for a nested field.
func (f *Form) Child(name string) *Form {
	if f == nil {
		return nil
	}
	return f.children[name]
}

// Children returns the child forms for a collection field in order.
func (f *Form) Children(name string) []*Form {
	if f == nil {
		return nil
	}
	return append([]*Form(nil), f.collections[name]...)
}

// Fields returns the schema declarations in order, for view-layer iteration.
func (f *Form) Fields() []schema.Field {
	if f == nil {
		return nil
	}
	return f.schema.Fields()
}

// Errors returns the error mapping from the most recent Validate call.
func (f *Form) Errors() validation.Errors {
	if f == nil {
		return nil
	}
	return f.last.Errors
}

// Valid reports whether the most recent Validate call succeeded.
func (f *Form) Valid() bool {
	if f == nil {
		return false
	}
	return f.last.Valid
}

// Data returns the current values as a plain nested mapping: scalars by name,
// nested forms as maps, collections as slices of maps.
func (f *Form) Data() map[string]any {
	if f == nil {
		return nil
	}
	out := make(map[string]any, f.schema.Len())
	for _, field := range f.schema.Fields() {
		switch {
		case field.Collection:
			children := f.collections[field.Name]
			elements := make([]any, 0, len(children))
			for _, child := range children {
				elements = append(elements, child.Data())
			}
			out[field.Name] = elements
		case field.Nested != nil:
			out[field.Name] = f.children[field.Name].Data()
		default:
			out[field.Name] = f.values[field.Name]
		}
	}
	return out
}

func isNilModel(model any) bool {
	if model == nil {
		return true
	}
	rv := reflect.ValueOf(model)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

func collectionElements(raw any) []any {
	if raw == nil {
		return nil
	}
	if elements, ok := raw.([]any); ok {
		return elements
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		element := rv.Index(i)
		// Bind addressable elements by pointer so sync writes reach the
		// original backing array where possible.
		if element.Kind() == reflect.Struct && element.CanAddr() {
			out = append(out, element.Addr().Interface())
			continue
		}
		out = append(out, element.Interface())
	}
	return out
}
