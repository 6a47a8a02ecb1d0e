// Package access resolves model getter/setter pairs behind a small Accessor
// contract. Forms read and write models exclusively through it, so any plain
// struct, map, or hand-rolled adapter qualifies as a model.
package access

import (
	"fmt"
	"reflect"
)

// Accessor exposes a model's fields by name. Get is used during form
// construction (read-once), Set during synchronization. Implementations must
// not trigger persistence.
type Accessor interface {
	Get(name string) (any, error)
	Set(name string, value any) error
}

// Typer is an optional extension accessors can implement to expose the static
// type behind a field name. Forms use it to materialize typed placeholder
// sub-models and to rebuild typed collections during synchronization.
type Typer interface {
	FieldType(name string) (reflect.Type, bool)
}

// Operation labels for MissingAccessorError reporting.
const (
	OpGet = "get"
	OpSet = "set"
)

// MissingAccessorError reports a schema/model contract violation: a declared
// field has no corresponding getter or setter on the bound model. It is a
// programmer error and propagates as a hard failure.
type MissingAccessorError struct {
	Model string
	Field string
	Op    string
}

func (e MissingAccessorError) Error() string {
	return fmt.Sprintf("access: model %s has no %s accessor for field %q", e.Model, e.Op, e.Field)
}

// Resolve picks an accessor for the supplied model. Values that already
// implement Accessor pass through untouched; maps bind directly; everything
// else goes through the reflection binder.
func Resolve(model any) (Accessor, error) {
	switch m := model.(type) {
	case nil:
		return nil, fmt.Errorf("access: model is nil")
	case Accessor:
		return m, nil
	case map[string]any:
		return ForMap(m), nil
	default:
		return ForStruct(model)
	}
}
