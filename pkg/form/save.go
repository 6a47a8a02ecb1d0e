package form

import (
	"context"
	"fmt"
	"reflect"
	"sort"
)

// Saver is the persistence hook a model may implement. Save receives the
// request context; the form layer imposes no other persistence contract.
type Saver interface {
	Save(ctx context.Context) error
}

// SaveBlock receives the synchronized form data as a plain nested mapping,
// replacing the default model save.
type SaveBlock func(ctx context.Context, data map[string]any) error

// SaveOption configures a Save call.
type SaveOption func(*saveConfig)

type saveConfig struct {
	block SaveBlock
}

// WithBlock hands persistence control to the caller: after the write phase,
// the block is invoked with the synchronized data instead of calling Save on
// the bound models.
func WithBlock(block SaveBlock) SaveOption {
	return func(cfg *saveConfig) {
		cfg.block = block
	}
}

// Save performs the write phase over the whole object graph (children before
// parents, via Sync) and then triggers persistence: either the caller's block
// or Save on every distinct bound root model that implements Saver. Callers
// must only invoke Save after a successful Validate; the form does not
// enforce it.
func (f *Form) Save(ctx context.Context, options ...SaveOption) error {
	if f == nil {
		return fmt.Errorf("form: nil form")
	}
	cfg := saveConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := f.Sync(); err != nil {
		return err
	}

	if cfg.block != nil {
		return cfg.block(ctx, f.Data())
	}

	saved := 0
	seen := make(map[uintptr]struct{}, len(f.models))
	for _, role := range f.roles() {
		model := f.models[role]
		saver, ok := model.(Saver)
		if !ok {
			continue
		}
		// The same model bound under two roles is saved once.
		if ptr, ok := modelPointer(model); ok {
			if _, done := seen[ptr]; done {
				continue
			}
			seen[ptr] = struct{}{}
		}
		if err := saver.Save(ctx); err != nil {
			return err
		}
		saved++
	}
	if saved == 0 {
		return fmt.Errorf("form: no bound model implements Saver; use WithBlock to control persistence")
	}
	return nil
}

// roles returns the bound model roles with the main model first, remaining
// roles sorted for deterministic save order.
func (f *Form) roles() []string {
	out := make([]string, 0, len(f.models))
	for role := range f.models {
		if role == MainRole {
			continue
		}
		out = append(out, role)
	}
	sort.Strings(out)
	if _, ok := f.models[MainRole]; ok {
		out = append([]string{MainRole}, out...)
	}
	return out
}

func modelPointer(model any) (uintptr, bool) {
	rv := reflect.ValueOf(model)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		return rv.Pointer(), true
	default:
		return 0, false
	}
}
