package coerce_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formbind/pkg/coerce"
	"github.com/google/go-cmp/cmp"
)

func TestString(t *testing.T) {
	cases := []struct {
		name    string
		raw     any
		want    any
		wantErr bool
	}{
		{name: "passthrough", raw: "hello", want: "hello"},
		{name: "nil", raw: nil, want: nil},
		{name: "int", raw: 42, want: "42"},
		{name: "float", raw: 1.5, want: "1.5"},
		{name: "bool", raw: true, want: "true"},
		{name: "map rejected", raw: map[string]any{"a": 1}, wantErr: true},
		{name: "slice rejected", raw: []any{"a"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := coerce.String(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				var cerr coerce.Error
				if !errors.As(err, &cerr) {
					t.Fatalf("expected coerce.Error, got %T", err)
				}
				if cerr.Type != coerce.TypeString {
					t.Fatalf("error type mismatch: %q", cerr.Type)
				}
				return
			}
			if err != nil {
				t.Fatalf("coerce: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInteger(t *testing.T) {
	cases := []struct {
		name    string
		raw     any
		want    any
		wantErr bool
	}{
		{name: "string digits", raw: "42", want: int64(42)},
		{name: "negative", raw: "-7", want: int64(-7)},
		{name: "blank is nil", raw: "  ", want: nil},
		{name: "whole float", raw: float64(3), want: int64(3)},
		{name: "fractional float", raw: 3.5, wantErr: true},
		{name: "garbage", raw: "abc", wantErr: true},
		{name: "bool rejected", raw: true, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := coerce.Integer(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("coerce: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBoolean(t *testing.T) {
	truthy := []any{true, "true", "on", "YES", "1"}
	for _, raw := range truthy {
		got, err := coerce.Boolean(raw)
		if err != nil {
			t.Fatalf("boolean(%v): %v", raw, err)
		}
		if got != true {
			t.Fatalf("boolean(%v) = %v, want true", raw, got)
		}
	}

	falsy := []any{false, "false", "off", "No", "0"}
	for _, raw := range falsy {
		got, err := coerce.Boolean(raw)
		if err != nil {
			t.Fatalf("boolean(%v): %v", raw, err)
		}
		if got != false {
			t.Fatalf("boolean(%v) = %v, want false", raw, got)
		}
	}

	if got, err := coerce.Boolean(""); err != nil || got != nil {
		t.Fatalf("boolean(blank) = %v, %v; want nil", got, err)
	}
	if _, err := coerce.Boolean("maybe"); err == nil {
		t.Fatalf("expected error for unrecognised literal")
	}
}

func TestRegistryOverride(t *testing.T) {
	reg := coerce.NewRegistry()

	if _, ok := reg.Resolve(coerce.TypeInteger); !ok {
		t.Fatalf("builtin integer coercer missing")
	}

	reg.Register(coerce.TypeString, func(raw any) (any, error) {
		return "fixed", nil
	})
	coercer, ok := reg.Resolve(coerce.TypeString)
	if !ok {
		t.Fatalf("string coercer missing after override")
	}
	got, err := coercer("anything")
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if got != "fixed" {
		t.Fatalf("override not applied, got %v", got)
	}

	if _, ok := reg.Resolve("unknown"); ok {
		t.Fatalf("unexpected coercer for unknown type")
	}
}

func TestSanitized(t *testing.T) {
	coercer := coerce.Sanitized(coerce.String)

	got, err := coercer(`<script>alert(1)</script>Tom & Jerry`)
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if got != "Tom & Jerry" {
		t.Fatalf("sanitised value mismatch: %q", got)
	}

	got, err = coercer("plain title")
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if got != "plain title" {
		t.Fatalf("plain value altered: %q", got)
	}
}
