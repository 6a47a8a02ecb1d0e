package schema_test

import (
	"testing"

	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/google/go-cmp/cmp"
)

func TestDeclareOrderAndLookup(t *testing.T) {
	s := schema.New("song").
		Declare("title", schema.FieldTypeString, schema.Required()).
		Declare("length", schema.FieldTypeInteger).
		Declare("explicit", schema.FieldTypeBoolean)

	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3", s.Len())
	}

	var names []string
	for _, field := range s.Fields() {
		names = append(names, field.Name)
	}
	want := []string{"title", "length", "explicit"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	field, ok := s.Field("title")
	if !ok {
		t.Fatalf("title not declared")
	}
	if !field.Required || field.Type != schema.FieldTypeString {
		t.Fatalf("unexpected declaration: %+v", field)
	}

	if s.Has("unknown") {
		t.Fatalf("undeclared field reported as present")
	}
}

func TestRedeclarationOverwritesInPlace(t *testing.T) {
	s := schema.New("song").
		Declare("title", schema.FieldTypeString).
		Declare("length", schema.FieldTypeInteger).
		Declare("title", schema.FieldTypeString, schema.Required(), schema.WithLabel("Song Title"))

	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}

	fields := s.Fields()
	if fields[0].Name != "title" {
		t.Fatalf("redeclared field lost its position: %v", fields[0].Name)
	}
	if !fields[0].Required || fields[0].Label != "Song Title" {
		t.Fatalf("redeclaration did not overwrite: %+v", fields[0])
	}
}

func TestExtendLastWriteWins(t *testing.T) {
	base := schema.New("album").
		Declare("title", schema.FieldTypeString).
		Declare("year", schema.FieldTypeInteger)

	override := schema.New("album").
		Declare("title", schema.FieldTypeString, schema.Required()).
		Declare("label", schema.FieldTypeString)

	merged := base.Extend(override)

	if base.Len() != 2 {
		t.Fatalf("extend mutated the receiver")
	}
	if merged.Len() != 3 {
		t.Fatalf("merged len = %d, want 3", merged.Len())
	}
	title, _ := merged.Field("title")
	if !title.Required {
		t.Fatalf("override did not win: %+v", title)
	}

	var names []string
	for _, field := range merged.Fields() {
		names = append(names, field.Name)
	}
	want := []string{"title", "year", "label"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("merged order mismatch (-want +got):\n%s", diff)
	}
}

func TestDeclareNestedAndCollection(t *testing.T) {
	artist := schema.New("artist").Declare("name", schema.FieldTypeString, schema.Required())
	track := schema.New("track").Declare("title", schema.FieldTypeString)

	s := schema.New("album").
		DeclareNested("artist", artist).
		DeclareCollection("tracks", track)

	nested, ok := s.Field("artist")
	if !ok || nested.Type != schema.FieldTypeObject || nested.Nested == nil {
		t.Fatalf("nested declaration malformed: %+v", nested)
	}
	if nested.Collection {
		t.Fatalf("nested field should not be a collection")
	}

	coll, ok := s.Field("tracks")
	if !ok || !coll.Collection || coll.Type != schema.FieldTypeArray || coll.Nested == nil {
		t.Fatalf("collection declaration malformed: %+v", coll)
	}
}

func TestValidationOptions(t *testing.T) {
	s := schema.New("song").Declare("title", schema.FieldTypeString,
		schema.WithMinLength(1),
		schema.WithMaxLength(120),
		schema.WithPattern(`^[^\s].*$`),
	)

	field, _ := s.Field("title")
	if len(field.Validations) != 3 {
		t.Fatalf("validations = %d, want 3", len(field.Validations))
	}
	if field.Validations[0].Kind != schema.ValidationRuleMinLength || field.Validations[0].Params["value"] != "1" {
		t.Fatalf("minLength rule malformed: %+v", field.Validations[0])
	}
	if field.Validations[2].Params["pattern"] == "" {
		t.Fatalf("pattern rule missing expression")
	}
}
