package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/schema"
)

func albumSchema() *schema.Schema {
	track := schema.New("track")
	track.Declare("title", schema.FieldTypeString, schema.Required())

	s := schema.New("album")
	s.Declare("title", schema.FieldTypeString, schema.Required())
	s.Declare("media", schema.FieldTypeString, schema.WithEnum("cd", "vinyl"))
	s.Declare("explicit", schema.FieldTypeBoolean)
	s.DeclareCollection("tracks", track)
	return s
}

func TestViewProjectsValuesAndErrors(t *testing.T) {
	model := map[string]any{
		"title":  "Midnight Marauders",
		"tracks": []any{map[string]any{"title": ""}},
	}
	f, err := form.New(albumSchema(), model)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	f.Validate(map[string]any{
		"title":  "",
		"tracks": []any{map[string]any{"title": ""}},
	})

	view := render.View(f)
	if view.Name != "album" {
		t.Fatalf("view name = %q", view.Name)
	}

	var names []string
	for _, field := range view.Fields {
		names = append(names, field.Name)
	}
	want := []string{"title", "media", "explicit", "tracks"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	title := view.Fields[0]
	if title.Path != "title" || title.Value != "" {
		t.Fatalf("title view malformed: %+v", title)
	}
	if len(title.Errors) != 1 || title.Errors[0] != "can't be blank" {
		t.Fatalf("title errors = %v", title.Errors)
	}

	tracks := view.Fields[3]
	if len(tracks.Children) != 1 {
		t.Fatalf("tracks children = %d", len(tracks.Children))
	}
	trackTitle := tracks.Children[0][0]
	if trackTitle.Path != "tracks.0.title" {
		t.Fatalf("track title path = %q", trackTitle.Path)
	}
	if len(trackTitle.Errors) != 1 {
		t.Fatalf("track title errors = %v", trackTitle.Errors)
	}
}

func TestViewLabelFallback(t *testing.T) {
	s := schema.New("signup")
	s.Declare("email_address", schema.FieldTypeString)
	s.Declare("nickname", schema.FieldTypeString, schema.WithLabel("Handle"))

	f, err := form.New(s, map[string]any{})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	view := render.View(f)
	if view.Fields[0].Label != "Email Address" {
		t.Fatalf("humanized label = %q", view.Fields[0].Label)
	}
	if view.Fields[1].Label != "Handle" {
		t.Fatalf("declared label = %q", view.Fields[1].Label)
	}
}

func TestViewNilForm(t *testing.T) {
	view := render.View(nil)
	if view.Name != "" || len(view.Fields) != 0 {
		t.Fatalf("expected zero view, got %+v", view)
	}
}
