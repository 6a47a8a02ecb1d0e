package form_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/google/go-cmp/cmp"
)

type persistedSong struct {
	song
	saves int
}

func (p *persistedSong) Save(ctx context.Context) error {
	p.saves++
	return nil
}

func TestSaveSyncsThenSavesModel(t *testing.T) {
	model := &persistedSong{song: song{Title: "A", Artist: &artist{Name: "B"}}}
	f, err := form.New(songSchema(), model)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if result := f.Validate(map[string]any{"title": "C"}); !result.Valid {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if err := f.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if model.Title != "C" {
		t.Fatalf("save did not sync: %q", model.Title)
	}
	if model.saves != 1 {
		t.Fatalf("saves = %d, want 1", model.saves)
	}
}

func TestSaveWithBlockSkipsDefaultSave(t *testing.T) {
	model := &persistedSong{song: song{Title: "A", Artist: &artist{Name: "B"}}}
	f, err := form.New(songSchema(), model)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	f.Validate(map[string]any{"title": "C"})

	var captured map[string]any
	err = f.Save(context.Background(), form.WithBlock(func(ctx context.Context, data map[string]any) error {
		captured = data
		return nil
	}))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if model.saves != 0 {
		t.Fatalf("default save ran despite block")
	}
	if model.Title != "C" {
		t.Fatalf("block save skipped sync")
	}

	want := map[string]any{
		"title":  "C",
		"artist": map[string]any{"name": "B"},
		"tracks": []any{},
	}
	if diff := cmp.Diff(want, captured); diff != "" {
		t.Fatalf("block data mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveWithoutSaverFails(t *testing.T) {
	f, err := form.New(songSchema(), &song{Title: "A", Artist: &artist{Name: "B"}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	f.Validate(map[string]any{"title": "C"})

	if err := f.Save(context.Background()); err == nil {
		t.Fatalf("expected error for model without Saver")
	}
}

func TestSaveBlockErrorPropagates(t *testing.T) {
	f, err := form.New(songSchema(), &song{Title: "A", Artist: &artist{Name: "B"}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	f.Validate(map[string]any{"title": "C"})

	boom := errors.New("storage offline")
	err = f.Save(context.Background(), form.WithBlock(func(context.Context, map[string]any) error {
		return boom
	}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected block error, got %v", err)
	}
}

func TestSaveDataUsesDeclaredFieldsOnly(t *testing.T) {
	s := schema.New("song").Declare("title", schema.FieldTypeString)
	f, err := form.New(s, map[string]any{"title": "A", "secret": "x"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	data := f.Data()
	if _, ok := data["secret"]; ok {
		t.Fatalf("undeclared model key leaked into data: %v", data)
	}
}
