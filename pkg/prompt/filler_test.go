package prompt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/prompt"
	"github.com/goliatone/go-formbind/pkg/schema"
)

type scriptedDriver struct {
	inputs   []string
	confirms []bool
	selects  []int
	messages []string
	err      error
}

func (d *scriptedDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	d.messages = append(d.messages, cfg.Message)
	if len(d.inputs) == 0 {
		return "", errors.New("no scripted input left")
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	return out, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	d.messages = append(d.messages, cfg.Message)
	if len(d.confirms) == 0 {
		return false, errors.New("no scripted confirm left")
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	d.messages = append(d.messages, cfg.Message)
	if len(d.selects) == 0 {
		return 0, errors.New("no scripted select left")
	}
	out := d.selects[0]
	d.selects = d.selects[1:]
	return out, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.messages = append(d.messages, msg)
	return d.err
}

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

func TestFillWalksSchema(t *testing.T) {
	driver := &scriptedDriver{
		inputs:   []string{"Low End Theory", "Verses", "Rap Promoter"},
		confirms: []bool{false, true, true, false},
		selects:  []int{1},
	}
	filler := prompt.NewFiller(prompt.WithDriver(driver))

	input, err := filler.Fill(context.Background(), albumSchema())
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]any{
		"title":    "Low End Theory",
		"media":    "vinyl",
		"explicit": false,
		"tracks": []any{
			map[string]any{"title": "Verses"},
			map[string]any{"title": "Rap Promoter"},
		},
	}
	if diff := cmp.Diff(want, input); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
}

func TestFillNestedPrefixesLabels(t *testing.T) {
	artist := schema.New("artist")
	artist.Declare("name", schema.FieldTypeString)

	s := schema.New("album")
	s.DeclareNested("artist", artist)

	driver := &scriptedDriver{inputs: []string{"A Tribe Called Quest"}}
	filler := prompt.NewFiller(prompt.WithDriver(driver))

	input, err := filler.Fill(context.Background(), s)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	nested, ok := input["artist"].(map[string]any)
	if !ok || nested["name"] != "A Tribe Called Quest" {
		t.Fatalf("nested input = %#v", input["artist"])
	}

	var sawPrefixed bool
	for _, msg := range driver.messages {
		if msg == "Artist > Name" {
			sawPrefixed = true
		}
	}
	if !sawPrefixed {
		t.Fatalf("expected prefixed label, got %v", driver.messages)
	}
}

func TestFillPropagatesDriverErrors(t *testing.T) {
	driver := &scriptedDriver{err: prompt.ErrAborted}
	filler := prompt.NewFiller(prompt.WithDriver(driver))

	s := schema.New("album")
	s.Declare("title", schema.FieldTypeString)

	if _, err := filler.Fill(context.Background(), s); !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestFillNilSchema(t *testing.T) {
	filler := prompt.NewFiller(prompt.WithDriver(&scriptedDriver{}))
	input, err := filler.Fill(context.Background(), nil)
	if err != nil || len(input) != 0 {
		t.Fatalf("expected empty input, got %v (%v)", input, err)
	}
}
