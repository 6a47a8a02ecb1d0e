package openapi_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/google/go-cmp/cmp"
)

const albumSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "Catalog", "version": "1.0.0"},
  "paths": {
    "/albums": {
      "post": {
        "operationId": "createAlbum",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["title"],
                "properties": {
                  "title": {"type": "string", "minLength": 1, "maxLength": 120},
                  "year": {"type": "integer", "minimum": 1900, "maximum": 2100},
                  "media": {"type": "string", "enum": ["cd", "vinyl", "digital"]},
                  "artist": {
                    "type": "object",
                    "required": ["name"],
                    "properties": {
                      "name": {"type": "string"}
                    }
                  },
                  "tracks": {
                    "type": "array",
                    "items": {
                      "type": "object",
                      "properties": {
                        "title": {"type": "string"},
                        "length": {"type": "integer"}
                      }
                    }
                  }
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "created"}
        }
      }
    }
  }
}`

func TestFormSchemaFromOperation(t *testing.T) {
	doc := openapi.MustNewDocument(openapi.SourceFromFS("catalog.json"), []byte(albumSpec))

	adapter := openapi.NewAdapter()
	s, err := adapter.FormSchema(context.Background(), doc, "createAlbum")
	if err != nil {
		t.Fatalf("form schema: %v", err)
	}

	var names []string
	for _, field := range s.Fields() {
		names = append(names, field.Name)
	}
	want := []string{"artist", "media", "title", "tracks", "year"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	title, _ := s.Field("title")
	if !title.Required || title.Type != schema.FieldTypeString {
		t.Fatalf("title declaration malformed: %+v", title)
	}
	if len(title.Validations) != 2 {
		t.Fatalf("title validations = %+v", title.Validations)
	}

	year, _ := s.Field("year")
	if year.Type != schema.FieldTypeInteger || len(year.Validations) != 2 {
		t.Fatalf("year declaration malformed: %+v", year)
	}
	if year.Validations[0].Kind != schema.ValidationRuleMin || year.Validations[0].Params["value"] != "1900" {
		t.Fatalf("year min rule malformed: %+v", year.Validations[0])
	}

	media, _ := s.Field("media")
	if len(media.Enum) != 3 {
		t.Fatalf("media enum malformed: %+v", media.Enum)
	}

	artist, _ := s.Field("artist")
	if artist.Nested == nil || artist.Collection {
		t.Fatalf("artist should be nested object: %+v", artist)
	}
	name, ok := artist.Nested.Field("name")
	if !ok || !name.Required {
		t.Fatalf("artist.name missing required flag: %+v", name)
	}

	tracks, _ := s.Field("tracks")
	if !tracks.Collection || tracks.Nested == nil || tracks.Nested.Len() != 2 {
		t.Fatalf("tracks should be a collection of objects: %+v", tracks)
	}
}

func TestFormSchemaUnknownOperation(t *testing.T) {
	doc := openapi.MustNewDocument(openapi.SourceFromFS("catalog.json"), []byte(albumSpec))

	adapter := openapi.NewAdapter()
	if _, err := adapter.FormSchema(context.Background(), doc, "deleteAlbum"); err == nil {
		t.Fatalf("expected error for unknown operation")
	}
}

func TestSourceFromURLValidation(t *testing.T) {
	if _, err := openapi.SourceFromURL("https://example.com/openapi.json"); err != nil {
		t.Fatalf("valid url rejected: %v", err)
	}
	if _, err := openapi.SourceFromURL("ftp://example.com/openapi.json"); err == nil {
		t.Fatalf("expected scheme error")
	}
}
