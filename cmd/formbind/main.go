package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-formbind/pkg/definition"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/prompt"
	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/schema"
)

func main() {
	definitions := flag.String("definitions", "", "definition file or directory (JSON/YAML)")
	formName := flag.String("form", "", "form name inside the definitions")
	source := flag.String("openapi", "", "OpenAPI document path or URL")
	operation := flag.String("operation", "", "operationId whose request body defines the form")
	input := flag.String("input", "", "JSON payload file, '-' for stdin; omit for interactive prompts")
	html := flag.Bool("html", false, "render the form as HTML instead of validating input")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	s, err := resolveSchema(ctx, *definitions, *formName, *source, *operation)
	if err != nil {
		log.Fatalf("Failed to resolve schema: %v", err)
	}

	f, err := form.New(s, map[string]any{})
	if err != nil {
		log.Fatalf("Failed to build form: %v", err)
	}

	if *html {
		renderer, err := render.NewRenderer()
		if err != nil {
			log.Fatalf("Failed to build renderer: %v", err)
		}
		markup, err := renderer.Render(render.View(f))
		if err != nil {
			log.Fatalf("Failed to render form: %v", err)
		}
		writeOutput(*output, markup)
		return
	}

	payload, err := readPayload(ctx, s, *input)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	result := f.Validate(payload)
	if !result.Valid {
		report, err := json.MarshalIndent(result.Errors, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode errors: %v", err)
		}
		fmt.Fprintln(os.Stderr, string(report))
		os.Exit(1)
	}

	if err := f.Sync(); err != nil {
		log.Fatalf("Failed to sync: %v", err)
	}

	data, err := json.MarshalIndent(f.Data(), "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode data: %v", err)
	}
	writeOutput(*output, append(data, '\n'))
}

func resolveSchema(ctx context.Context, definitions, formName, source, operation string) (*schema.Schema, error) {
	switch {
	case definitions != "":
		if formName == "" {
			return nil, fmt.Errorf("-form is required with -definitions")
		}
		return schemaFromDefinitions(definitions, formName)
	case source != "":
		if operation == "" {
			return nil, fmt.Errorf("-operation is required with -openapi")
		}
		return schemaFromOpenAPI(ctx, source, operation)
	default:
		return nil, fmt.Errorf("one of -definitions or -openapi is required")
	}
}

func schemaFromDefinitions(path, formName string) (*schema.Schema, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		library, err := definition.LoadFS(os.DirFS(path))
		if err != nil {
			return nil, err
		}
		s, ok := library.Form(formName)
		if !ok {
			return nil, fmt.Errorf("form %q not found in %s (have: %s)", formName, path, strings.Join(library.Names(), ", "))
		}
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	forms, err := definition.Parse(data, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	s, ok := forms[formName]
	if !ok {
		return nil, fmt.Errorf("form %q not found in %s", formName, path)
	}
	return s, nil
}

func schemaFromOpenAPI(ctx context.Context, source, operation string) (*schema.Schema, error) {
	src, err := parseSource(source)
	if err != nil {
		return nil, err
	}

	loader := openapi.NewLoader(openapi.WithHTTPFallback(30 * time.Second))
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return openapi.NewAdapter().FormSchema(ctx, doc, operation)
}

func parseSource(raw string) (openapi.Source, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil, fmt.Errorf("source is empty")
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return openapi.SourceFromURL(path)
	}
	return openapi.SourceFromFile(path), nil
}

func readPayload(ctx context.Context, s *schema.Schema, input string) (map[string]any, error) {
	if input == "" {
		return prompt.NewFiller().Fill(ctx, s)
	}

	var (
		data []byte
		err  error
	)
	if input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return nil, err
	}

	payload := map[string]any{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}

func writeOutput(path string, data []byte) {
	if path == "" {
		fmt.Print(string(data))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Printf("Written to %s\n", path)
}
