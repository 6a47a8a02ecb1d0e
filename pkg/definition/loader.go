// Package definition loads declarative form definitions from JSON or YAML
// files and turns them into schemas. Definitions are the file-based
// counterpart to declaring a schema in code; both produce the same Schema
// type.
package definition

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbind/pkg/schema"
)

// Library holds the schemas parsed from one or more definition files.
type Library struct {
	forms map[string]*schema.Schema
}

// Form returns the schema registered under the supplied name.
func (l *Library) Form(name string) (*schema.Schema, bool) {
	if l == nil {
		return nil, false
	}
	s, ok := l.forms[name]
	return s, ok
}

// Names returns the registered form names; order is unspecified.
func (l *Library) Names() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.forms))
	for name := range l.forms {
		out = append(out, name)
	}
	return out
}

// Empty reports whether the library holds any forms.
func (l *Library) Empty() bool {
	return l == nil || len(l.forms) == 0
}

// LoadFS walks the provided filesystem and parses every JSON/YAML definition
// file. Duplicate form names across files are an error.
func LoadFS(fsys fs.FS) (*Library, error) {
	library := &Library{forms: make(map[string]*schema.Schema)}
	if fsys == nil {
		return library, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}

		forms, err := Parse(data, path)
		if err != nil {
			return err
		}
		for name, s := range forms {
			if _, exists := library.forms[name]; exists {
				return fmt.Errorf("definition: duplicate form %q (file %s)", name, path)
			}
			library.forms[name] = s
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return library, nil
}

// Parse decodes a single definition document (JSON first, YAML fallback) and
// builds a schema per declared form. source is used in error strings only.
func Parse(data []byte, source string) (map[string]*schema.Schema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("definition: file %s is empty", source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("definition: parse %s: invalid JSON or YAML", source)
		}
	}
	if len(doc.Forms) == 0 {
		return nil, fmt.Errorf("definition: file %s declares no forms", source)
	}

	out := make(map[string]*schema.Schema, len(doc.Forms))
	for name, raw := range doc.Forms {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, fmt.Errorf("definition: file %s declares an empty form name", source)
		}
		s, err := buildSchema(trimmed, raw.Fields, source)
		if err != nil {
			return nil, err
		}
		out[trimmed] = s
	}
	return out, nil
}

func buildSchema(name string, fields []fieldFile, source string) (*schema.Schema, error) {
	s := schema.New(name)
	for _, raw := range fields {
		fieldName := strings.TrimSpace(raw.Name)
		if fieldName == "" {
			return nil, fmt.Errorf("definition: form %q (file %s) declares an unnamed field", name, source)
		}

		options := fieldOptions(raw)

		switch strings.TrimSpace(strings.ToLower(raw.Type)) {
		case "object":
			nested, err := buildSchema(name+"."+fieldName, raw.Fields, source)
			if err != nil {
				return nil, err
			}
			s.DeclareNested(fieldName, nested, options...)
		case "array":
			if len(raw.Fields) == 0 {
				s.Declare(fieldName, schema.FieldTypeArray, options...)
				continue
			}
			elem, err := buildSchema(name+"."+fieldName, raw.Fields, source)
			if err != nil {
				return nil, err
			}
			s.DeclareCollection(fieldName, elem, options...)
		case "string", "":
			s.Declare(fieldName, schema.FieldTypeString, options...)
		case "integer":
			s.Declare(fieldName, schema.FieldTypeInteger, options...)
		case "number":
			s.Declare(fieldName, schema.FieldTypeNumber, options...)
		case "boolean":
			s.Declare(fieldName, schema.FieldTypeBoolean, options...)
		default:
			return nil, fmt.Errorf("definition: form %q field %q has unknown type %q (file %s)", name, fieldName, raw.Type, source)
		}
	}
	return s, nil
}

func fieldOptions(raw fieldFile) []schema.FieldOption {
	var options []schema.FieldOption
	if raw.Required {
		options = append(options, schema.Required())
	}
	if role := strings.TrimSpace(raw.Role); role != "" {
		options = append(options, schema.On(role))
	}
	if label := strings.TrimSpace(raw.Label); label != "" {
		options = append(options, schema.WithLabel(label))
	}
	if desc := strings.TrimSpace(raw.Description); desc != "" {
		options = append(options, schema.WithDescription(desc))
	}
	if raw.Default != nil {
		options = append(options, schema.WithDefault(raw.Default))
	}
	if len(raw.Enum) > 0 {
		options = append(options, schema.WithEnum(raw.Enum...))
	}
	if raw.Min != nil {
		options = append(options, schema.WithMin(*raw.Min))
	}
	if raw.Max != nil {
		options = append(options, schema.WithMax(*raw.Max))
	}
	if raw.MinLength != nil {
		options = append(options, schema.WithMinLength(*raw.MinLength))
	}
	if raw.MaxLength != nil {
		options = append(options, schema.WithMaxLength(*raw.MaxLength))
	}
	if pattern := strings.TrimSpace(raw.Pattern); pattern != "" {
		options = append(options, schema.WithPattern(pattern))
	}
	return options
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
