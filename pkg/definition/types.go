package definition

// File shapes for declarative form definitions. Fields are declared as an
// ordered list so the schema preserves declaration order across JSON and YAML
// sources.

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Fields []fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	Name        string      `json:"name" yaml:"name"`
	Type        string      `json:"type" yaml:"type"`
	Role        string      `json:"role,omitempty" yaml:"role,omitempty"`
	Required    bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Collection  bool        `json:"collection,omitempty" yaml:"collection,omitempty"`
	Label       string      `json:"label,omitempty" yaml:"label,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any         `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []any       `json:"enum,omitempty" yaml:"enum,omitempty"`
	Pattern     string      `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Min         *float64    `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64    `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength   *int        `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   *int        `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Fields      []fieldFile `json:"fields,omitempty" yaml:"fields,omitempty"`
}
