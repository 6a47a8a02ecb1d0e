package render

import (
	"fmt"
	"io/fs"
	"strconv"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbind/pkg/schema"
)

const defaultTemplate = "form.html.tpl"

// Renderer produces an HTML snapshot of a form view using a pongo2 template.
// The built-in template covers scalar inputs, nested groups, and collection
// rows; callers can point it at their own template set instead.
type Renderer struct {
	set      *pongo2.TemplateSet
	template string
	theme    rendererTheme
}

// RendererOption configures a Renderer.
type RendererOption func(*rendererConfig)

type rendererConfig struct {
	templates fs.FS
	template  string
	theme     *theme.RendererConfig
}

// WithTemplateFS loads templates from the supplied filesystem instead of the
// embedded defaults.
func WithTemplateFS(fsys fs.FS) RendererOption {
	return func(cfg *rendererConfig) {
		cfg.templates = fsys
	}
}

// WithTemplateName selects the entry template. Defaults to form.html.tpl.
func WithTemplateName(name string) RendererOption {
	return func(cfg *rendererConfig) {
		if name != "" {
			cfg.template = name
		}
	}
}

// WithTheme applies a resolved theme configuration; its tokens surface as CSS
// variables in the rendered markup.
func WithTheme(cfg *theme.RendererConfig) RendererOption {
	return func(rc *rendererConfig) {
		rc.theme = cfg
	}
}

// NewRenderer constructs a Renderer from the supplied options.
func NewRenderer(options ...RendererOption) (*Renderer, error) {
	cfg := rendererConfig{template: defaultTemplate}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	templates := cfg.templates
	if templates == nil {
		sub, err := fs.Sub(templatesFS, "templates")
		if err != nil {
			return nil, fmt.Errorf("render: embedded templates: %w", err)
		}
		templates = sub
	}

	return &Renderer{
		set:      pongo2.NewSet("formbind", pongo2.NewFSLoader(templates)),
		template: cfg.template,
		theme:    buildThemeContext(cfg.theme),
	}, nil
}

// Render executes the configured template over the supplied view and returns
// the resulting markup.
func (r *Renderer) Render(view FormView) ([]byte, error) {
	if r == nil || r.set == nil {
		return nil, fmt.Errorf("render: renderer is not initialised")
	}
	tmpl, err := r.set.FromFile(r.template)
	if err != nil {
		return nil, fmt.Errorf("render: load template %q: %w", r.template, err)
	}

	out, err := tmpl.ExecuteBytes(pongo2.Context{
		"form": map[string]any{
			"name": view.Name,
			"rows": flattenRows(view.Fields, 0),
		},
		"theme": map[string]any{
			"name":          r.theme.Name,
			"variant":       r.theme.Variant,
			"tokens":        r.theme.Tokens,
			"css_var_style": r.theme.CSSVarsStyle,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("render: execute template %q: %w", r.template, err)
	}
	return out, nil
}

// flattenRows turns the field tree into template rows: group headers for
// nested and collection fields, input rows for scalars. Depth drives
// indentation in the template.
func flattenRows(fields []FieldView, depth int) []map[string]any {
	rows := []map[string]any{}
	for _, field := range fields {
		switch {
		case field.Children != nil:
			rows = append(rows, groupRow(field, depth))
			for idx, child := range field.Children {
				rows = append(rows, map[string]any{
					"kind":  "group",
					"label": field.Label + " " + strconv.Itoa(idx+1),
					"path":  joinPath(field.Path, strconv.Itoa(idx)),
					"depth": depth + 1,
				})
				rows = append(rows, flattenRows(child, depth+2)...)
			}
		case field.Nested != nil:
			rows = append(rows, groupRow(field, depth))
			rows = append(rows, flattenRows(field.Nested, depth+1)...)
		default:
			rows = append(rows, inputRow(field, depth))
		}
	}
	return rows
}

func groupRow(field FieldView, depth int) map[string]any {
	return map[string]any{
		"kind":   "group",
		"label":  field.Label,
		"path":   field.Path,
		"depth":  depth,
		"errors": field.Errors,
	}
}

func inputRow(field FieldView, depth int) map[string]any {
	return map[string]any{
		"kind":     "input",
		"name":     field.Name,
		"path":     field.Path,
		"label":    field.Label,
		"input":    inputTypeFor(field),
		"value":    field.Value,
		"required": field.Required,
		"enum":     field.Enum,
		"errors":   field.Errors,
		"depth":    depth,
	}
}

func inputTypeFor(field FieldView) string {
	if len(field.Enum) > 0 {
		return "select"
	}
	switch field.Type {
	case schema.FieldTypeBoolean:
		return "checkbox"
	case schema.FieldTypeInteger, schema.FieldTypeNumber:
		return "number"
	default:
		return "text"
	}
}
