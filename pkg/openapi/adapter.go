package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbind/pkg/schema"
)

// Adapter derives form schemas from OpenAPI operations: the JSON request body
// of an operation becomes a Schema whose fields mirror the body's properties,
// constraints included.
type Adapter struct {
	resolveRefs bool
}

// AdapterOption configures the adapter.
type AdapterOption func(*Adapter)

// WithReferenceResolution toggles eager $ref resolution (on by default).
func WithReferenceResolution(enabled bool) AdapterOption {
	return func(a *Adapter) {
		a.resolveRefs = enabled
	}
}

// NewAdapter constructs an Adapter.
func NewAdapter(options ...AdapterOption) *Adapter {
	a := &Adapter{resolveRefs: true}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// FormSchema locates an operation by its operationId and converts its request
// body into a form schema named after the operation.
func (a *Adapter) FormSchema(ctx context.Context, doc Document, operationID string) (*schema.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi adapter: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: a.resolveRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi adapter: load document: %w", err)
	}
	if a.resolveRefs {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi adapter: validate: %w", err)
		}
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return nil, fmt.Errorf("openapi adapter: operation %q not found", operationID)
	}

	body := requestBodySchema(operation.RequestBody)
	if body == nil {
		return nil, fmt.Errorf("openapi adapter: operation %q has no request body schema", operationID)
	}

	s := schema.New(operationID)
	if err := declareObject(s, body); err != nil {
		return nil, err
	}
	return s, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestBodySchema(ref *openapi3.RequestBodyRef) *openapi3.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	content := ref.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// declareObject registers one field per property, sorted by name for a
// deterministic declaration order.
func declareObject(s *schema.Schema, src *openapi3.Schema) error {
	if src == nil {
		return nil
	}

	requiredSet := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		requiredSet[name] = struct{}{}
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := src.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		property := ref.Value
		_, required := requiredSet[name]
		if err := declareProperty(s, name, property, required); err != nil {
			return err
		}
	}
	return nil
}

func declareProperty(s *schema.Schema, name string, property *openapi3.Schema, required bool) error {
	switch firstSchemaType(property.Type) {
	case "object", "":
		nested := schema.New(s.Name() + "." + name)
		if err := declareObject(nested, property); err != nil {
			return err
		}
		s.DeclareNested(name, nested, nestedOptions(property, required)...)
	case "array":
		if property.Items == nil || property.Items.Value == nil {
			return fmt.Errorf("openapi adapter: array field %q missing items", name)
		}
		items := property.Items.Value
		if firstSchemaType(items.Type) == "object" {
			elem := schema.New(s.Name() + "." + name)
			if err := declareObject(elem, items); err != nil {
				return err
			}
			s.DeclareCollection(name, elem, nestedOptions(property, required)...)
			return nil
		}
		s.Declare(name, schema.FieldTypeArray, nestedOptions(property, required)...)
	default:
		s.Declare(name, mapFieldType(property.Type), scalarOptions(property, required)...)
	}
	return nil
}

func nestedOptions(property *openapi3.Schema, required bool) []schema.FieldOption {
	var options []schema.FieldOption
	if required {
		options = append(options, schema.Required())
	}
	if property.Description != "" {
		options = append(options, schema.WithDescription(property.Description))
	}
	return options
}

func scalarOptions(property *openapi3.Schema, required bool) []schema.FieldOption {
	options := nestedOptions(property, required)
	if property.Default != nil {
		options = append(options, schema.WithDefault(property.Default))
	}
	if len(property.Enum) > 0 {
		options = append(options, schema.WithEnum(property.Enum...))
	}
	if property.Min != nil {
		params := map[string]string{"value": formatFloat(*property.Min)}
		if property.ExclusiveMin {
			params["exclusive"] = "true"
		}
		options = append(options, schema.WithValidation(schema.ValidationRule{
			Kind:   schema.ValidationRuleMin,
			Params: params,
		}))
	}
	if property.Max != nil {
		params := map[string]string{"value": formatFloat(*property.Max)}
		if property.ExclusiveMax {
			params["exclusive"] = "true"
		}
		options = append(options, schema.WithValidation(schema.ValidationRule{
			Kind:   schema.ValidationRuleMax,
			Params: params,
		}))
	}
	if property.MinLength != 0 {
		options = append(options, schema.WithMinLength(int(property.MinLength)))
	}
	if property.MaxLength != nil {
		options = append(options, schema.WithMaxLength(int(*property.MaxLength)))
	}
	if property.Pattern != "" {
		options = append(options, schema.WithPattern(property.Pattern))
	}
	return options
}

func mapFieldType(types *openapi3.Types) schema.FieldType {
	switch firstSchemaType(types) {
	case "integer":
		return schema.FieldTypeInteger
	case "number":
		return schema.FieldTypeNumber
	case "boolean":
		return schema.FieldTypeBoolean
	case "array":
		return schema.FieldTypeArray
	case "object":
		return schema.FieldTypeObject
	default:
		return schema.FieldTypeString
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
