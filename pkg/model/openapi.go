package model

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const lookupExtensionKey = "x-lookup"

// FromOpenAPI derives a descriptor from the component schema named schemaName
// inside an OpenAPI document. Properties are emitted in sorted order since the
// document does not preserve declaration order. A property carrying an
// `x-lookup` extension ({collection, columns}) becomes a lookup property.
func FromOpenAPI(ctx context.Context, raw []byte, schemaName, collection string) (Descriptor, error) {
	if strings.TrimSpace(collection) == "" {
		return Descriptor{}, ErrCollectionMissing
	}
	if len(raw) == 0 {
		return Descriptor{}, errors.New("model openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return Descriptor{}, fmt.Errorf("model openapi: load document: %w", err)
	}
	if doc.Components == nil || doc.Components.Schemas == nil {
		return Descriptor{}, fmt.Errorf("model openapi: schema %q not found", schemaName)
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return Descriptor{}, fmt.Errorf("model openapi: schema %q not found", schemaName)
	}

	return descriptorFromSchema(ref.Value, collection), nil
}

func descriptorFromSchema(schema *openapi3.Schema, collection string) Descriptor {
	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	desc := Descriptor{
		Collection: collection,
		Properties: names,
		Fields:     make(map[string]PropertyDescriptor, len(names)),
	}
	for _, name := range names {
		prop := PropertyDescriptor{}
		if ref := schema.Properties[name]; ref != nil && ref.Value != nil {
			prop = propertyFromSchema(ref.Value)
		}
		_, prop.Required = required[name]
		desc.Fields[name] = prop
	}
	return desc
}

func propertyFromSchema(src *openapi3.Schema) PropertyDescriptor {
	prop := PropertyDescriptor{
		Type:    mapType(src.Type),
		Label:   src.Title,
		Default: src.Default,
	}
	if len(src.Enum) > 0 {
		prop.Enum = append([]any(nil), src.Enum...)
	}

	if src.Min != nil {
		params := map[string]string{"value": formatFloat(*src.Min)}
		if src.ExclusiveMin {
			params["exclusive"] = "true"
		}
		prop.Validators = append(prop.Validators, ValidationRule{Kind: ValidationRuleMin, Params: params})
	}
	if src.Max != nil {
		params := map[string]string{"value": formatFloat(*src.Max)}
		if src.ExclusiveMax {
			params["exclusive"] = "true"
		}
		prop.Validators = append(prop.Validators, ValidationRule{Kind: ValidationRuleMax, Params: params})
	}
	if src.MinLength != 0 {
		prop.Validators = append(prop.Validators, MinLength(int(src.MinLength)))
	}
	if src.MaxLength != nil {
		prop.Validators = append(prop.Validators, MaxLength(int(*src.MaxLength)))
	}
	if src.Pattern != "" {
		prop.Validators = append(prop.Validators, Pattern(src.Pattern))
	}
	if src.Format == "email" {
		prop.Validators = append(prop.Validators, Email())
	}

	prop.Lookup = lookupFromExtensions(src.Extensions)
	return prop
}

func lookupFromExtensions(ext map[string]any) *LookupSpec {
	raw, ok := ext[lookupExtensionKey].(map[string]any)
	if !ok {
		return nil
	}
	collection, _ := raw["collection"].(string)
	if strings.TrimSpace(collection) == "" {
		return nil
	}
	spec := &LookupSpec{Collection: collection}
	columns, _ := raw["columns"].([]any)
	for _, entry := range columns {
		column, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		path, _ := column["path"].(string)
		title, _ := column["title"].(string)
		if path == "" {
			continue
		}
		spec.Columns = append(spec.Columns, LookupColumn{Path: path, Title: title})
	}
	return spec
}

func mapType(types *openapi3.Types) FieldType {
	if types == nil {
		return ""
	}
	switch {
	case types.Is("integer"):
		return FieldTypeInteger
	case types.Is("number"):
		return FieldTypeNumber
	case types.Is("boolean"):
		return FieldTypeBoolean
	case types.Is("array"):
		return FieldTypeArray
	case types.Is("object"):
		return FieldTypeObject
	case types.Is("string"):
		return FieldTypeString
	default:
		return ""
	}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
