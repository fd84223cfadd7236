package widgetconfig

import (
	"slices"

	"github.com/goliatone/go-sitewidgets/internal/util"
)

// Kind describes how a field is interpreted by the renderers.
type Kind string

const (
	KindString     Kind = "string"
	KindNumber     Kind = "number"
	KindInteger    Kind = "integer"
	KindBoolean    Kind = "boolean"
	KindObject     Kind = "object"
	KindList       Kind = "list"
	KindCollection Kind = "collection"
)

// Field declares one recognized configuration field and its built-in default.
type Field struct {
	Name        string
	Kind        Kind
	Default     any
	Description string

	// Image marks a string field holding a stored asset URL.
	Image bool

	// ItemImages lists the item keys of a collection field that hold asset URLs.
	ItemImages []string
}

// ImageTarget reports whether field, or key of its items when key is set, holds an
// asset URL.
func (s Schema) ImageTarget(field, key string) bool {
	declared, ok := s.Field(field)
	if !ok {
		return false
	}
	if key == "" {
		return declared.Image
	}
	return slices.Contains(declared.ItemImages, key)
}

// Schema lists the recognized fields of a widget type.
type Schema struct {
	Fields []Field
}

// NewSchema builds a schema from fields.
func NewSchema(fields ...Field) Schema {
	return Schema{Fields: slices.Clone(fields)}
}

// Field returns the declaration for name.
func (s Schema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Default returns a deep copy of the built-in default for name.
func (s Schema) Default(name string) any {
	field, ok := s.Field(name)
	if !ok {
		return nil
	}
	return defaultFor(field)
}

// Defaults returns every built-in default keyed by field name.
func (s Schema) Defaults() map[string]any {
	out := make(map[string]any, len(s.Fields))
	for _, field := range s.Fields {
		out[field.Name] = defaultFor(field)
	}
	return out
}

// Document renders the schema as a JSON schema object used for the widget catalog.
func (s Schema) Document() map[string]any {
	props := make(map[string]any, len(s.Fields))
	for _, field := range s.Fields {
		prop := map[string]any{}
		switch field.Kind {
		case KindString, KindNumber, KindInteger, KindBoolean, KindObject:
			prop["type"] = string(field.Kind)
		case KindList:
			prop["type"] = "array"
		case KindCollection:
			prop["type"] = "array"
			prop["items"] = map[string]any{"type": "object"}
		}
		if field.Image {
			prop["format"] = "uri-reference"
		}
		if field.Description != "" {
			prop["description"] = field.Description
		}
		props[field.Name] = prop
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": true,
	}
}

func defaultFor(field Field) any {
	if field.Default != nil {
		return util.CloneValue(field.Default)
	}
	switch field.Kind {
	case KindString:
		return ""
	case KindNumber:
		return float64(0)
	case KindInteger:
		return 0
	case KindBoolean:
		return false
	case KindObject:
		return map[string]any{}
	case KindList, KindCollection:
		return []any{}
	default:
		return nil
	}
}
