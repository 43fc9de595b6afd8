// Package schema validates quality-tools configuration documents.
//
// The schema package carries the fixed structural schema for the unified
// configuration document: section and field names, types, enums, numeric
// ranges, and declared defaults. Validation enforces a known-keys-only
// policy; defaults application builds the built-in baseline document.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed quality-tools.schema.json
var schemaFS embed.FS

// Type names used by the schema document.
const (
	TypeNameString  = "string"
	TypeNameNumber  = "number"
	TypeNameInteger = "integer"
	TypeNameBoolean = "boolean"
	TypeNameArray   = "array"
	TypeNameObject  = "object"
	TypeNameNull    = "null"
)

// Schema represents one node of the structural schema.
type Schema struct {
	// ID is the schema identifier ($id).
	ID string `json:"$id,omitempty"`

	// SchemaVersion is the JSON Schema dialect ($schema).
	SchemaVersion string `json:"$schema,omitempty"`

	// Title is a descriptive title.
	Title string `json:"title,omitempty"`

	// Description provides documentation.
	Description string `json:"description,omitempty"`

	// Type is the JSON type (string, number, integer, boolean, array, object, null).
	Type SchemaType `json:"type,omitempty"`

	// Properties defines object properties (for type: object).
	Properties map[string]*Schema `json:"properties,omitempty"`

	// AdditionalProperties controls whether extra properties are allowed.
	AdditionalProperties *bool `json:"additionalProperties,omitempty"`

	// Required lists required property names.
	Required []string `json:"required,omitempty"`

	// Items defines the schema for array elements.
	Items *Schema `json:"items,omitempty"`

	// Enum lists allowed values.
	Enum []any `json:"enum,omitempty"`

	// Default is the declared default value.
	Default any `json:"default,omitempty"`

	// Minimum for numeric types.
	Minimum *float64 `json:"minimum,omitempty"`

	// Maximum for numeric types.
	Maximum *float64 `json:"maximum,omitempty"`

	// Pattern is a regex pattern for strings.
	Pattern string `json:"pattern,omitempty"`
}

// SchemaType represents JSON Schema type(s).
// Can be a single type or an array of types.
type SchemaType struct {
	Types []string
}

// UnmarshalJSON handles both single type and array of types.
func (t *SchemaType) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		t.Types = []string{single}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("type must be string or array of strings: %w", err)
	}
	t.Types = arr
	return nil
}

// MarshalJSON outputs single type as string, multiple as array.
func (t SchemaType) MarshalJSON() ([]byte, error) {
	if len(t.Types) == 1 {
		return json.Marshal(t.Types[0])
	}
	return json.Marshal(t.Types)
}

// Is checks if the schema type includes the given type.
func (t SchemaType) Is(typ string) bool {
	for _, st := range t.Types {
		if st == typ {
			return true
		}
	}
	return false
}

// IsEmpty returns true if no types are defined.
func (t SchemaType) IsEmpty() bool {
	return len(t.Types) == 0
}

// String returns the type as a string.
func (t SchemaType) String() string {
	if len(t.Types) == 1 {
		return t.Types[0]
	}
	return fmt.Sprintf("%v", t.Types)
}

// schemaCache caches the loaded schema for the process.
var (
	schemaCache     *Schema
	schemaCacheOnce sync.Once
	schemaCacheErr  error
)

// LoadEmbedded loads the embedded quality-tools configuration schema.
// The schema is parsed once and cached.
func LoadEmbedded() (*Schema, error) {
	schemaCacheOnce.Do(func() {
		data, err := schemaFS.ReadFile("quality-tools.schema.json")
		if err != nil {
			schemaCacheErr = fmt.Errorf("reading embedded schema: %w", err)
			return
		}

		schemaCache = &Schema{}
		if err := json.Unmarshal(data, schemaCache); err != nil {
			schemaCacheErr = fmt.Errorf("parsing embedded schema: %w", err)
			schemaCache = nil
			return
		}
	})

	return schemaCache, schemaCacheErr
}

// Parse parses a schema document from bytes.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	return s, nil
}

// GetProperty returns the schema for a nested property path.
// Path is dot-separated (e.g., "quality-tools.output.format").
func (s *Schema) GetProperty(path string) *Schema {
	if s == nil || path == "" {
		return s
	}

	current := s
	for _, part := range strings.Split(path, ".") {
		if part == "" || current.Properties == nil {
			return nil
		}
		prop, ok := current.Properties[part]
		if !ok {
			return nil
		}
		current = prop
	}

	return current
}

// IsRequired checks if a property is required.
func (s *Schema) IsRequired(name string) bool {
	for _, req := range s.Required {
		if req == name {
			return true
		}
	}
	return false
}

// AllowsAdditionalProperties returns whether additional properties are allowed.
func (s *Schema) AllowsAdditionalProperties() bool {
	if s.AdditionalProperties == nil {
		return true
	}
	return *s.AdditionalProperties
}
