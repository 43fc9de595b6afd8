package schema

import (
	"fmt"
	"regexp"
	"sync"
)

// Validator validates configuration documents against a schema.
type Validator struct {
	schema *Schema

	// strictMode rejects unknown properties under sections that declare
	// additionalProperties: false.
	strictMode bool

	// maxErrors caps how many errors are collected (0 = unlimited).
	maxErrors int

	// patternCache holds compiled regexes, map[string]*regexp.Regexp.
	patternCache sync.Map
}

// NewValidator creates a validator for the given schema.
func NewValidator(schema *Schema) *Validator {
	return &Validator{
		schema:    schema,
		maxErrors: 100,
	}
}

// WithStrictMode enables strict mode (unknown properties are errors).
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// WithMaxErrors sets the maximum number of errors to collect.
func (v *Validator) WithMaxErrors(max int) *Validator {
	v.maxErrors = max
	return v
}

// Validate validates a configuration document against the schema.
// The returned error is nil or a *ValidationErrors collection.
func (v *Validator) Validate(doc map[string]any) error {
	if v.schema == nil {
		return nil
	}

	errs := &ValidationErrors{}
	v.validateValue("", doc, v.schema, errs)
	return errs.AsError()
}

// validateValue validates a value against a schema node.
func (v *Validator) validateValue(path string, value any, schema *Schema, errs *ValidationErrors) {
	if schema == nil || (v.maxErrors > 0 && errs.Len() >= v.maxErrors) {
		return
	}

	if len(schema.Enum) > 0 {
		v.validateEnum(path, value, schema.Enum, errs)
	}

	if !schema.Type.IsEmpty() {
		v.validateType(path, value, schema, errs)
	}
}

// validateType validates the value against the expected type(s).
func (v *Validator) validateType(path string, value any, schema *Schema, errs *ValidationErrors) {
	if value == nil {
		if !schema.Type.Is(TypeNameNull) {
			errs.AddError(NewTypeError(path, schema.Type.String(), value))
		}
		return
	}

	matched := false
	for _, typ := range schema.Type.Types {
		if matchesType(value, typ) {
			matched = true
			switch typ {
			case TypeNameString:
				v.validateString(path, value.(string), schema, errs)
			case TypeNameNumber, TypeNameInteger:
				v.validateNumber(path, value, schema, errs)
			case TypeNameArray:
				v.validateArray(path, value, schema, errs)
			case TypeNameObject:
				v.validateObject(path, value, schema, errs)
			}
			break
		}
	}

	if !matched {
		errs.AddError(NewTypeError(path, schema.Type.String(), value))
	}
}

// matchesType checks if a value matches a JSON Schema type.
func matchesType(value any, typ string) bool {
	switch typ {
	case TypeNameString:
		_, ok := value.(string)
		return ok
	case TypeNameNumber:
		return isNumber(value)
	case TypeNameInteger:
		return isInteger(value)
	case TypeNameBoolean:
		_, ok := value.(bool)
		return ok
	case TypeNameArray:
		return isArray(value)
	case TypeNameObject:
		_, ok := value.(map[string]any)
		return ok
	case TypeNameNull:
		return value == nil
	default:
		return false
	}
}

// validateString validates string-specific constraints.
func (v *Validator) validateString(path string, value string, schema *Schema, errs *ValidationErrors) {
	if schema.Pattern != "" && !v.matchPattern(value, schema.Pattern) {
		errs.AddError(NewPatternError(path, value, schema.Pattern))
	}
}

// validateNumber validates numeric range constraints.
func (v *Validator) validateNumber(path string, value any, schema *Schema, errs *ValidationErrors) {
	f := toFloat64(value)

	if schema.Minimum != nil && f < *schema.Minimum {
		errs.AddError(NewRangeError(path, value, schema.Minimum, schema.Maximum))
		return
	}
	if schema.Maximum != nil && f > *schema.Maximum {
		errs.AddError(NewRangeError(path, value, schema.Minimum, schema.Maximum))
	}
}

// validateArray validates array element schemas.
func (v *Validator) validateArray(path string, value any, schema *Schema, errs *ValidationErrors) {
	arr := toSlice(value)
	if arr == nil || schema.Items == nil {
		return
	}

	for i, item := range arr {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		v.validateValue(itemPath, item, schema.Items, errs)
	}
}

// validateObject validates required properties, known keys, and recurses.
func (v *Validator) validateObject(path string, value any, schema *Schema, errs *ValidationErrors) {
	obj, ok := value.(map[string]any)
	if !ok {
		return
	}

	for _, req := range schema.Required {
		if _, exists := obj[req]; !exists {
			errs.AddError(NewRequiredError(joinPath(path, req)))
		}
	}

	for name, propValue := range obj {
		propPath := joinPath(path, name)

		if propSchema, ok := schema.Properties[name]; ok {
			v.validateValue(propPath, propValue, propSchema, errs)
		} else if v.strictMode && !schema.AllowsAdditionalProperties() {
			errs.AddError(NewUnknownPropertyError(propPath))
		}
	}
}

// validateEnum checks if value is in the allowed enum values.
func (v *Validator) validateEnum(path string, value any, allowed []any, errs *ValidationErrors) {
	for _, a := range allowed {
		if valuesEqual(value, a) {
			return
		}
	}
	errs.AddError(NewEnumError(path, value, allowed))
}

// matchPattern checks if a string matches a regex pattern.
func (v *Validator) matchPattern(value, pattern string) bool {
	if cached, ok := v.patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(value)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}

	v.patternCache.Store(pattern, re)
	return re.MatchString(value)
}

// Helper functions

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}

func isInteger(v any) bool {
	switch val := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return float32(int32(val)) == val
	case float64:
		return float64(int64(val)) == val
	default:
		return false
	}
}

func isArray(v any) bool {
	switch v.(type) {
	case []any, []string, []int, []int64, []float64, []bool:
		return true
	default:
		return false
	}
}

func toFloat64(v any) float64 {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case float64:
		return val
	default:
		return 0
	}
}

func toInt64(v any) int64 {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return int64(val)
	case float64:
		return int64(val)
	default:
		return 0
	}
}

func toSlice(v any) []any {
	switch val := v.(type) {
	case []any:
		return val
	case []string:
		result := make([]any, len(val))
		for i, s := range val {
			result[i] = s
		}
		return result
	case []int:
		result := make([]any, len(val))
		for i, n := range val {
			result[i] = n
		}
		return result
	case []int64:
		result := make([]any, len(val))
		for i, n := range val {
			result[i] = n
		}
		return result
	case []float64:
		result := make([]any, len(val))
		for i, n := range val {
			result[i] = n
		}
		return result
	default:
		return nil
	}
}

func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	// Numeric comparison across Go types, preserving integer precision
	// where possible.
	if isNumber(a) && isNumber(b) {
		if isInteger(a) && isInteger(b) {
			if isLargeUint64(a) || isLargeUint64(b) {
				return toFloat64(a) == toFloat64(b)
			}
			return toInt64(a) == toInt64(b)
		}
		return toFloat64(a) == toFloat64(b)
	}

	return a == b
}

func isLargeUint64(v any) bool {
	if val, ok := v.(uint64); ok {
		return val > 9223372036854775807 // math.MaxInt64
	}
	return false
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
