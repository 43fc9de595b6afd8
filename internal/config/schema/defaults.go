package schema

// ApplyDefaults returns a copy of doc with every schema-declared default
// filled into fields that are absent. Existing values are never replaced.
// This is the coercing mode used to build the built-in defaults document;
// strict validation never applies defaults.
func (s *Schema) ApplyDefaults(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for name, value := range doc {
		out[name] = cloneValue(value)
	}
	applyDefaults(s, out)
	return out
}

func applyDefaults(schema *Schema, doc map[string]any) {
	if schema == nil {
		return
	}

	for name, prop := range schema.Properties {
		existing, exists := doc[name]

		// Sections with declared children are created when absent so their
		// nested defaults have somewhere to land.
		if prop.Type.Is(TypeNameObject) && len(prop.Properties) > 0 {
			child, ok := existing.(map[string]any)
			if !ok {
				if exists {
					// Wrong shape; validation reports it.
					continue
				}
				child = make(map[string]any)
				doc[name] = child
			}
			applyDefaults(prop, child)
			continue
		}

		if !exists && prop.Default != nil {
			doc[name] = cloneValue(prop.Default)
		}
	}
}

// cloneValue deep-copies a document value.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for name, item := range val {
			out[name] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
