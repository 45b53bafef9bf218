package openapi

// Schema is the subset of JSON Schema used by the check API.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Format      string             `json:"format,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Ref         string             `json:"$ref,omitempty"`
	Example     any                `json:"example,omitempty"`
	Enum        []any              `json:"enum,omitempty"`
	MinItems    *int               `json:"minItems,omitempty"`
	MaxItems    *int               `json:"maxItems,omitempty"`
}

func SchemaRef(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

func String() *Schema  { return &Schema{Type: "string"} }
func Integer() *Schema { return &Schema{Type: "integer"} }

// Formatted is a string with a format such as date-time or uuid.
func Formatted(format string) *Schema {
	return &Schema{Type: "string", Format: format}
}

func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: "array", Items: items}
}

// Enum is a string restricted to values.
func Enum(values ...string) *Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return &Schema{Type: "string", Enum: enum}
}

func Object(props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: "object", Properties: props, Required: required}
}

// Page wraps the named item schema in the paginated result envelope.
func Page(item string) *Schema {
	return Object(map[string]*Schema{
		"data":        ArrayOf(SchemaRef(item)),
		"total":       Integer(),
		"page":        Integer(),
		"page_size":   Integer(),
		"total_pages": Integer(),
	})
}
