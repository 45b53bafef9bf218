package openapi

import "maps"

type Components struct {
	Schemas   map[string]*Schema   `json:"schemas,omitempty"`
	Responses map[string]*Response `json:"responses,omitempty"`
}

// NewComponents registers the Error schema and the error responses the
// handlers return.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": Object(map[string]*Schema{"error": String()}, "error"),
		},
		Responses: map[string]*Response{
			"BadRequest":         errorResponse("Invalid request"),
			"NotFound":           errorResponse("Resource not found"),
			"PayloadTooLarge":    errorResponse("Request body exceeds the configured limit"),
			"TooManyRequests":    errorResponse("Rate limit exceeded"),
			"ServiceUnavailable": errorResponse("Reference data unavailable"),
		},
	}
}

func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

func errorResponse(description string) *Response {
	return ResponseJSON(description, "Error")
}
