package quiz

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// documentSchemaURL names the compiled quiz document schema.
const documentSchemaURL = "schema://quiz-document.json"

// DocumentSchema describes the shape of a quiz document before decoding.
// Element types are deliberately left open here so unknown values surface as
// UnknownElementType during decoding rather than as a schema failure.
var DocumentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":          map[string]any{"type": "string", "minLength": 1},
		"title":       map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"steps": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":    map[string]any{"type": "string", "minLength": 1},
					"title": map[string]any{"type": "string"},
					"elements": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"id":      map[string]any{"type": "string", "minLength": 1},
								"type":    map[string]any{"type": "string"},
								"stepId":  map[string]any{"type": "string"},
								"order":   map[string]any{"type": "integer", "minimum": 0},
								"content": map[string]any{"type": "object"},
							},
							"required": []any{"id", "type"},
						},
					},
				},
				"required": []any{"id"},
			},
		},
	},
	"required": []any{"id", "steps"},
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// documentSchema compiles DocumentSchema once.
func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		// The compiler wants a plain JSON value, so round-trip the Go map.
		defBytes, err := json.Marshal(DocumentSchema)
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(documentSchemaURL, defParsed); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(documentSchemaURL)
	})
	return compiledSchema, schemaErr
}

// validateDocument checks a raw JSON document against DocumentSchema.
func validateDocument(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return NewError(ErrMalformedQuiz, "quiz document is not valid JSON", err, nil)
	}

	compiled, err := documentSchema()
	if err != nil {
		return fmt.Errorf("compile quiz schema: %w", err)
	}

	if err := compiled.Validate(parsed); err != nil {
		meta := map[string]any{}
		if m, ok := parsed.(map[string]any); ok {
			if id, ok := m["id"].(string); ok {
				meta["id"] = id
			}
		}
		return NewError(ErrMalformedQuiz, "quiz document does not match schema", err, meta)
	}
	return nil
}
