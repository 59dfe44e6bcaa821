package lessons

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// lessonSchema is the wire contract for a single lesson document. A
// lesson carries either structured "parts" or a flat "questions" list;
// some backends wrap either under a "content" object.
var lessonSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{"type": "string", "minLength": 1},
		"slug": map[string]any{
			"type":    "string",
			"pattern": "^[a-z0-9]+(-[a-z0-9]+)*$",
		},
		"parts":     map[string]any{"$ref": "#/$defs/parts"},
		"questions": map[string]any{"$ref": "#/$defs/questions"},
		"content": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"parts":     map[string]any{"$ref": "#/$defs/parts"},
				"questions": map[string]any{"$ref": "#/$defs/questions"},
			},
		},
	},
	"required": []any{"title", "slug"},
	"anyOf": []any{
		map[string]any{"required": []any{"parts"}},
		map[string]any{"required": []any{"questions"}},
		map[string]any{"required": []any{"content"}},
	},
	"$defs": map[string]any{
		"parts": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":     map[string]any{"type": "string"},
					"questions": map[string]any{"$ref": "#/$defs/questions"},
				},
				"required": []any{"questions"},
			},
		},
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type": map[string]any{
						"enum": []any{TypeMultipleChoice, TypeFillInBlank},
					},
					"questionText": map[string]any{"type": "string", "minLength": 1},
					"answers": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"text":    map[string]any{"type": "string", "minLength": 1},
								"correct": map[string]any{"type": "boolean"},
							},
							"required": []any{"text", "correct"},
						},
					},
					"explanation": map[string]any{"type": "string"},
				},
				"required": []any{"type", "questionText", "answers"},
			},
		},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		defBytes, err := json.Marshal(lessonSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal lesson schema: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse lesson schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://lesson.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// validateDocument checks raw lesson JSON against the wire contract.
func validateDocument(raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	sch, err := compiled()
	if err != nil {
		return err
	}
	if err := sch.Validate(parsed); err != nil {
		return fmt.Errorf("lesson document rejected: %w", err)
	}
	return nil
}
