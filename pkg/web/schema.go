package web

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// snapshotSchema is the structural contract for snapshot payloads,
// checked before decoding so malformed documents fail with a precise
// message instead of a partial unmarshal.
var snapshotSchema = map[string]any{
	"type":     "object",
	"required": []any{"pipelineRun", "revision"},
	"properties": map[string]any{
		"pipelineRun": map[string]any{
			"type":     "object",
			"required": []any{"name"},
			"properties": map[string]any{
				"name":      map[string]any{"type": "string", "minLength": 1},
				"namespace": map[string]any{"type": "string"},
				"status":    map[string]any{"type": "object"},
			},
		},
		"taskRuns": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"name"},
			},
		},
		"revision": map[string]any{"type": "string", "minLength": 1},
	},
}

// validateSnapshotPayload validates a raw snapshot document against the
// snapshot schema.
func validateSnapshotPayload(payload []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(snapshotSchema)
	dataLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}

		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}
