package web

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// runIngestSchema gates run reports arriving from the execution engine. The
// engine predates the console and its payloads are only loosely typed, so the
// schema tolerates boolean-ish strings and numeric booleans for is_sandbox;
// FlexBool folds them during decoding.
var runIngestSchema = map[string]any{
	"type":     "object",
	"required": []any{"status", "data"},
	"properties": map[string]any{
		"status": map[string]any{
			"type": "string",
			"enum": []any{"Completed", "Failed", "In Progress"},
		},
		"target_companies_category": map[string]any{"type": "string"},
		"started_at":                map[string]any{"type": "string"},
		"completed_at":              map[string]any{"type": []any{"string", "null"}},
		"data": map[string]any{
			"type":     "object",
			"required": []any{"total_companies", "processed_companies"},
			"properties": map[string]any{
				"total_companies":     map[string]any{"type": "integer", "minimum": 0},
				"processed_companies": map[string]any{"type": "integer", "minimum": 0},
				"successful_companies": map[string]any{
					"type":  "array",
					"items": companyRefSchema,
				},
				"unsuccessful_companies": map[string]any{
					"type":  "array",
					"items": companyRefSchema,
				},
				"is_sandbox": map[string]any{
					"type": []any{"boolean", "string", "integer", "null"},
				},
			},
		},
	},
}

var companyRefSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "name"},
	"properties": map[string]any{
		"id":   map[string]any{"type": "integer"},
		"name": map[string]any{"type": "string"},
	},
}

// validateRunPayload checks a raw run report against the ingest schema before
// any decoding happens.
func validateRunPayload(body []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(runIngestSchema)
	dataLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return fmt.Errorf("run payload rejected: %s", strings.Join(details, "; "))
	}

	return nil
}
