// Package tools implements the data tools the feasibility agent can invoke.
//
// Tools come in two flavors. Stub tools (weather outlook, solar yield, cost
// model, transmission cost, grid connection) compute from fixed constants
// and do no I/O. Remote tools (irradiance, current weather, geocoding, web
// search) call a third-party API and, on any failure (missing key, network
// error, non-200 status, unparseable payload) return a clearly labeled
// estimate instead of an error. Callers never see a hard failure for a
// missing credential or a timeout.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// userAgent identifies helioscope to public APIs that require one.
const userAgent = "helioscope/1.0"

// Tool is a single capability the orchestrator can invoke. Implementations
// must be idempotent, free of side effects beyond their declared network
// read, and return within the registry's dispatch timeout.
type Tool interface {
	// Name is the identifier the language model selects the tool by.
	Name() string

	// Description tells the model what the tool does and when to use it.
	Description() string

	// Parameters is the JSON schema of the tool's arguments.
	Parameters() map[string]any

	// Call invokes the tool with the model-supplied JSON arguments.
	Call(ctx context.Context, args string) (string, error)
}

// decodeArgs unmarshals the model-supplied argument payload. An empty
// payload leaves v untouched so optional fields keep their defaults.
func decodeArgs(raw string, v any) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}

// schemaObject builds a JSON schema object with the given properties.
func schemaObject(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// numberParam describes a numeric schema property.
func numberParam(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

// stringParam describes a string schema property.
func stringParam(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}
