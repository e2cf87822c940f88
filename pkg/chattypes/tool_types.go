package chattypes

import "encoding/json"

// ToolCall is a structured request produced by the generation service asking
// for one capability execution. ID correlates the eventual result with the
// originating call and must be echoed back unmodified.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition describes a callable capability advertised to the generation
// service. Parameters holds a JSON Schema object in map form; each generator
// client converts it to its SDK's schema type. Definitions are built once at
// startup and are read-only thereafter.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
	Required    []string
}
