// Package tools declares the callable capabilities advertised to the
// generation service and dispatches requested calls to their executors.
// Each tool is a value implementing a uniform describe-and-execute
// capability; adding a tool means adding a registration, not editing a
// dispatch branch.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"shopchat/pkg/chattypes"
)

// ErrUnknownTool is returned by Dispatch when the requested name matches no
// registered tool.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is a single callable capability. Implementations must be safe for
// concurrent use; the orchestration loop may execute them from multiple
// in-flight requests.
type Tool interface {
	// Name returns the unique tool name advertised to the generation service.
	Name() string
	// Definition returns the provider-neutral descriptor for this tool.
	Definition() chattypes.ToolDefinition
	// Execute runs the tool against the raw JSON argument object and returns
	// a JSON-encoded result payload.
	Execute(ctx context.Context, args json.RawMessage) (string, error)
}

// Registry holds the tool lookup table. It is built once at startup and
// read-only thereafter.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds a registry over the given tools. Registration order is
// preserved in Definitions.
func NewRegistry(toolList ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(toolList))}
	for _, tool := range toolList {
		r.tools[tool.Name()] = tool
		r.order = append(r.order, tool.Name())
	}
	return r
}

// Definitions returns the descriptors of every registered tool, in
// registration order. The result is rebuilt per call so callers cannot
// mutate registry state.
func (r *Registry) Definitions() []chattypes.ToolDefinition {
	defs := make([]chattypes.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Dispatch executes the named tool with the given argument object. It fails
// with ErrUnknownTool when the name matches no registered tool; executor
// failures are returned as-is for the caller to convert into a textual error
// payload.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return tool.Execute(ctx, args)
}
