// Package chattypes defines the shared conversation, tool, and catalog types
// used across the shopchat service. Types in this package are plain data
// carriers: they hold no behavior beyond construction helpers and are safe to
// share between the orchestration loop, the generator clients, and the tools.
package chattypes

// Role identifies the originator of a conversation turn.
type Role string

// Conversation roles recognized by the generator clients.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Turn represents a single message unit in a conversation. Turns are
// immutable once created; their ordering in a conversation is chronological
// and significant.
//
// An assistant turn may carry ToolCalls when the generation service requested
// capability executions instead of answering. A tool turn carries the result
// of one execution and references the originating call via ToolCallID.
type Turn struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// SystemTurn creates a system-role turn.
func SystemTurn(content string) Turn {
	return Turn{Role: RoleSystem, Content: content}
}

// UserTurn creates a user-role turn.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn creates an assistant-role turn with optional tool calls.
func AssistantTurn(content string, toolCalls []ToolCall) Turn {
	return Turn{Role: RoleAssistant, Content: content, ToolCalls: toolCalls}
}

// ToolTurn creates a tool-role turn carrying the result for the given call ID.
func ToolTurn(content string, toolCallID string) Turn {
	return Turn{Role: RoleTool, Content: content, ToolCallID: toolCallID}
}

// Completion is the provider-neutral response of one generation round.
// When ToolCalls is empty, Text is the final answer and the round terminates
// the exchange.
type Completion struct {
	Text      string
	ToolCalls []ToolCall
}
