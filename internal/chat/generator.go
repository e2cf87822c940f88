// Package chat implements the conversational core of shopchat: session
// memory, the generation-service clients, and the tool-calling orchestration
// loop that turns a user message into a final assistant reply.
package chat

import (
	"context"

	"shopchat/pkg/chattypes"
)

// Generator is a client for an external text-generation service capable of
// structured tool calling. One generation round takes the full ordered turn
// list and the advertised tool definitions, and yields either a final text
// answer or a list of requested tool calls.
type Generator interface {
	// ProviderName identifies the backing provider, for logging.
	ProviderName() string
	// Complete performs one generation round. Implementations must honor
	// context cancellation and deadlines.
	Complete(ctx context.Context, turns []chattypes.Turn, tools []chattypes.ToolDefinition) (*chattypes.Completion, error)
}
