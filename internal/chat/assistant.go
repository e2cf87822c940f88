package chat

import (
	"context"
	"time"

	"shopchat/internal/logger"
	"shopchat/internal/tools"
	"shopchat/pkg/chattypes"
)

// maxToolIterations bounds the tool-calling loop. It prevents unbounded cost
// and latency from a generation service that keeps requesting tools.
const maxToolIterations = 5

// systemPrompt defines the assistant's behavior.
const systemPrompt = `You are a helpful shopping assistant for an e-commerce store.
You can help customers:
- Search for products in our catalog
- Answer questions about product prices
- Convert prices between different currencies

Always be friendly and helpful. When showing products, include the product name, price, and a brief description.
When converting currencies, clearly show both the original and converted amounts.

If you don't find relevant products or can't help with something, politely let the customer know.`

// Fixed user-facing replies for degraded outcomes.
const (
	// apologyReply is returned when any internal failure reaches the
	// ProcessMessage boundary.
	apologyReply = "I apologize, but I encountered an issue processing your request. Please try again later."
	// exhaustedReply is returned when the iteration bound is hit without a
	// final answer.
	exhaustedReply = "I apologize, but I encountered an issue processing your request. Please try again."
	// emptyReply substitutes for a final answer with no content.
	emptyReply = "I apologize, but I could not generate a response."
)

// Default timeouts for the generation calls. RequestTimeout bounds one
// round; ExchangeDeadline bounds a whole user exchange across rounds.
const (
	DefaultRequestTimeout   = 30 * time.Second
	DefaultExchangeDeadline = 2 * time.Minute
)

// AssistantOptions tunes the orchestration loop.
type AssistantOptions struct {
	// RequestTimeout bounds a single generation round. Zero means
	// DefaultRequestTimeout.
	RequestTimeout time.Duration
	// ExchangeDeadline bounds one whole user exchange. Zero means
	// DefaultExchangeDeadline.
	ExchangeDeadline time.Duration
}

// Assistant runs the tool-calling orchestration loop: it assembles the
// working message list from memory, repeatedly invokes the generation
// service, executes requested tool calls, and commits the completed exchange
// back into session memory.
type Assistant struct {
	generator        Generator
	registry         *tools.Registry
	sessions         *SessionStore
	requestTimeout   time.Duration
	exchangeDeadline time.Duration
}

// NewAssistant creates an assistant over a generator, a tool registry, and a
// session store.
func NewAssistant(generator Generator, registry *tools.Registry, sessions *SessionStore, opts AssistantOptions) *Assistant {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.ExchangeDeadline <= 0 {
		opts.ExchangeDeadline = DefaultExchangeDeadline
	}
	return &Assistant{
		generator:        generator,
		registry:         registry,
		sessions:         sessions,
		requestTimeout:   opts.RequestTimeout,
		exchangeDeadline: opts.ExchangeDeadline,
	}
}

// ProcessMessage handles one user message for a session and returns the
// assistant's reply. It never fails past this boundary: every internal
// failure is logged and degrades to a fixed apology string.
func (a *Assistant) ProcessMessage(ctx context.Context, sessionID, userMessage string) string {
	reply, err := a.run(ctx, sessionID, userMessage)
	if err != nil {
		logger.Error("Failed to process message", "session", sessionID, "provider", a.generator.ProviderName(), "error", err)
		return apologyReply
	}
	return reply
}

// run executes the tool-calling loop for one user message.
func (a *Assistant) run(ctx context.Context, sessionID, userMessage string) (string, error) {
	memory := a.sessions.Get(sessionID)

	// System prompt, then recorded history oldest to newest, then the new
	// user message.
	turns := make([]chattypes.Turn, 0, memory.Len()+2)
	turns = append(turns, chattypes.SystemTurn(systemPrompt))
	turns = append(turns, memory.Snapshot()...)
	turns = append(turns, chattypes.UserTurn(userMessage))

	ctx, cancel := context.WithTimeout(ctx, a.exchangeDeadline)
	defer cancel()

	definitions := a.registry.Definitions()

	for iteration := 1; iteration <= maxToolIterations; iteration++ {
		logger.Debug("Tool-calling iteration", "session", sessionID, "iteration", iteration)

		completion, err := a.complete(ctx, turns, definitions)
		if err != nil {
			return "", err
		}

		// No tool calls means the text is the final answer.
		if len(completion.ToolCalls) == 0 {
			reply := completion.Text
			if reply == "" {
				reply = emptyReply
			}
			memory.Append(userMessage, reply)
			return reply, nil
		}

		turns = append(turns, chattypes.AssistantTurn(completion.Text, completion.ToolCalls))
		turns = append(turns, a.executeToolCalls(ctx, completion.ToolCalls)...)
	}

	// Bounded retry with a degraded response: the attempt is still recorded
	// so the next exchange sees it.
	logger.Warn("Max tool iterations reached", "session", sessionID)
	memory.Append(userMessage, exhaustedReply)
	return exhaustedReply, nil
}

// complete performs one generation round under the per-round timeout.
func (a *Assistant) complete(ctx context.Context, turns []chattypes.Turn, definitions []chattypes.ToolDefinition) (*chattypes.Completion, error) {
	roundCtx, cancel := context.WithTimeout(ctx, a.requestTimeout)
	defer cancel()
	return a.generator.Complete(roundCtx, turns, definitions)
}

// executeToolCalls dispatches every requested call and returns the tool
// turns in request order. A failing call yields an error-text result rather
// than aborting the round, so the loop keeps running on partial failure.
func (a *Assistant) executeToolCalls(ctx context.Context, calls []chattypes.ToolCall) []chattypes.Turn {
	results := make([]chattypes.Turn, 0, len(calls))
	for _, call := range calls {
		result, err := a.registry.Dispatch(ctx, call.Name, call.Arguments)
		if err != nil {
			logger.Error("Tool execution failed", "tool", call.Name, "error", err)
			result = "Error: " + err.Error()
		}
		results = append(results, chattypes.ToolTurn(result, call.ID))
	}
	return results
}
