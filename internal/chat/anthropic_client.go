package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"shopchat/internal/logger"
	"shopchat/pkg/chattypes"
)

// defaultMaxTokens bounds the length of one Anthropic completion.
const defaultMaxTokens = 1024

// AnthropicGenerator implements the Generator interface for Anthropic's
// messages API. The underlying client is created lazily on the first
// request.
type AnthropicGenerator struct {
	apiKey string
	model  string
	client *anthropic.Client
}

// NewAnthropicGenerator creates a new Anthropic generator with lazy
// initialization.
func NewAnthropicGenerator(apiKey, model string) *AnthropicGenerator {
	return &AnthropicGenerator{
		apiKey: apiKey,
		model:  model,
		client: nil, // Will be initialized lazily
	}
}

// ProviderName returns the provider name for this generator.
func (g *AnthropicGenerator) ProviderName() string {
	return "anthropic"
}

// initializeClientIfNeeded initializes the Anthropic client if it hasn't
// been initialized yet.
func (g *AnthropicGenerator) initializeClientIfNeeded() error {
	if g.client != nil {
		return nil
	}

	if g.apiKey == "" {
		return fmt.Errorf("anthropic API key not configured")
	}

	client := anthropic.NewClient(option.WithAPIKey(g.apiKey))
	g.client = &client

	logger.Debug("Anthropic client initialized", "provider", "anthropic")
	return nil
}

// Complete performs one generation round against the messages API. System
// turns become the request-level system prompt; tool results are grouped
// into the user message immediately following their tool-use turn, as the
// API requires.
func (g *AnthropicGenerator) Complete(ctx context.Context, turns []chattypes.Turn, tools []chattypes.ToolDefinition) (*chattypes.Completion, error) {
	if err := g.initializeClientIfNeeded(); err != nil {
		return nil, fmt.Errorf("failed to initialize Anthropic client: %w", err)
	}

	messages, systemPrompt := convertTurnsToAnthropic(turns)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: defaultMaxTokens,
		Messages:  messages,
		Tools:     convertToolsToAnthropic(tools),
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	logger.Debug("Sending Anthropic request", "model", g.model, "message_count", len(messages))
	message, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	result := &chattypes.Completion{}
	for _, block := range message.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			result.Text += variant.Text
		case anthropic.ToolUseBlock:
			arguments, err := json.Marshal(variant.Input)
			if err != nil {
				return nil, fmt.Errorf("failed to encode tool-use input: %w", err)
			}
			result.ToolCalls = append(result.ToolCalls, chattypes.ToolCall{
				ID:        variant.ID,
				Name:      variant.Name,
				Arguments: arguments,
			})
		}
	}

	logger.Debug("Anthropic response received", "content_length", len(result.Text), "tool_calls", len(result.ToolCalls))
	return result, nil
}

// convertTurnsToAnthropic converts neutral turns to the Anthropic message
// format. It returns the messages plus the collected system prompt, since
// the messages API takes system text as a request parameter rather than a
// message. Consecutive tool turns collapse into a single user message of
// tool_result blocks.
func convertTurnsToAnthropic(turns []chattypes.Turn) ([]anthropic.MessageParam, string) {
	messages := make([]anthropic.MessageParam, 0, len(turns))
	systemPrompt := ""

	var pendingResults []anthropic.ContentBlockParamUnion
	flushResults := func() {
		if len(pendingResults) > 0 {
			messages = append(messages, anthropic.NewUserMessage(pendingResults...))
			pendingResults = nil
		}
	}

	for _, turn := range turns {
		if turn.Role != chattypes.RoleTool {
			flushResults()
		}

		switch turn.Role {
		case chattypes.RoleSystem:
			if systemPrompt != "" {
				systemPrompt += "\n\n"
			}
			systemPrompt += turn.Content
		case chattypes.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))
		case chattypes.RoleAssistant:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(turn.ToolCalls)+1)
			if turn.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(turn.Content))
			}
			for _, call := range turn.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, json.RawMessage(call.Arguments), call.Name))
			}
			if len(blocks) > 0 {
				messages = append(messages, anthropic.NewAssistantMessage(blocks...))
			}
		case chattypes.RoleTool:
			pendingResults = append(pendingResults, anthropic.NewToolResultBlock(turn.ToolCallID, turn.Content, false))
		}
	}
	flushResults()

	return messages, systemPrompt
}

// convertToolsToAnthropic converts neutral tool definitions to the Anthropic
// tool format.
func convertToolsToAnthropic(tools []chattypes.ToolDefinition) []anthropic.ToolUnionParam {
	params := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		schema := anthropic.ToolInputSchemaParam{Properties: tool.Parameters}
		if len(tool.Required) > 0 {
			schema.SetExtraFields(map[string]any{"required": tool.Required})
		}
		params = append(params, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic.String(tool.Description),
				InputSchema: schema,
			},
		})
	}
	return params
}
