package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"shopchat/internal/logger"
	"shopchat/pkg/chattypes"
)

// OpenAIGenerator implements the Generator interface for OpenAI's chat
// completions API. The underlying client is created lazily on the first
// request.
type OpenAIGenerator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAIGenerator creates a new OpenAI generator with lazy initialization.
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		apiKey: apiKey,
		model:  model,
		client: nil, // Will be initialized lazily
	}
}

// ProviderName returns the provider name for this generator.
func (g *OpenAIGenerator) ProviderName() string {
	return "openai"
}

// initializeClientIfNeeded initializes the OpenAI client if it hasn't been
// initialized yet.
func (g *OpenAIGenerator) initializeClientIfNeeded() error {
	if g.client != nil {
		return nil
	}

	if g.apiKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}

	client := openai.NewClient(option.WithAPIKey(g.apiKey))
	g.client = &client

	logger.Debug("OpenAI client initialized", "provider", "openai")
	return nil
}

// Complete performs one generation round against the chat completions API,
// with tool choice left at the API default (automatic).
func (g *OpenAIGenerator) Complete(ctx context.Context, turns []chattypes.Turn, tools []chattypes.ToolDefinition) (*chattypes.Completion, error) {
	if err := g.initializeClientIfNeeded(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(g.model),
		Messages: convertTurnsToOpenAI(turns),
		Tools:    convertToolsToOpenAI(tools),
	}

	logger.Debug("Sending OpenAI request", "model", g.model, "message_count", len(params.Messages))
	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned")
	}

	message := completion.Choices[0].Message
	result := &chattypes.Completion{Text: message.Content}
	for _, call := range message.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, chattypes.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: json.RawMessage(call.Function.Arguments),
		})
	}

	logger.Debug("OpenAI response received", "content_length", len(result.Text), "tool_calls", len(result.ToolCalls))
	return result, nil
}

// convertTurnsToOpenAI converts neutral turns to the OpenAI message format.
// Assistant turns carrying tool calls are re-emitted with those calls intact
// so the service sees its own structured response unmodified.
func convertTurnsToOpenAI(turns []chattypes.Turn) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))

	for _, turn := range turns {
		switch turn.Role {
		case chattypes.RoleSystem:
			messages = append(messages, openai.SystemMessage(turn.Content))
		case chattypes.RoleUser:
			messages = append(messages, openai.UserMessage(turn.Content))
		case chattypes.RoleAssistant:
			if len(turn.ToolCalls) == 0 {
				messages = append(messages, openai.AssistantMessage(turn.Content))
				continue
			}
			assistant := openai.ChatCompletionAssistantMessageParam{}
			if turn.Content != "" {
				assistant.Content.OfString = openai.String(turn.Content)
			}
			for _, call := range turn.ToolCalls {
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
					ID: call.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      call.Name,
						Arguments: string(call.Arguments),
					},
				})
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		case chattypes.RoleTool:
			messages = append(messages, openai.ToolMessage(turn.Content, turn.ToolCallID))
		default:
			// Skip unknown roles
			continue
		}
	}

	return messages
}

// convertToolsToOpenAI converts neutral tool definitions to the OpenAI
// function-tool format.
func convertToolsToOpenAI(tools []chattypes.ToolDefinition) []openai.ChatCompletionToolParam {
	params := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, tool := range tools {
		params = append(params, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters: openai.FunctionParameters{
					"type":       "object",
					"properties": tool.Parameters,
					"required":   tool.Required,
				},
			},
		})
	}
	return params
}
