package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopchat/pkg/chattypes"
)

func TestConvertTurnsToOpenAI_MapsEveryRole(t *testing.T) {
	turns := []chattypes.Turn{
		chattypes.SystemTurn("system prompt"),
		chattypes.UserTurn("question"),
		chattypes.AssistantTurn("answer", nil),
		chattypes.AssistantTurn("", []chattypes.ToolCall{
			{ID: "call_1", Name: "searchProducts", Arguments: json.RawMessage(`{"query":"jbl"}`)},
		}),
		chattypes.ToolTurn(`{"success":true}`, "call_1"),
	}

	messages := convertTurnsToOpenAI(turns)
	require.Len(t, messages, 5)

	// The assistant turn with tool calls keeps the calls intact.
	assistant := messages[3].OfAssistant
	require.NotNil(t, assistant)
	require.Len(t, assistant.ToolCalls, 1)
	assert.Equal(t, "call_1", assistant.ToolCalls[0].ID)
	assert.Equal(t, "searchProducts", assistant.ToolCalls[0].Function.Name)
	assert.Equal(t, `{"query":"jbl"}`, assistant.ToolCalls[0].Function.Arguments)
}

func TestConvertTurnsToOpenAI_SkipsUnknownRoles(t *testing.T) {
	turns := []chattypes.Turn{
		{Role: "narrator", Content: "meanwhile"},
		chattypes.UserTurn("hello"),
	}

	messages := convertTurnsToOpenAI(turns)
	assert.Len(t, messages, 1)
}

func TestConvertToolsToOpenAI_BuildsFunctionSchemas(t *testing.T) {
	defs := []chattypes.ToolDefinition{
		{
			Name:        "convertCurrencies",
			Description: "convert money",
			Parameters:  map[string]any{"amount": map[string]any{"type": "number"}},
			Required:    []string{"amount"},
		},
	}

	params := convertToolsToOpenAI(defs)
	require.Len(t, params, 1)
	assert.Equal(t, "convertCurrencies", params[0].Function.Name)
	assert.Equal(t, "object", params[0].Function.Parameters["type"])
	assert.Equal(t, []string{"amount"}, params[0].Function.Parameters["required"])
}
