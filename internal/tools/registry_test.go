package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopchat/pkg/chattypes"
)

type fakeTool struct {
	name   string
	result string
}

func (t *fakeTool) Name() string { return t.name }

func (t *fakeTool) Definition() chattypes.ToolDefinition {
	return chattypes.ToolDefinition{Name: t.name, Description: "fake " + t.name}
}

func (t *fakeTool) Execute(context.Context, json.RawMessage) (string, error) {
	return t.result, nil
}

func TestRegistry_DispatchDelegatesToTool(t *testing.T) {
	registry := NewRegistry(&fakeTool{name: "alpha", result: "alpha-result"})

	result, err := registry.Dispatch(context.Background(), "alpha", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "alpha-result", result)
}

func TestRegistry_DispatchUnknownToolFails(t *testing.T) {
	registry := NewRegistry(&fakeTool{name: "alpha"})

	_, err := registry.Dispatch(context.Background(), "missing", json.RawMessage(`{}`))
	require.ErrorIs(t, err, ErrUnknownTool)
	assert.Contains(t, err.Error(), "missing")
}

func TestRegistry_DefinitionsKeepRegistrationOrder(t *testing.T) {
	registry := NewRegistry(
		&fakeTool{name: "first"},
		&fakeTool{name: "second"},
		&fakeTool{name: "third"},
	)

	defs := registry.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "first", defs[0].Name)
	assert.Equal(t, "second", defs[1].Name)
	assert.Equal(t, "third", defs[2].Name)
}
