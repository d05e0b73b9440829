package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolsetRegistry_EmptyEnablesEverything(t *testing.T) {
	registry := NewToolsetRegistry(nil)
	assert.True(t, registry.ToolsetEnabled(ToolsetUsers))
	assert.True(t, registry.ToolsetEnabled(ToolsetMail))
	assert.True(t, registry.ToolsetEnabled(ToolsetAuth))
}

func TestToolsetRegistry_LimitedToolsets(t *testing.T) {
	registry := NewToolsetRegistry([]string{ToolsetMail})
	assert.True(t, registry.ToolsetEnabled(ToolsetMail))
	assert.False(t, registry.ToolsetEnabled(ToolsetUsers))
	assert.False(t, registry.ToolsetEnabled(ToolsetAuth))
}

func TestToolsetRegistry_TrimsConfiguredNames(t *testing.T) {
	// GRAPH_TOOLSETS="users, mail" splits into names with spaces.
	registry := NewToolsetRegistry([]string{"users", " mail ", ""})
	assert.True(t, registry.ToolsetEnabled(ToolsetUsers))
	assert.True(t, registry.ToolsetEnabled(ToolsetMail))
	assert.False(t, registry.ToolsetEnabled(ToolsetAuth))
}

func TestToolsetRegistry_RegisterAndList(t *testing.T) {
	registry := NewToolsetRegistry(nil)
	registry.RegisterTool(Tool{Name: "greet_user", Toolset: ToolsetUsers})
	registry.RegisterTool(Tool{Name: "list_email_messages", Toolset: ToolsetMail})

	// Re-registering the same name replaces, not duplicates.
	registry.RegisterTool(Tool{Name: "greet_user", Description: "updated", Toolset: ToolsetUsers})

	tools := registry.ListTools()
	assert.Len(t, tools, 2)
}
