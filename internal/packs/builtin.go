// ABOUTME: Built-in tool support for tools that execute in-process.
// ABOUTME: Defines tool definitions, handlers and packs.

package packs

import (
	"context"
	"encoding/json"
)

// ToolHandler is a function that executes a built-in tool.
// It receives the tool input as JSON and returns the result as JSON or an error.
type ToolHandler func(ctx context.Context, input json.RawMessage) (json.RawMessage, error)

// ToolDefinition describes a tool to the host.
type ToolDefinition struct {
	Name            string
	Description     string
	InputSchemaJSON string
	TimeoutSeconds  int
}

// BuiltinTool represents a tool that executes in the host process.
type BuiltinTool struct {
	Definition ToolDefinition
	Handler    ToolHandler
}

// BuiltinPack is a collection of built-in tools with a pack ID.
type BuiltinPack struct {
	ID      string
	Version string
	Tools   []*BuiltinTool
}

// builtinEntry stores a builtin tool with its pack ID for registry lookup.
type builtinEntry struct {
	Tool   *BuiltinTool
	PackID string
}
