// ABOUTME: Thread-safe registry for tool packs and their tools.
// ABOUTME: Manages pack registration, tool lookup and listing.

package packs

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// ErrPackAlreadyRegistered indicates a pack with the same ID is already registered.
var ErrPackAlreadyRegistered = errors.New("pack already registered")

// ErrToolCollision indicates a tool name already exists from another pack.
var ErrToolCollision = errors.New("tool name collision")

// Registry maintains the registered packs and their tools.
type Registry struct {
	mu     sync.RWMutex
	packs  map[string]*BuiltinPack
	tools  map[string]*builtinEntry // tool name -> entry
	logger *slog.Logger
}

// NewRegistry creates a new Registry instance.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		packs:  make(map[string]*BuiltinPack),
		tools:  make(map[string]*builtinEntry),
		logger: logger,
	}
}

// RegisterBuiltinPack registers a pack of built-in tools.
// Returns ErrPackAlreadyRegistered if a pack with the same ID exists.
// Returns ErrToolCollision if any tool name is already taken.
func (r *Registry) RegisterBuiltinPack(pack *BuiltinPack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.packs[pack.ID]; exists {
		return fmt.Errorf("%w: %s", ErrPackAlreadyRegistered, pack.ID)
	}

	// Check for collisions before registering anything
	seen := make(map[string]struct{}, len(pack.Tools))
	for _, tool := range pack.Tools {
		name := tool.Definition.Name
		if existing, exists := r.tools[name]; exists {
			return fmt.Errorf("%w: tool '%s' already registered by pack '%s'", ErrToolCollision, name, existing.PackID)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: tool '%s' appears twice in pack '%s'", ErrToolCollision, name, pack.ID)
		}
		seen[name] = struct{}{}
	}

	for _, tool := range pack.Tools {
		r.tools[tool.Definition.Name] = &builtinEntry{
			Tool:   tool,
			PackID: pack.ID,
		}
	}
	r.packs[pack.ID] = pack

	r.logger.Debug("builtin pack registered",
		"pack_id", pack.ID,
		"version", pack.Version,
		"tool_count", len(pack.Tools),
		"total_tools", len(r.tools),
	)

	return nil
}

// GetBuiltinTool returns a builtin tool by name, or nil if not found.
func (r *Registry) GetBuiltinTool(name string) *BuiltinTool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, ok := r.tools[name]; ok {
		return entry.Tool
	}
	return nil
}

// PackInfo contains public information about a registered pack.
type PackInfo struct {
	ID        string
	Version   string
	ToolNames []string
}

// ListPacks returns all registered packs ordered by ID.
func (r *Registry) ListPacks() []PackInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]PackInfo, 0, len(r.packs))
	for _, pack := range r.packs {
		names := make([]string, 0, len(pack.Tools))
		for _, tool := range pack.Tools {
			names = append(names, tool.Definition.Name)
		}
		sort.Strings(names)
		result = append(result, PackInfo{ID: pack.ID, Version: pack.Version, ToolNames: names})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// ListTools returns the definitions of all registered tools ordered by name.
func (r *Registry) ListTools() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]ToolDefinition, 0, len(r.tools))
	for _, entry := range r.tools {
		defs = append(defs, entry.Tool.Definition)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
