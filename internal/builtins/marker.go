// ABOUTME: Marker pack exposes the marking plugin to the host as JSON tools.
// ABOUTME: Maps tool inputs onto marker.Plugin operations.

package builtins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2389/simplemarker/internal/marker"
	"github.com/2389/simplemarker/internal/packs"
)

// ErrMissingProgramID is returned when a tool input lacks program_id
var ErrMissingProgramID = errors.New("program_id is required")

// MarkerPlugin is the plugin surface the marker pack needs. *marker.Plugin
// implements it.
type MarkerPlugin interface {
	IsMarked(id marker.ProgramID) bool
	Toggle(ctx context.Context, id marker.ProgramID, kind marker.ActionKind) (marker.Outcome, error)
	PruneBefore(ctx context.Context, firstKnown marker.ProgramID) error
	MarkedPrograms() []marker.ProgramID
	ContextMenuActions(id marker.ProgramID) []marker.MenuAction
	Info() marker.Info
	HasPreferences() bool
	Attached() bool
	Session() string
}

// MarkerPack creates the marker pack.
func MarkerPack(p MarkerPlugin) *packs.BuiltinPack {
	m := &markerHandlers{plugin: p}
	return &packs.BuiltinPack{
		ID:      "builtin:marker",
		Version: p.Info().Version,
		Tools: []*packs.BuiltinTool{
			{
				Definition: packs.ToolDefinition{
					Name:            "marker_toggle",
					Description:     "Mark or unmark a program",
					InputSchemaJSON: `{"type":"object","properties":{"program_id":{"type":"integer"},"action":{"type":"string","enum":["mark","unmark"]},"menu_id":{"type":"integer"}},"required":["program_id"]}`,
				},
				Handler: m.Toggle,
			},
			{
				Definition: packs.ToolDefinition{
					Name:            "marker_is_marked",
					Description:     "Report whether a program is marked",
					InputSchemaJSON: `{"type":"object","properties":{"program_id":{"type":"integer"}},"required":["program_id"]}`,
				},
				Handler: m.IsMarked,
			},
			{
				Definition: packs.ToolDefinition{
					Name:            "marker_list",
					Description:     "List marked program ids",
					InputSchemaJSON: `{"type":"object","properties":{}}`,
				},
				Handler: m.List,
			},
			{
				Definition: packs.ToolDefinition{
					Name:            "marker_prune",
					Description:     "Forget markings older than the first known program id (-1 clears all)",
					InputSchemaJSON: `{"type":"object","properties":{"first_known_id":{"type":"integer"}},"required":["first_known_id"]}`,
				},
				Handler: m.Prune,
			},
			{
				Definition: packs.ToolDefinition{
					Name:            "marker_actions",
					Description:     "Context menu actions for a program",
					InputSchemaJSON: `{"type":"object","properties":{"program_id":{"type":"integer"}},"required":["program_id"]}`,
				},
				Handler: m.Actions,
			},
			{
				Definition: packs.ToolDefinition{
					Name:            "marker_info",
					Description:     "Plugin metadata",
					InputSchemaJSON: `{"type":"object","properties":{}}`,
				},
				Handler: m.Info,
			},
		},
	}
}

type markerHandlers struct {
	plugin MarkerPlugin
}

type programInput struct {
	ProgramID *int64 `json:"program_id"`
}

func (in programInput) id() (marker.ProgramID, error) {
	if in.ProgramID == nil {
		return 0, ErrMissingProgramID
	}
	return marker.ProgramID(*in.ProgramID), nil
}

type toggleInput struct {
	programInput
	Action string `json:"action"`
	MenuID int    `json:"menu_id"`
}

func (in toggleInput) kind() (marker.ActionKind, error) {
	if in.Action != "" {
		return marker.ParseActionKind(in.Action)
	}
	switch kind := marker.ActionKind(in.MenuID); kind {
	case marker.ActionMark, marker.ActionUnmark:
		return kind, nil
	default:
		return 0, fmt.Errorf("%w: menu_id %d", marker.ErrUnknownAction, in.MenuID)
	}
}

func (m *markerHandlers) Toggle(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in toggleInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	id, err := in.id()
	if err != nil {
		return nil, err
	}
	kind, err := in.kind()
	if err != nil {
		return nil, err
	}

	outcome, err := m.plugin.Toggle(ctx, id, kind)
	if err != nil {
		return nil, err
	}

	return json.Marshal(map[string]any{
		"program_id": int64(id),
		"outcome":    outcome.String(),
		"marked":     outcome.Marked(),
		"is_marked":  m.plugin.IsMarked(id),
	})
}

func (m *markerHandlers) IsMarked(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in programInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	id, err := in.id()
	if err != nil {
		return nil, err
	}

	return json.Marshal(map[string]any{"program_id": int64(id), "marked": m.plugin.IsMarked(id)})
}

func (m *markerHandlers) List(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	ids := m.plugin.MarkedPrograms()

	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}

	return json.Marshal(map[string]any{"program_ids": out, "count": len(out)})
}

type pruneInput struct {
	FirstKnownID *int64 `json:"first_known_id"`
}

func (m *markerHandlers) Prune(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in pruneInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if in.FirstKnownID == nil {
		return nil, fmt.Errorf("first_known_id is required")
	}

	threshold := marker.ProgramID(*in.FirstKnownID)
	if err := m.plugin.PruneBefore(ctx, threshold); err != nil {
		return nil, err
	}

	status := "pruned"
	if threshold == marker.ResetThreshold {
		status = "reset"
	}
	return json.Marshal(map[string]any{"status": status, "count": len(m.plugin.MarkedPrograms())})
}

type actionOutput struct {
	ID     int    `json:"id"`
	Action string `json:"action"`
	Label  string `json:"label"`
}

func (m *markerHandlers) Actions(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in programInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	id, err := in.id()
	if err != nil {
		return nil, err
	}

	actions := m.plugin.ContextMenuActions(id)
	out := make([]actionOutput, len(actions))
	for i, a := range actions {
		out[i] = actionOutput{ID: int(a.Kind), Action: a.Kind.String(), Label: a.Label}
	}

	return json.Marshal(map[string]any{"program_id": int64(id), "actions": out})
}

func (m *markerHandlers) Info(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	info := m.plugin.Info()
	return json.Marshal(map[string]any{
		"name":            info.Name,
		"version":         info.Version,
		"author":          info.Author,
		"license":         info.License,
		"description":     info.Description,
		"has_preferences": m.plugin.HasPreferences(),
		"attached":        m.plugin.Attached(),
		"session_id":      m.plugin.Session(),
	})
}
