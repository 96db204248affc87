// ABOUTME: Tests for marker pack tool handlers.
// ABOUTME: Drives a real plugin over the mock preference store through the router.

package builtins

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/simplemarker/internal/dedupe"
	"github.com/2389/simplemarker/internal/marker"
	"github.com/2389/simplemarker/internal/packs"
	"github.com/2389/simplemarker/internal/prefs"
)

type testEnv struct {
	plugin  *marker.Plugin
	store   *prefs.MockStore
	router  *packs.Router
	confirm bool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{store: prefs.NewMockStore(), confirm: true}
	env.plugin = marker.New(env.store, marker.Config{}, slog.Default())
	host := marker.HostFunc(func(ctx context.Context, id marker.ProgramID) (bool, error) {
		return env.confirm, nil
	})
	require.NoError(t, env.plugin.Activate(context.Background(), host))

	registry := packs.NewRegistry(slog.Default())
	require.NoError(t, RegisterAll(registry, env.plugin))
	env.router = packs.NewRouter(packs.RouterConfig{Registry: registry, Logger: slog.Default()})
	return env
}

// call executes a tool and decodes its output, failing on tool errors.
func (e *testEnv) call(t *testing.T, tool, input string) map[string]any {
	t.Helper()
	resp, err := e.router.Execute(context.Background(), tool, json.RawMessage(input), "")
	require.NoError(t, err)
	require.Empty(t, resp.Error, "tool %s failed", tool)

	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.OutputJSON, &out))
	return out
}

// callErr executes a tool that is expected to fail and returns its error text.
func (e *testEnv) callErr(t *testing.T, tool, input string) string {
	t.Helper()
	resp, err := e.router.Execute(context.Background(), tool, json.RawMessage(input), "")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Error, "tool %s unexpectedly succeeded", tool)
	return resp.Error
}

func findHandler(pack *packs.BuiltinPack, name string) packs.ToolHandler {
	for _, tool := range pack.Tools {
		if tool.Definition.Name == name {
			return tool.Handler
		}
	}
	return nil
}

func TestMarkerPack_Definitions(t *testing.T) {
	env := newTestEnv(t)
	pack := MarkerPack(env.plugin)

	assert.Equal(t, "builtin:marker", pack.ID)
	for _, name := range []string{"marker_toggle", "marker_is_marked", "marker_list", "marker_prune", "marker_actions", "marker_info"} {
		assert.NotNil(t, findHandler(pack, name), "missing %s", name)
	}
	for _, tool := range pack.Tools {
		assert.True(t, json.Valid([]byte(tool.Definition.InputSchemaJSON)), "invalid schema for %s", tool.Definition.Name)
	}
}

func TestMarkerToggle(t *testing.T) {
	env := newTestEnv(t)

	out := env.call(t, "marker_toggle", `{"program_id": 5, "action": "mark"}`)
	assert.Equal(t, "marked", out["outcome"])
	assert.Equal(t, true, out["marked"])
	assert.Equal(t, true, out["is_marked"])
	assert.Equal(t, float64(5), out["program_id"])

	out = env.call(t, "marker_toggle", `{"program_id": 5, "action": "mark"}`)
	assert.Equal(t, "unchanged", out["outcome"])
	assert.Equal(t, false, out["marked"])

	// Menu ids as sent by the host: 1 marks, 2 unmarks
	out = env.call(t, "marker_toggle", `{"program_id": 5, "menu_id": 2}`)
	assert.Equal(t, "unmarked", out["outcome"])
	assert.Equal(t, false, out["marked"])
	assert.Equal(t, false, out["is_marked"])
	assert.Equal(t, 2, env.store.Writes(marker.DefaultKey))
}

func TestMarkerToggle_Denied(t *testing.T) {
	env := newTestEnv(t)
	env.call(t, "marker_toggle", `{"program_id": 8, "menu_id": 1}`)

	env.confirm = false
	out := env.call(t, "marker_toggle", `{"program_id": 8, "action": "unmark"}`)
	assert.Equal(t, "unchanged", out["outcome"])
	assert.Equal(t, true, out["is_marked"])
}

func TestMarkerToggle_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	assert.Contains(t, env.callErr(t, "marker_toggle", `{"action": "mark"}`), "program_id is required")
	assert.Contains(t, env.callErr(t, "marker_toggle", `{"program_id": 1, "action": "star"}`), "unknown marker action")
	assert.Contains(t, env.callErr(t, "marker_toggle", `{"program_id": 1, "menu_id": 3}`), "menu_id 3")
	assert.Contains(t, env.callErr(t, "marker_toggle", `{"program_id": "one"}`), "invalid input")
}

func TestMarkerIsMarkedAndList(t *testing.T) {
	env := newTestEnv(t)
	env.call(t, "marker_toggle", `{"program_id": 20, "action": "mark"}`)
	env.call(t, "marker_toggle", `{"program_id": 5, "action": "mark"}`)

	out := env.call(t, "marker_is_marked", `{"program_id": 20}`)
	assert.Equal(t, true, out["marked"])
	out = env.call(t, "marker_is_marked", `{"program_id": 21}`)
	assert.Equal(t, false, out["marked"])

	out = env.call(t, "marker_list", `{}`)
	assert.Equal(t, float64(2), out["count"])
	assert.Equal(t, []any{float64(5), float64(20)}, out["program_ids"])

	assert.Contains(t, env.callErr(t, "marker_is_marked", `{}`), "program_id is required")
}

func TestMarkerPrune(t *testing.T) {
	env := newTestEnv(t)
	env.call(t, "marker_toggle", `{"program_id": 5, "action": "mark"}`)
	env.call(t, "marker_toggle", `{"program_id": 20, "action": "mark"}`)

	out := env.call(t, "marker_prune", `{"first_known_id": 10}`)
	assert.Equal(t, "pruned", out["status"])
	assert.Equal(t, float64(1), out["count"])

	out = env.call(t, "marker_prune", `{"first_known_id": -1}`)
	assert.Equal(t, "reset", out["status"])
	assert.Equal(t, float64(0), out["count"])

	assert.Contains(t, env.callErr(t, "marker_prune", `{}`), "first_known_id is required")
}

func TestMarkerActions(t *testing.T) {
	env := newTestEnv(t)

	out := env.call(t, "marker_actions", `{"program_id": 3}`)
	actions := out["actions"].([]any)
	require.Len(t, actions, 1)
	first := actions[0].(map[string]any)
	assert.Equal(t, float64(marker.ActionMark), first["id"])
	assert.Equal(t, "mark", first["action"])
	assert.Equal(t, "Mark", first["label"])

	env.call(t, "marker_toggle", `{"program_id": 3, "action": "mark"}`)

	out = env.call(t, "marker_actions", `{"program_id": 3}`)
	first = out["actions"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(marker.ActionUnmark), first["id"])
	assert.Equal(t, "Unmark", first["label"])
}

func TestMarkerInfo(t *testing.T) {
	env := newTestEnv(t)

	out := env.call(t, "marker_info", `{}`)
	assert.Equal(t, marker.DefaultInfo().Name, out["name"])
	assert.Equal(t, false, out["has_preferences"])
	assert.Equal(t, true, out["attached"])
	assert.NotEmpty(t, out["session_id"])

	env.plugin.Deactivate()
	out = env.call(t, "marker_info", `{}`)
	assert.Equal(t, false, out["attached"])
	assert.Equal(t, "", out["session_id"])
}

func TestMarkerToggle_HostFailure(t *testing.T) {
	store := prefs.NewMockStore()
	plugin := marker.New(store, marker.Config{}, slog.Default())
	hostErr := errors.New("host session lost")
	require.NoError(t, plugin.Activate(context.Background(), marker.HostFunc(func(context.Context, marker.ProgramID) (bool, error) {
		return false, hostErr
	})))

	handler := findHandler(MarkerPack(plugin), "marker_toggle")
	require.NotNil(t, handler)

	_, err := handler(context.Background(), json.RawMessage(`{"program_id": 4, "action": "mark"}`))
	require.NoError(t, err)

	_, err = handler(context.Background(), json.RawMessage(`{"program_id": 4, "action": "unmark"}`))
	assert.ErrorIs(t, err, hostErr)
	assert.True(t, plugin.IsMarked(4))
}

func TestRegisterAll_Twice(t *testing.T) {
	env := newTestEnv(t)
	registry := packs.NewRegistry(slog.Default())

	require.NoError(t, RegisterAll(registry, env.plugin))
	assert.ErrorIs(t, RegisterAll(registry, env.plugin), packs.ErrPackAlreadyRegistered)
}

func TestMarkerToggle_ResubmittedRequest(t *testing.T) {
	store := prefs.NewMockStore()
	plugin := marker.New(store, marker.Config{}, slog.Default())
	confirmations := 0
	require.NoError(t, plugin.Activate(context.Background(), marker.HostFunc(func(context.Context, marker.ProgramID) (bool, error) {
		confirmations++
		return true, nil
	})))

	registry := packs.NewRegistry(slog.Default())
	require.NoError(t, RegisterAll(registry, plugin))
	router := packs.NewRouter(packs.RouterConfig{
		Registry: registry,
		Replay:   dedupe.New[*packs.Response](time.Minute, 64),
	})
	ctx := context.Background()

	_, err := router.Execute(ctx, "marker_toggle", json.RawMessage(`{"program_id": 12, "action": "mark"}`), "host-1")
	require.NoError(t, err)

	first, err := router.Execute(ctx, "marker_toggle", json.RawMessage(`{"program_id": 12, "action": "unmark"}`), "host-2")
	require.NoError(t, err)
	again, err := router.Execute(ctx, "marker_toggle", json.RawMessage(`{"program_id": 12, "action": "unmark"}`), "host-2")
	require.NoError(t, err)

	assert.Equal(t, 1, confirmations, "resubmitted unmark must not ask the host again")
	assert.JSONEq(t, string(first.OutputJSON), string(again.OutputJSON))
	assert.Equal(t, 2, store.Writes(marker.DefaultKey))
}
