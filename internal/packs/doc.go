// Package packs provides the tool pack system the host uses to call into
// in-process plugins.
//
// # Overview
//
// A pack is a named collection of tools. Each tool has a definition (name,
// description, JSON input schema) and a handler taking and returning JSON.
// The host never links against a plugin's Go API; it looks tools up by name
// and sends JSON, which keeps the plugin replaceable.
//
// # Architecture
//
//   - Registry: tracks registered packs and their tools
//   - Router: dispatches a tool call to its handler with a timeout
//   - Packs: see internal/builtins
//
// Tool names are globally unique; registering a pack whose tool name is
// already taken fails with ErrToolCollision.
//
// # Usage
//
//	registry := packs.NewRegistry(logger)
//	if err := builtins.RegisterAll(registry, plugin); err != nil {
//	    return err
//	}
//	router := packs.NewRouter(packs.RouterConfig{Registry: registry, Logger: logger})
//	resp, err := router.Execute(ctx, "marker_toggle", input, "")
package packs
