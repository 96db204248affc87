// Package builtins provides the built-in tool packs the host dispatches to.
//
// # Marker Pack (builtin:marker)
//
//   - marker_toggle: Apply a context menu action ("mark" or "unmark")
//   - marker_is_marked: Report whether a program is marked
//   - marker_list: List all marked program ids
//   - marker_prune: Forget markings older than the first known program id
//   - marker_actions: Context menu actions offered for a program
//   - marker_info: Plugin metadata
//
// # Registration
//
//	builtins.RegisterAll(registry, plugin)
//
// # Tool Implementation
//
// Each tool is a packs.ToolHandler:
//
//	func(ctx context.Context, input json.RawMessage) (json.RawMessage, error)
//
// Program ids travel as JSON numbers. marker_prune with first_known_id -1
// clears every marking.
package builtins
