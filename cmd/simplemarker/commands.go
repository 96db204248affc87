// ABOUTME: Translates CLI arguments into marker tool calls
// ABOUTME: and renders tool output for the terminal

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

var errUsage = errors.New("usage")

// request is a single tool invocation built from the command line.
type request struct {
	tool  string
	input json.RawMessage
}

// parseCommand maps a subcommand and its arguments onto a marker tool call.
func parseCommand(args []string) (request, error) {
	if len(args) == 0 {
		return request{}, errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "mark", "unmark":
		id, err := singleID(cmd, rest)
		if err != nil {
			return request{}, err
		}
		return newRequest("marker_toggle", map[string]any{"program_id": id, "action": cmd})
	case "status":
		id, err := singleID(cmd, rest)
		if err != nil {
			return request{}, err
		}
		return newRequest("marker_is_marked", map[string]any{"program_id": id})
	case "actions":
		id, err := singleID(cmd, rest)
		if err != nil {
			return request{}, err
		}
		return newRequest("marker_actions", map[string]any{"program_id": id})
	case "prune":
		if len(rest) != 1 {
			return request{}, fmt.Errorf("prune takes one argument: ID or reset")
		}
		if rest[0] == "reset" {
			return newRequest("marker_prune", map[string]any{"first_known_id": -1})
		}
		id, err := parseID(rest[0])
		if err != nil {
			return request{}, err
		}
		return newRequest("marker_prune", map[string]any{"first_known_id": id})
	case "list":
		return newRequest("marker_list", nil)
	case "info":
		return newRequest("marker_info", nil)
	default:
		return request{}, fmt.Errorf("unknown command: %s", cmd)
	}
}

func newRequest(tool string, input map[string]any) (request, error) {
	if input == nil {
		return request{tool: tool}, nil
	}
	data, err := json.Marshal(input)
	if err != nil {
		return request{}, fmt.Errorf("encoding %s input: %w", tool, err)
	}
	return request{tool: tool, input: data}, nil
}

func singleID(cmd string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s takes exactly one program id", cmd)
	}
	return parseID(args[0])
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid program id %q", s)
	}
	return id, nil
}

// toolOutput is the union of fields the marker tools return.
type toolOutput struct {
	ProgramID      *int64  `json:"program_id"`
	Outcome        string  `json:"outcome"`
	Marked         *bool   `json:"marked"`
	IsMarked       *bool   `json:"is_marked"`
	ProgramIDs     []int64 `json:"program_ids"`
	Count          *int    `json:"count"`
	Status         string  `json:"status"`
	Name           string  `json:"name"`
	Version        string  `json:"version"`
	Author         string  `json:"author"`
	License        string  `json:"license"`
	Description    string  `json:"description"`
	HasPreferences bool    `json:"has_preferences"`
	SessionID      string  `json:"session_id"`
	Actions        []struct {
		ID     int    `json:"id"`
		Action string `json:"action"`
		Label  string `json:"label"`
	} `json:"actions"`
}

// printResult renders the output of tool to w.
func printResult(w io.Writer, tool string, raw json.RawMessage) error {
	var out toolOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decoding %s output: %w", tool, err)
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	gray := color.New(color.FgHiBlack)

	switch tool {
	case "marker_toggle":
		id := deref(out.ProgramID)
		switch out.Outcome {
		case "marked":
			green.Fprint(w, "✓ ")
			fmt.Fprintf(w, "marked %d\n", id)
		case "unmarked":
			green.Fprint(w, "✓ ")
			fmt.Fprintf(w, "unmarked %d\n", id)
		default:
			yellow.Fprint(w, "• ")
			state := "not marked"
			if out.IsMarked != nil && *out.IsMarked {
				state = "marked"
			}
			fmt.Fprintf(w, "%d unchanged (%s)\n", id, state)
		}
	case "marker_is_marked":
		id := deref(out.ProgramID)
		if out.Marked != nil && *out.Marked {
			green.Fprint(w, "● ")
			fmt.Fprintf(w, "%d is marked\n", id)
		} else {
			gray.Fprint(w, "○ ")
			fmt.Fprintf(w, "%d is not marked\n", id)
		}
	case "marker_list":
		if len(out.ProgramIDs) == 0 {
			gray.Fprintln(w, "no marked programs")
			return nil
		}
		for _, id := range out.ProgramIDs {
			green.Fprint(w, "● ")
			fmt.Fprintf(w, "%d\n", id)
		}
		gray.Fprintf(w, "%d marked\n", len(out.ProgramIDs))
	case "marker_prune":
		green.Fprint(w, "✓ ")
		fmt.Fprintf(w, "%s, %d remaining\n", out.Status, derefInt(out.Count))
	case "marker_actions":
		for _, a := range out.Actions {
			fmt.Fprintf(w, "[%d] %s ", a.ID, a.Label)
			gray.Fprintf(w, "(%s)\n", a.Action)
		}
	case "marker_info":
		color.New(color.FgCyan, color.Bold).Fprintln(w, out.Name)
		fmt.Fprintf(w, "  version:     %s\n", out.Version)
		fmt.Fprintf(w, "  author:      %s\n", out.Author)
		fmt.Fprintf(w, "  license:     %s\n", out.License)
		fmt.Fprintf(w, "  preferences: %t\n", out.HasPreferences)
		if out.SessionID != "" {
			fmt.Fprintf(w, "  session:     %s\n", out.SessionID)
		}
		gray.Fprintf(w, "  %s\n", out.Description)
	default:
		fmt.Fprintf(w, "%s\n", raw)
	}
	return nil
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
