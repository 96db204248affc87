// ABOUTME: Program ids, context menu actions, toggle outcomes and host contracts
// ABOUTME: Shared vocabulary between the plugin and its host

package marker

import (
	"context"
	"errors"
	"strconv"
)

// ErrNotActivated is returned by mutating calls before the first Activate
var ErrNotActivated = errors.New("marker plugin not activated")

// ErrNilHost is returned when Activate is called without a host handle
var ErrNilHost = errors.New("host handle is nil")

// ErrUnknownAction is returned for an action kind other than mark or unmark
var ErrUnknownAction = errors.New("unknown marker action")

// ProgramID identifies a broadcast program. Newer programs get larger ids.
type ProgramID int64

// ResetThreshold passed to PruneBefore clears every marking.
const ResetThreshold ProgramID = -1

// ParseProgramID parses the decimal representation used in storage.
func ParseProgramID(s string) (ProgramID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ProgramID(v), nil
}

func (id ProgramID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ActionKind tags a context menu entry. The values are stable across releases.
type ActionKind int

const (
	ActionMark   ActionKind = 1
	ActionUnmark ActionKind = 2
)

func (k ActionKind) String() string {
	switch k {
	case ActionMark:
		return "mark"
	case ActionUnmark:
		return "unmark"
	default:
		return "unknown"
	}
}

// ParseActionKind accepts "mark" or "unmark".
func ParseActionKind(s string) (ActionKind, error) {
	switch s {
	case "mark":
		return ActionMark, nil
	case "unmark":
		return ActionUnmark, nil
	default:
		return 0, ErrUnknownAction
	}
}

// MenuAction is a context menu entry offered to the host.
type MenuAction struct {
	Kind  ActionKind
	Label string
}

// Outcome reports what Toggle did.
type Outcome int

const (
	// OutcomeUnchanged means the set was not modified: a repeated mark, an
	// unmark of an absent id, a denied unmark or a detached plugin.
	OutcomeUnchanged Outcome = iota
	OutcomeMarked
	OutcomeUnmarked
)

// Marked reports the host-facing boolean: true only when the program was
// newly marked by this call.
func (o Outcome) Marked() bool {
	return o == OutcomeMarked
}

func (o Outcome) String() string {
	switch o {
	case OutcomeMarked:
		return "marked"
	case OutcomeUnmarked:
		return "unmarked"
	default:
		return "unchanged"
	}
}

// Host is the part of the host's control interface the plugin calls back into.
type Host interface {
	// ConfirmUnmark asks the host to drop the mark for id. A false result
	// means the host refused; an error means the host session is broken.
	ConfirmUnmark(ctx context.Context, id ProgramID) (bool, error)
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(ctx context.Context, id ProgramID) (bool, error)

// ConfirmUnmark calls f.
func (f HostFunc) ConfirmUnmark(ctx context.Context, id ProgramID) (bool, error) {
	return f(ctx, id)
}

// Preferences is the durable key-value store holding the marking set.
// prefs.Store satisfies it.
type Preferences interface {
	GetStringSet(ctx context.Context, key string) ([]string, bool, error)
	PutStringSet(ctx context.Context, key string, values []string) error
}

// Info is the static metadata the host shows for the plugin.
type Info struct {
	Name        string
	Version     string
	Author      string
	License     string
	Description string
}
