// ABOUTME: Plugin owns the marking set, its persisted image and the unmark protocol
// ABOUTME: Answers host queries and mediates mark/unmark/prune transitions

package marker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DefaultKey is the preference entry used when Config.Key is empty.
const DefaultKey = "PREF_MARKINGS"

// Config holds the plugin settings. Zero fields take defaults.
type Config struct {
	Key         string
	MarkLabel   string
	UnmarkLabel string
	Info        Info
}

// DefaultInfo returns the metadata reported when Config.Info is empty.
func DefaultInfo() Info {
	return Info{
		Name:        "Simple Marker",
		Version:     "dev",
		Author:      "2389 Research",
		License:     "MIT",
		Description: "Marks programs of interest so they stand out in the listing.",
	}
}

// Plugin is the marking store. Create one with New and Activate it before use.
type Plugin struct {
	prefs  Preferences
	cfg    Config
	logger *slog.Logger

	opMu sync.Mutex // serializes Activate, Toggle and PruneBefore

	mu       sync.RWMutex // protects everything below
	host     Host
	session  string
	loaded   bool
	markings map[string]struct{} // canonical decimal ids
	removal  removal
}

// New creates a Plugin persisting to p.
func New(p Preferences, cfg Config, logger *slog.Logger) *Plugin {
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if cfg.MarkLabel == "" {
		cfg.MarkLabel = "Mark"
	}
	if cfg.UnmarkLabel == "" {
		cfg.UnmarkLabel = "Unmark"
	}
	if cfg.Info == (Info{}) {
		cfg.Info = DefaultInfo()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Plugin{
		prefs:    p,
		cfg:      cfg,
		logger:   logger.With("component", "marker"),
		markings: make(map[string]struct{}),
	}
}

// Activate attaches the plugin to a host session and reloads the marking set
// from storage. Calling it again replaces the host and reloads.
func (p *Plugin) Activate(ctx context.Context, host Host) error {
	if host == nil {
		return ErrNilHost
	}

	p.opMu.Lock()
	defer p.opMu.Unlock()

	markings, err := p.load(ctx)
	if err != nil {
		return fmt.Errorf("loading markings: %w", err)
	}

	session := uuid.NewString()

	p.mu.Lock()
	p.host = host
	p.session = session
	p.markings = markings
	p.loaded = true
	p.mu.Unlock()

	p.logger.Info("plugin activated", "session_id", session, "markings", len(markings))
	return nil
}

// Deactivate drops the host handle. The marking set stays queryable.
func (p *Plugin) Deactivate() {
	p.mu.Lock()
	session := p.session
	p.host = nil
	p.session = ""
	p.mu.Unlock()

	p.logger.Info("plugin deactivated", "session_id", session)
}

// Attached reports whether a host handle is present.
func (p *Plugin) Attached() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.host != nil
}

// Session returns the id of the current host session, or "" when detached.
func (p *Plugin) Session() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session
}

// IsMarked reports whether id is marked and not currently being unmarked.
func (p *Plugin) IsMarked(id ProgramID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.removal.pending(id) {
		return false
	}
	_, ok := p.markings[id.String()]
	return ok
}

// Toggle applies the context menu action kind to id.
//
// Marking an already marked id and unmarking an unmarked id are no-ops.
// Unmarking asks the host for confirmation first and is a no-op while
// detached. Host errors are returned with the set unchanged. When persisting
// fails the in-memory change is kept and the error is returned alongside the
// outcome.
func (p *Plugin) Toggle(ctx context.Context, id ProgramID, kind ActionKind) (Outcome, error) {
	p.opMu.Lock()
	defer p.opMu.Unlock()

	switch kind {
	case ActionMark:
		return p.mark(ctx, id)
	case ActionUnmark:
		return p.unmark(ctx, id)
	default:
		return OutcomeUnchanged, fmt.Errorf("%w: %d", ErrUnknownAction, kind)
	}
}

func (p *Plugin) mark(ctx context.Context, id ProgramID) (Outcome, error) {
	key := id.String()

	p.mu.Lock()
	if !p.loaded {
		p.mu.Unlock()
		return OutcomeUnchanged, ErrNotActivated
	}
	if _, ok := p.markings[key]; ok {
		p.mu.Unlock()
		return OutcomeUnchanged, nil
	}
	p.markings[key] = struct{}{}
	snapshot := p.snapshotLocked()
	p.mu.Unlock()

	if err := p.persist(ctx, snapshot); err != nil {
		return OutcomeMarked, err
	}
	p.logger.Debug("program marked", "program_id", id)
	return OutcomeMarked, nil
}

func (p *Plugin) unmark(ctx context.Context, id ProgramID) (Outcome, error) {
	key := id.String()

	p.mu.Lock()
	host := p.host
	if host == nil {
		p.mu.Unlock()
		p.logger.Debug("unmark ignored while detached", "program_id", id)
		return OutcomeUnchanged, nil
	}
	if _, ok := p.markings[key]; !ok {
		p.mu.Unlock()
		return OutcomeUnchanged, nil
	}
	p.removal.begin(id)
	p.mu.Unlock()

	confirmed, err := host.ConfirmUnmark(ctx, id)

	p.mu.Lock()
	if err == nil && confirmed {
		delete(p.markings, key)
	}
	p.removal.end()
	snapshot := p.snapshotLocked()
	p.mu.Unlock()

	if err != nil {
		return OutcomeUnchanged, fmt.Errorf("confirming unmark of %d: %w", id, err)
	}
	if !confirmed {
		p.logger.Debug("host denied unmark", "program_id", id)
		return OutcomeUnchanged, nil
	}

	if err := p.persist(ctx, snapshot); err != nil {
		return OutcomeUnmarked, err
	}
	p.logger.Debug("program unmarked", "program_id", id)
	return OutcomeUnmarked, nil
}

// PruneBefore forgets every marking with an id below firstKnown, the oldest
// program the host still has. ResetThreshold forgets everything. Storage is
// only written when something was removed, except for a reset which always
// writes.
func (p *Plugin) PruneBefore(ctx context.Context, firstKnown ProgramID) error {
	p.opMu.Lock()
	defer p.opMu.Unlock()

	p.mu.Lock()
	if !p.loaded {
		p.mu.Unlock()
		return ErrNotActivated
	}

	reset := firstKnown == ResetThreshold
	removed := 0
	if reset {
		removed = len(p.markings)
		p.markings = make(map[string]struct{})
	} else {
		for key := range p.markings {
			id, err := ParseProgramID(key)
			if err != nil || id < firstKnown {
				delete(p.markings, key)
				removed++
			}
		}
	}
	snapshot := p.snapshotLocked()
	p.mu.Unlock()

	if !reset && removed == 0 {
		return nil
	}

	if err := p.persist(ctx, snapshot); err != nil {
		return err
	}
	p.logger.Info("markings pruned", "first_known_id", firstKnown, "removed", removed, "remaining", len(snapshot))
	return nil
}

// MarkedPrograms returns every marked id in ascending order.
func (p *Plugin) MarkedPrograms() []ProgramID {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]ProgramID, 0, len(p.markings))
	for key := range p.markings {
		id, err := ParseProgramID(key)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ContextMenuActions returns the single action the host should offer for id:
// unmark when id is in the set, mark otherwise.
func (p *Plugin) ContextMenuActions(id ProgramID) []MenuAction {
	p.mu.RLock()
	_, marked := p.markings[id.String()]
	p.mu.RUnlock()

	if marked {
		return []MenuAction{{Kind: ActionUnmark, Label: p.cfg.UnmarkLabel}}
	}
	return []MenuAction{{Kind: ActionMark, Label: p.cfg.MarkLabel}}
}

// Info returns the plugin metadata.
func (p *Plugin) Info() Info {
	return p.cfg.Info
}

// HasPreferences reports whether the plugin offers a settings screen. It doesn't.
func (p *Plugin) HasPreferences() bool {
	return false
}

// load reads the persisted set, skipping members that are not decimal ids.
func (p *Plugin) load(ctx context.Context) (map[string]struct{}, error) {
	values, ok, err := p.prefs.GetStringSet(ctx, p.cfg.Key)
	if err != nil {
		return nil, err
	}

	markings := make(map[string]struct{}, len(values))
	if !ok {
		return markings, nil
	}

	for _, v := range values {
		id, err := ParseProgramID(strings.TrimSpace(v))
		if err != nil {
			p.logger.Warn("skipping malformed marking", "value", v, "error", err)
			continue
		}
		markings[id.String()] = struct{}{}
	}
	return markings, nil
}

func (p *Plugin) persist(ctx context.Context, snapshot []string) error {
	if err := p.prefs.PutStringSet(ctx, p.cfg.Key, snapshot); err != nil {
		return fmt.Errorf("persisting markings: %w", err)
	}
	return nil
}

// snapshotLocked copies the set for persistence. Must be called with mu held.
func (p *Plugin) snapshotLocked() []string {
	out := make([]string, 0, len(p.markings))
	for key := range p.markings {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
