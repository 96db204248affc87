// Package marker implements the program marking plugin for a TV listing host.
//
// # Overview
//
// A Plugin keeps the set of program ids the user marked as "of interest",
// answers the host's queries about that set and persists it to a preference
// Store after every change. The host activates the plugin with a Host handle,
// asks which context menu action applies to a program, forwards the chosen
// action to Toggle and periodically reports the oldest program id it still
// knows about through PruneBefore.
//
// # Unmarking
//
// Unmarking must be confirmed by the host, which may refuse (some program
// sources do not allow it). While the confirmation call is outstanding the
// program reports as unmarked:
//
//  1. Toggle enters the removing(id) state
//  2. Host.ConfirmUnmark is called without holding the state lock
//  3. on confirmation the id is removed and the set is persisted
//  4. the removal state returns to idle whatever the host answered
//
// IsMarked may be called concurrently (or from inside ConfirmUnmark) and sees
// removing(id) as unmarked. Mutating calls are serialized; a Host must not call
// Toggle or PruneBefore from inside ConfirmUnmark.
//
// # Persistence
//
// The set is stored under a single key (PREF_MARKINGS by default) as decimal
// strings. Malformed members are skipped on load. A detached plugin (after
// Deactivate) keeps answering read-only queries; unmarking becomes a no-op.
//
// # Pruning
//
// Program ids grow over time, so every id below the host's first known id is
// stale. PruneBefore(ResetThreshold) forgets everything.
package marker
