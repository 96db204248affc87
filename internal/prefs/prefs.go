// ABOUTME: Store interface for named string-set preference entries
// ABOUTME: Shared by the SQLite, blob and mock implementations

package prefs

import (
	"context"
	"errors"
	"sort"
)

// ErrEmptyKey is returned when an entry key is empty
var ErrEmptyKey = errors.New("preference key is empty")

// Store persists named sets of strings.
type Store interface {
	// GetStringSet returns the members of the entry and whether it exists.
	GetStringSet(ctx context.Context, key string) ([]string, bool, error)
	// PutStringSet replaces the entry with the given members.
	PutStringSet(ctx context.Context, key string, values []string) error
	// Close releases any resources held by the store
	Close() error
}

// normalize returns the sorted, de-duplicated members of values.
func normalize(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
