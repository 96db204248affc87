// ABOUTME: Registers every built-in pack with a packs.Registry.

package builtins

import (
	"fmt"

	"github.com/2389/simplemarker/internal/packs"
)

// RegisterAll registers every built-in pack.
func RegisterAll(registry *packs.Registry, plugin MarkerPlugin) error {
	if err := registry.RegisterBuiltinPack(MarkerPack(plugin)); err != nil {
		return fmt.Errorf("registering marker pack: %w", err)
	}
	return nil
}
