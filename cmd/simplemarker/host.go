// ABOUTME: Local stand-in for the TV-listing host
// ABOUTME: Confirms unmark requests unless SIMPLEMARKER_DENY_UNMARK is set

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/2389/simplemarker/internal/marker"
)

// localHost answers confirmation requests for the CLI session.
type localHost struct {
	deny   bool
	logger *slog.Logger
}

func newLocalHost(logger *slog.Logger) *localHost {
	return &localHost{
		deny:   os.Getenv("SIMPLEMARKER_DENY_UNMARK") == "1",
		logger: logger.With("component", "host"),
	}
}

func (h *localHost) ConfirmUnmark(ctx context.Context, id marker.ProgramID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	h.logger.Debug("confirming unmark", "program_id", id, "confirmed", !h.deny)
	return !h.deny, nil
}
