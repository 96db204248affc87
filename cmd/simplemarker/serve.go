// ABOUTME: Line-oriented JSON session for a host driving the marker over stdio
// ABOUTME: One request per input line, one response per output line

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/2389/simplemarker/internal/packs"
)

const maxRequestBytes = 1 << 20

// wireRequest is one line read from the host.
type wireRequest struct {
	RequestID string          `json:"request_id"`
	Tool      string          `json:"tool"`
	Input     json.RawMessage `json:"input"`
}

// wireResponse is one line written back. Exactly one of Output and Error is set.
type wireResponse struct {
	RequestID string          `json:"request_id"`
	Output    json.RawMessage `json:"output,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// serve answers requests from in until EOF or ctx is done. A request carrying
// a request_id that was already answered gets the recorded response.
func serve(ctx context.Context, router *packs.Router, in io.Reader, out io.Writer, logger *slog.Logger) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestBytes)
	enc := json.NewEncoder(out)

	logger.Info("serving marker requests on stdio")

	handled := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if err := enc.Encode(handleLine(ctx, router, line)); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
		handled++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}

	logger.Info("stdio session ended", "requests", handled)
	return nil
}

func handleLine(ctx context.Context, router *packs.Router, line []byte) wireResponse {
	var req wireRequest
	if err := json.Unmarshal(line, &req); err != nil {
		return wireResponse{Error: fmt.Sprintf("invalid request: %v", err)}
	}
	if req.Tool == "" {
		return wireResponse{RequestID: req.RequestID, Error: "invalid request: tool is required"}
	}

	resp, err := router.Execute(ctx, req.Tool, req.Input, req.RequestID)
	if err != nil {
		return wireResponse{RequestID: req.RequestID, Error: err.Error()}
	}
	return wireResponse{RequestID: resp.RequestID, Output: resp.OutputJSON, Error: resp.Error}
}

// printTools lists the registered packs and their tools.
func printTools(w io.Writer, registry *packs.Registry) {
	for _, pack := range registry.ListPacks() {
		fmt.Fprintf(w, "%s (%s)\n", pack.ID, pack.Version)
	}
	for _, def := range registry.ListTools() {
		fmt.Fprintf(w, "  %-18s %s\n", def.Name, def.Description)
	}
}
