// ABOUTME: Routes tool calls from the host to the registered tool handlers.
// ABOUTME: Handles request correlation ids, replays and per-tool timeouts.

package packs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/2389/simplemarker/internal/dedupe"
)

// ErrToolNotFound indicates the requested tool is not registered.
var ErrToolNotFound = errors.New("tool not found")

// DefaultTimeout is the default timeout for tool execution.
const DefaultTimeout = 30 * time.Second

// Response is the result of a routed tool call. Exactly one of OutputJSON
// and Error is set.
type Response struct {
	RequestID  string
	OutputJSON json.RawMessage
	Error      string
}

// Router routes tool calls to the registered handlers.
type Router struct {
	registry *Registry
	logger   *slog.Logger
	timeout  time.Duration
	replay   *dedupe.Cache[*Response]
}

// RouterConfig contains configuration options for the Router.
type RouterConfig struct {
	Registry *Registry
	Logger   *slog.Logger
	Timeout  time.Duration
	// Replay, when set, remembers responses by caller-supplied request id so a
	// resubmitted request is answered without running the tool again.
	Replay *dedupe.Cache[*Response]
}

// NewRouter creates a new Router with the given configuration.
func NewRouter(cfg RouterConfig) *Router {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Router{
		registry: cfg.Registry,
		logger:   logger,
		timeout:  timeout,
		replay:   cfg.Replay,
	}
}

// Execute runs toolName with input. A handler error is reported in
// Response.Error; the returned error is reserved for routing failures such as
// ErrToolNotFound. An empty requestID is replaced with a generated one.
func (r *Router) Execute(ctx context.Context, toolName string, input json.RawMessage, requestID string) (*Response, error) {
	replayable := r.replay != nil && requestID != ""
	if requestID == "" {
		requestID = uuid.NewString()
	}

	if replayable {
		if cached, ok := r.replay.Get(replayKey(toolName, requestID)); ok {
			r.logger.Debug("replaying builtin response",
				"tool_name", toolName,
				"request_id", requestID,
			)
			resp := *cached
			return &resp, nil
		}
	}

	tool := r.registry.GetBuiltinTool(toolName)
	if tool == nil {
		r.logger.Debug("tool not found in registry",
			"tool_name", toolName,
			"request_id", requestID,
		)
		return nil, ErrToolNotFound
	}

	timeout := r.timeout
	if tool.Definition.TimeoutSeconds > 0 {
		timeout = time.Duration(tool.Definition.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if len(input) == 0 {
		input = json.RawMessage(`{}`)
	}

	r.logger.Debug("→ dispatching to builtin",
		"tool_name", toolName,
		"request_id", requestID,
	)

	result, err := tool.Handler(ctx, input)
	if err != nil {
		r.logger.Warn("builtin tool error",
			"tool_name", toolName,
			"request_id", requestID,
			"error", err,
		)
		return r.remember(toolName, replayable, &Response{RequestID: requestID, Error: err.Error()}), nil
	}

	r.logger.Debug("← builtin responded",
		"tool_name", toolName,
		"request_id", requestID,
	)
	return r.remember(toolName, replayable, &Response{RequestID: requestID, OutputJSON: result}), nil
}

func (r *Router) remember(toolName string, replayable bool, resp *Response) *Response {
	if replayable {
		stored := *resp
		r.replay.Put(replayKey(toolName, resp.RequestID), &stored)
	}
	return resp
}

func replayKey(toolName, requestID string) string {
	return toolName + "/" + requestID
}
