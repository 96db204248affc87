// ABOUTME: Entry point for the simplemarker CLI
// ABOUTME: Marks, unmarks and prunes programs in the local marking store

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/2389/simplemarker/internal/builtins"
	"github.com/2389/simplemarker/internal/config"
	"github.com/2389/simplemarker/internal/dedupe"
	"github.com/2389/simplemarker/internal/marker"
	"github.com/2389/simplemarker/internal/packs"
	"github.com/2389/simplemarker/internal/prefs"
)

// Version is set by goreleaser at build time.
var version = "dev"

// getConfigPath returns the path to the config file.
// Priority: SIMPLEMARKER_CONFIG env var > XDG_CONFIG_HOME/simplemarker/config.yaml > ~/.config/simplemarker/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("SIMPLEMARKER_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "simplemarker", "config.yaml")
}

// getDataPath returns the path to the simplemarker data directory.
// Priority: XDG_DATA_HOME/simplemarker > ~/.local/share/simplemarker
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "simplemarker")
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: simplemarker <command>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  mark ID            Mark a program")
	fmt.Fprintln(w, "  unmark ID          Unmark a program (asks the host to confirm)")
	fmt.Fprintln(w, "  status ID          Show whether a program is marked")
	fmt.Fprintln(w, "  list               List marked programs")
	fmt.Fprintln(w, "  prune ID|reset     Forget markings below ID, or all of them")
	fmt.Fprintln(w, "  actions ID         Show the context menu actions for a program")
	fmt.Fprintln(w, "  info               Show plugin metadata")
	fmt.Fprintln(w, "  tools              List the tools offered to the host")
	fmt.Fprintln(w, "  serve              Answer JSON requests from a host on stdin/stdout")
	fmt.Fprintln(w, "  version            Print the version")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stdout)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if errors.Is(err, errUsage) {
		usage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	var req request
	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "simplemarker %s\n", version)
		return nil
	case "serve", "tools":
		if len(args) != 1 {
			return fmt.Errorf("%s takes no arguments", cmd)
		}
	default:
		var err error
		if req, err = parseCommand(args); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(getConfigPath(), getDataPath())
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Logging, stderr)

	store, err := prefs.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening preferences: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close preferences", "error", err)
		}
	}()

	info := marker.DefaultInfo()
	info.Version = version
	plugin := marker.New(store, marker.Config{
		Key:         cfg.Storage.Key,
		MarkLabel:   cfg.Labels.Mark,
		UnmarkLabel: cfg.Labels.Unmark,
		Info:        info,
	}, logger)

	if err := plugin.Activate(ctx, newLocalHost(logger)); err != nil {
		return fmt.Errorf("activating plugin: %w", err)
	}
	defer plugin.Deactivate()

	registry := packs.NewRegistry(logger)
	if err := builtins.RegisterAll(registry, plugin); err != nil {
		return err
	}
	router := packs.NewRouter(packs.RouterConfig{
		Registry: registry,
		Logger:   logger,
		Replay:   dedupe.New[*packs.Response](cfg.Replay.TTL(), cfg.Replay.MaxEntries),
	})

	switch cmd {
	case "serve":
		return serve(ctx, router, stdin, stdout, logger)
	case "tools":
		printTools(stdout, registry)
		return nil
	}

	resp, err := router.Execute(ctx, req.tool, req.input, "")
	if err != nil {
		return fmt.Errorf("executing %s: %w", req.tool, err)
	}
	if resp.Error != "" {
		return errors.New(resp.Error)
	}

	return printResult(stdout, req.tool, resp.OutputJSON)
}

// loadConfig reads path, falling back to defaults when the file does not exist.
func loadConfig(path, dataDir string) (*config.Config, error) {
	cfg, err := config.Load(path, dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default(dataDir)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("validating default config: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
