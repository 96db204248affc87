// Package config handles configuration loading for simplemarker.
//
// # Overview
//
// Configuration is loaded from YAML or TOML files with environment variable
// expansion. Every field has a default, so a missing file is not an error for
// callers that fall back to Default().
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from SIMPLEMARKER_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/simplemarker/config.yaml
//  3. ~/.config/simplemarker/config.yaml
//
// Files ending in .toml are decoded as TOML.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	storage:
//	  bucket_url: "${MARKER_BUCKET}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Storage:
//
//	storage:
//	  backend: "sqlite"              # sqlite, blob, memory
//	  path: "/var/lib/marker/markings.db"
//	  bucket_url: "file:///var/lib/marker"
//	  prefix: "prefs"
//	  key: "PREF_MARKINGS"
//
// Labels:
//
//	labels:
//	  mark: "Mark"
//	  unmark: "Unmark"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
//	cfg, err := config.Load("/etc/simplemarker/config.yaml", dataDir)
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
