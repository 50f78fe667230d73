package state

import (
	"encoding/json"
	"os"
	"path/filepath"

	"shimbox/internal/logger"
	"shimbox/internal/probe"
)

// InstalledTool records a tool that shimbox itself installed, so uninstall
// knows what it owns and where the binary landed.
type InstalledTool struct {
	Version            string `json:"version"`
	InstallPath        string `json:"install_path"`
	InstalledByShimbox bool   `json:"installed_by_shimbox"`
}

// State is the persisted side of shimbox: availability probe results
// (honored against the cache TTL on load) and the installed-tool ledger.
type State struct {
	Probes    []probe.Record           `json:"probes"`
	Installed map[string]InstalledTool `json:"installed"`
}

// Load reads the state file at path. A missing or unreadable file yields a
// fresh empty state, never an error; state is a cache, not a source of
// truth.
func Load(path string) *State {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &State{Installed: make(map[string]InstalledTool)}
	}

	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		logger.Warn("[WARN] Ignoring corrupt state file %s: %v\n", path, err)
		return &State{Installed: make(map[string]InstalledTool)}
	}
	if st.Installed == nil {
		st.Installed = make(map[string]InstalledTool)
	}
	return &st
}

// Save writes the state as indented JSON, creating parent directories as
// needed. Errors are logged rather than propagated; a failed save only
// costs re-probing on the next run.
func Save(path string, st *State) {
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("[ERROR] Failed to create state directory %s: %v\n", dir, err)
			return
		}
	}

	logger.Debug("[DEBUG] Writing state to %s\n", path)
	if err := os.WriteFile(path, raw, 0644); err != nil {
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}

// DefaultPath returns the state file location: $SHIMBOX_STATE when set,
// otherwise alongside the user config, falling back to the working
// directory.
func DefaultPath() string {
	if p := os.Getenv("SHIMBOX_STATE"); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "shimbox", "state.json")
	}
	return "state.json"
}
