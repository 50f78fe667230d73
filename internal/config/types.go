package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings such as
// "24h" or "90m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Tool describes one external CLI managed by shimbox.
// - Name: logical name, also the default wrapper command name.
// - Executable: the binary probed for and invoked; defaults to Name.
// - InstallHint: command line suggested (or run by `shimbox install`) when
//   the tool is missing.
// - Source/URL/Repo/Tag/Version: installation method resolution, same
//   scheme as the install sources ("hint", "github", "url").
// - Aliases: extra wrapper commands that forward to this tool with
//   preset arguments (e.g. dcu -> docker compose up).
type Tool struct {
	Name        string  `yaml:"name"`
	Executable  string  `yaml:"executable"`
	InstallHint string  `yaml:"install_hint"`
	Source      string  `yaml:"source"`
	URL         string  `yaml:"url"`
	Repo        string  `yaml:"repo"`
	Tag         string  `yaml:"tag"`
	Version     string  `yaml:"version"`
	Aliases     []Alias `yaml:"aliases"`
}

// Binary returns the executable name to probe and run for this tool.
func (t Tool) Binary() string {
	if t.Executable != "" {
		return t.Executable
	}
	return t.Name
}

// Alias defines a single preset wrapper (e.g. gs -> git status).
type Alias struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

// Shell holds shell-integration settings for the aliases command.
type Shell struct {
	Name   string `yaml:"name"`    // zsh or bash; detected from $SHELL when empty
	RCFile string `yaml:"rc_file"` // override of the default rc file path
}

// CacheConfig controls the availability cache.
// A zero TTL scopes probe results to a single process; a positive TTL lets
// results persist in the state file between runs.
type CacheConfig struct {
	TTL Duration `yaml:"ttl"`
}

// Config is the top-level structure returned after loading all YAML
// configuration.
type Config struct {
	Tools []Tool
	Shell Shell
	Cache CacheConfig
}
