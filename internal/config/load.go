package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"shimbox/internal/logger"
)

// rootFile mirrors the on-disk shimbox.yaml. Tool entries can live inline
// under `tools:` or in a separate file named by `tools_file:` (relative
// paths resolve against the root file's directory). The split layout keeps
// a large tool catalog out of the main file.
type rootFile struct {
	ToolsFile string      `yaml:"tools_file"`
	Tools     []Tool      `yaml:"tools"`
	Shell     Shell       `yaml:"shell"`
	Cache     CacheConfig `yaml:"cache"`
}

// toolsFile is the wrapper structure of a standalone tools YAML.
type toolsFile struct {
	Tools []Tool `yaml:"tools"`
}

// Load reads the root config file and, when configured, the referenced
// tools file, returning the assembled Config.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var root rootFile
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := Config{
		Tools: root.Tools,
		Shell: root.Shell,
		Cache: root.Cache,
	}

	if root.ToolsFile != "" {
		toolsPath := root.ToolsFile
		if !filepath.IsAbs(toolsPath) {
			toolsPath = filepath.Join(filepath.Dir(path), toolsPath)
		}
		logger.Debug("[DEBUG] Loading tools file %s\n", toolsPath)

		toolsRaw, err := os.ReadFile(toolsPath)
		if err != nil {
			return Config{}, fmt.Errorf("read tools file %s: %w", toolsPath, err)
		}
		var tf toolsFile
		if err := yaml.Unmarshal(toolsRaw, &tf); err != nil {
			return Config{}, fmt.Errorf("parse tools file %s: %w", toolsPath, err)
		}
		cfg.Tools = append(cfg.Tools, tf.Tools...)
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// reservedNames are command names the CLI itself claims; wrappers may not
// shadow them.
var reservedNames = map[string]bool{
	"doctor": true, "list": true, "install": true, "uninstall": true,
	"aliases": true, "cache": true, "help": true, "completion": true,
}

// validate rejects catalogs that would produce ambiguous wrapper commands.
func validate(cfg Config) error {
	seen := make(map[string]string)
	claim := func(name, owner string) error {
		if name == "" {
			return fmt.Errorf("tool %s: empty wrapper name", owner)
		}
		if reservedNames[name] {
			return fmt.Errorf("wrapper name %q is reserved (tool %s)", name, owner)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("wrapper name %q claimed by both %s and %s", name, prev, owner)
		}
		seen[name] = owner
		return nil
	}

	for _, t := range cfg.Tools {
		if t.Name == "" {
			return fmt.Errorf("tool entry with empty name")
		}
		if err := claim(t.Name, t.Name); err != nil {
			return err
		}
		for _, a := range t.Aliases {
			if err := claim(a.Name, t.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// DefaultPath returns the config file path: $SHIMBOX_CONFIG when set,
// otherwise shimbox.yaml in the user's config directory, falling back to
// the working directory.
func DefaultPath() string {
	if p := os.Getenv("SHIMBOX_CONFIG"); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "shimbox", "shimbox.yaml")
	}
	return "shimbox.yaml"
}
