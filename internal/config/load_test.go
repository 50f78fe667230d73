package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_InlineTools(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "shimbox.yaml", `
cache:
  ttl: 24h
shell:
  name: zsh
tools:
  - name: docker
    install_hint: brew install --cask docker
    aliases:
      - name: dcu
        args: [compose, up]
      - name: dcd
        args: [compose, down]
  - name: ripgrep
    executable: rg
    install_hint: brew install ripgrep
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Tools) != 2 {
		t.Fatalf("len(Tools) = %d, want 2", len(cfg.Tools))
	}
	if cfg.Cache.TTL.Std() != 24*time.Hour {
		t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL.Std())
	}
	if cfg.Shell.Name != "zsh" {
		t.Errorf("Shell.Name = %q, want zsh", cfg.Shell.Name)
	}

	docker := cfg.Tools[0]
	if docker.Binary() != "docker" {
		t.Errorf("docker Binary() = %q, want docker", docker.Binary())
	}
	if len(docker.Aliases) != 2 || docker.Aliases[0].Name != "dcu" {
		t.Errorf("docker aliases = %+v, want dcu/dcd", docker.Aliases)
	}

	rg := cfg.Tools[1]
	if rg.Binary() != "rg" {
		t.Errorf("ripgrep Binary() = %q, want rg (executable override)", rg.Binary())
	}
}

func TestLoad_SplitToolsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tools.yaml", `
tools:
  - name: jq
    install_hint: brew install jq
`)
	path := writeFile(t, dir, "shimbox.yaml", `
tools_file: tools.yaml
tools:
  - name: gh
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Tools) != 2 {
		t.Fatalf("len(Tools) = %d, want 2 (inline + tools_file)", len(cfg.Tools))
	}
	if cfg.Tools[0].Name != "gh" || cfg.Tools[1].Name != "jq" {
		t.Errorf("tool order = [%s %s], want inline first", cfg.Tools[0].Name, cfg.Tools[1].Name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() of missing file succeeded, want error")
	}
}

func TestLoad_DuplicateWrapperName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "shimbox.yaml", `
tools:
  - name: git
    aliases:
      - name: gs
        args: [status]
  - name: gs
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted a duplicate wrapper name, want error")
	}
}

func TestLoad_ReservedWrapperName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "shimbox.yaml", `
tools:
  - name: git
    aliases:
      - name: doctor
        args: [status]
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted a wrapper shadowing a builtin command")
	}
}

func TestLoad_BadTTL(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "shimbox.yaml", `
cache:
  ttl: soon
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted an invalid ttl, want error")
	}
}

func TestDefaultPath_EnvOverride(t *testing.T) {
	t.Setenv("SHIMBOX_CONFIG", "/tmp/custom.yaml")
	if got := DefaultPath(); got != "/tmp/custom.yaml" {
		t.Errorf("DefaultPath() = %q, want env override", got)
	}
}
