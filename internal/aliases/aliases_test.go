package aliases

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shimbox/internal/config"
)

func testCatalog() []config.Tool {
	return []config.Tool{
		{
			Name: "docker",
			Aliases: []config.Alias{
				{Name: "dcu", Args: []string{"compose", "up"}},
				{Name: "dcd", Args: []string{"compose", "down"}},
			},
		},
		{Name: "ripgrep", Executable: "rg"},
	}
}

func TestRender(t *testing.T) {
	lines := Render(testCatalog(), "shimbox")
	want := []string{
		`alias dcu="shimbox dcu"`,
		`alias dcd="shimbox dcd"`,
		`alias ripgrep="shimbox ripgrep"`,
	}
	if len(lines) != len(want) {
		t.Fatalf("Render() = %v, want %d lines", lines, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRender_SkipsSelfShadowingToolName(t *testing.T) {
	for _, line := range Render(testCatalog(), "shimbox") {
		if strings.Contains(line, "alias docker=") {
			t.Errorf("docker wrapper aliased over the real binary: %s", line)
		}
	}
}

func TestWrite_Idempotent(t *testing.T) {
	rc := filepath.Join(t.TempDir(), ".zshrc")
	if err := os.WriteFile(rc, []byte("export EDITOR=vim\n"), 0644); err != nil {
		t.Fatal(err)
	}

	added, err := Write(rc, testCatalog(), "shimbox")
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if added != 3 {
		t.Errorf("first Write() added = %d, want 3", added)
	}

	added, err = Write(rc, testCatalog(), "shimbox")
	if err != nil {
		t.Fatalf("second Write() error: %v", err)
	}
	if added != 0 {
		t.Errorf("second Write() added = %d, want 0 (idempotent)", added)
	}

	raw, err := os.ReadFile(rc)
	if err != nil {
		t.Fatal(err)
	}
	content := string(raw)
	if !strings.HasPrefix(content, "export EDITOR=vim\n") {
		t.Error("existing rc content clobbered")
	}
	if strings.Count(content, "alias dcu=") != 1 {
		t.Errorf("dcu alias count = %d, want 1", strings.Count(content, "alias dcu="))
	}
}

func TestRCPath_ConfigOverrideWins(t *testing.T) {
	got, err := RCPath(config.Shell{RCFile: "/tmp/rc-override"})
	if err != nil {
		t.Fatalf("RCPath() error: %v", err)
	}
	if got != "/tmp/rc-override" {
		t.Errorf("RCPath() = %q, want override", got)
	}
}

func TestDetectShell(t *testing.T) {
	cases := []struct {
		env  string
		want string
	}{
		{"/bin/zsh", "zsh"},
		{"/usr/bin/bash", "bash"},
		{"/bin/fish", "zsh"},
		{"", "zsh"},
	}
	for _, tc := range cases {
		t.Setenv("SHELL", tc.env)
		if got := DetectShell(); got != tc.want {
			t.Errorf("DetectShell() with SHELL=%q = %q, want %q", tc.env, got, tc.want)
		}
	}
}
