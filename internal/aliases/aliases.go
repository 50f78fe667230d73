package aliases

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"shimbox/internal/config"
	"shimbox/internal/logger"
)

// Render produces shell alias lines for every wrapper, pointing the short
// name back at shimbox so wrapper calls go through the availability cache:
//
//	alias dcu="shimbox dcu"
//
// Lines are emitted in catalog order; the tool's own name gets an alias
// only when it differs from the executable (aliasing docker=shimbox docker
// would shadow the real binary for no benefit, but rg->ripgrep wrappers
// still deserve one).
func Render(tools []config.Tool, self string) []string {
	var lines []string
	for _, t := range tools {
		if t.Name != t.Binary() {
			lines = append(lines, aliasLine(t.Name, self))
		}
		for _, a := range t.Aliases {
			lines = append(lines, aliasLine(a.Name, self))
		}
	}
	return lines
}

func aliasLine(name, self string) string {
	return fmt.Sprintf("alias %s=%q", name, self+" "+name)
}

// Print writes the rendered alias lines to w, suitable for
// `eval "$(shimbox aliases)"` in a shell profile.
func Print(w io.Writer, tools []config.Tool, self string) error {
	for _, line := range Render(tools, self) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// DetectShell inspects $SHELL and returns "zsh" or "bash", defaulting to
// zsh when unknown.
func DetectShell() string {
	shell := os.Getenv("SHELL")
	logger.Debug("[DEBUG] Detected shell environment: %s\n", shell)

	if strings.Contains(shell, "zsh") {
		return "zsh"
	}
	if strings.Contains(shell, "bash") {
		return "bash"
	}
	return "zsh"
}

// RCPath resolves the rc file to append aliases to, honoring the config
// override first.
func RCPath(cfg config.Shell) (string, error) {
	if cfg.RCFile != "" {
		return cfg.RCFile, nil
	}

	usr, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("resolve current user: %w", err)
	}

	shell := cfg.Name
	if shell == "" {
		shell = DetectShell()
	}
	rcNames := map[string]string{
		"zsh":  ".zshrc",
		"bash": ".bashrc",
	}
	rc, ok := rcNames[shell]
	if !ok {
		logger.Warn("[WARN] Unknown shell %q, defaulting to .zshrc\n", shell)
		rc = ".zshrc"
	}
	return filepath.Join(usr.HomeDir, rc), nil
}

// Write appends the rendered alias lines to the rc file, skipping lines
// already present so repeated runs stay idempotent. Returns the number of
// lines added.
func Write(rcPath string, tools []config.Tool, self string) (int, error) {
	existing := make(map[string]bool)
	if f, err := os.Open(rcPath); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			existing[strings.TrimSpace(scanner.Text())] = true
		}
		_ = f.Close()
	}

	f, err := os.OpenFile(rcPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("open %s for appending: %w", rcPath, err)
	}
	defer f.Close()

	added := 0
	for _, line := range Render(tools, self) {
		if existing[line] {
			logger.Debug("[DEBUG] Alias already present: %s\n", line)
			continue
		}
		if _, err := f.WriteString(line + "\n"); err != nil {
			return added, fmt.Errorf("write alias %q: %w", line, err)
		}
		existing[line] = true
		added++
	}
	return added, nil
}
