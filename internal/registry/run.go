package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"shimbox/internal/logger"
)

// ExitCommandNotFound matches the shell convention for "command not found".
const ExitCommandNotFound = 127

// MissingToolError reports a wrapper invocation whose underlying tool is
// not runnable. The install hint, when configured, rides along so the CLI
// can surface it.
type MissingToolError struct {
	Wrapper     string
	Executable  string
	InstallHint string
}

func (e *MissingToolError) Error() string {
	if e.InstallHint != "" {
		return fmt.Sprintf("%s: %q is not available (try: %s)", e.Wrapper, e.Executable, e.InstallHint)
	}
	return fmt.Sprintf("%s: %q is not available", e.Wrapper, e.Executable)
}

// Run invokes the wrapper's executable with its preset arguments followed by
// args, inheriting the caller's stdio. The returned int is the exit code to
// propagate: the child's own code when it ran, ExitCommandNotFound when the
// tool is missing.
//
// Availability is consulted through the cache first so repeated wrapper
// calls in one process never re-scan PATH; a start failure that slips past
// a stale cache entry invalidates it.
func (r *Registry) Run(ctx context.Context, w Wrapper, args []string) (int, error) {
	bin := w.Tool.Binary()
	if !r.cache.IsAvailable(bin) {
		return ExitCommandNotFound, &MissingToolError{
			Wrapper:     w.Name,
			Executable:  bin,
			InstallHint: w.Tool.InstallHint,
		}
	}

	full := append(append([]string(nil), w.PresetArgs...), args...)
	logger.Debug("[DEBUG] Forwarding %s -> %s %v\n", w.Name, bin, full)

	cmd := exec.CommandContext(ctx, bin, full...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// The tool ran and failed; its exit code is the wrapper's exit code
		// and its own stderr already told the user why.
		return exitErr.ExitCode(), nil
	}

	// The tool never started (deleted since the probe, permission change).
	// Drop the stale cache entry so the next lookup re-probes.
	r.cache.Invalidate(bin)
	return ExitCommandNotFound, &MissingToolError{
		Wrapper:     w.Name,
		Executable:  bin,
		InstallHint: w.Tool.InstallHint,
	}
}
