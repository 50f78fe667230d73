package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shimbox/internal/logger"
	"shimbox/internal/registry"
)

// addWrapperCommands registers one subcommand per configured wrapper. Every
// wrapper is registered whether or not its tool is currently available, so
// help output is stable; a missing tool fails at call time with its install
// hint and exit code 127.
func addWrapperCommands(root *cobra.Command, a *App) {
	for _, w := range a.Registry.Wrappers() {
		root.AddCommand(newWrapperCmd(a, w))
	}
}

func newWrapperCmd(a *App, w registry.Wrapper) *cobra.Command {
	short := fmt.Sprintf("Run %s", w.Tool.Binary())
	if len(w.PresetArgs) > 0 {
		short = fmt.Sprintf("Run %s %s", w.Tool.Binary(), strings.Join(w.PresetArgs, " "))
	}

	return &cobra.Command{
		Use:   w.Name + " [args...]",
		Short: short,
		// Everything after the wrapper name belongs to the wrapped tool,
		// including flags.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := a.Registry.Run(cmd.Context(), w, args)
			a.exitCode = code

			var missing *registry.MissingToolError
			if errors.As(err, &missing) {
				logger.Error("[ERROR] %s is not installed.\n", missing.Executable)
				if missing.InstallHint != "" {
					logger.Info("[INFO] Install it with: %s\n", missing.InstallHint)
					logger.Info("[INFO] Or run: shimbox install %s\n", w.Tool.Name)
				}
				// Reported here in full; don't let cobra re-print it.
				return nil
			}
			return err
		},
	}
}
