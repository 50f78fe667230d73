package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"shimbox/internal/aliases"
	"shimbox/internal/logger"
)

// newAliasesCmd emits shell alias lines mapping the short wrapper names to
// shimbox invocations. Default is print-to-stdout for
// `eval "$(shimbox aliases)"`; --write appends to the shell rc file.
func newAliasesCmd(a *App) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "Emit shell aliases for the configured wrappers",
		RunE: func(cmd *cobra.Command, args []string) error {
			self, err := os.Executable()
			if err != nil {
				self = "shimbox"
			}

			if !write {
				return aliases.Print(cmd.OutOrStdout(), a.Registry.Tools(), self)
			}

			rcPath, err := aliases.RCPath(a.Config.Shell)
			if err != nil {
				return err
			}
			added, err := aliases.Write(rcPath, a.Registry.Tools(), self)
			if err != nil {
				return err
			}
			logger.Info("[INFO] Added %d aliases to %s\n", added, rcPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Append aliases to the shell rc file instead of printing")
	return cmd
}
