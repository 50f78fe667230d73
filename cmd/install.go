package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shimbox/internal/installer"
	"shimbox/internal/logger"
)

// newInstallCmd installs one or more catalog tools, or everything missing
// with --missing. Failures are logged per tool so one broken install does
// not block the rest, matching the CLI's degrade-gracefully rule.
func newInstallCmd(a *App) *cobra.Command {
	var missingOnly bool

	cmd := &cobra.Command{
		Use:   "install [tool...]",
		Short: "Install configured tools that are not yet available",
		RunE: func(cmd *cobra.Command, args []string) error {
			inst := installer.New(a.Cache, a.State)

			var targets []string
			switch {
			case missingOnly:
				for _, t := range a.Registry.Missing() {
					targets = append(targets, t.Name)
				}
				if len(targets) == 0 {
					logger.Info("[INFO] Nothing to do: all configured tools are available.\n")
					return nil
				}
			case len(args) > 0:
				targets = args
			default:
				return fmt.Errorf("name tools to install or pass --missing")
			}

			failed := 0
			for _, name := range targets {
				tool, ok := a.Registry.Get(name)
				if !ok {
					logger.Error("[ERROR] %s is not in the tool catalog\n", name)
					failed++
					continue
				}
				if a.Cache.IsAvailable(tool.Binary()) && !missingOnly {
					logger.Info("[INFO] %s is already available. Skipping.\n", name)
					continue
				}
				if err := inst.Install(tool); err != nil {
					logger.Error("[ERROR] Failed to install %s: %v\n", name, err)
					failed++
					continue
				}
				logger.Info("[INFO] Installed %s\n", name)
			}

			a.saveState()
			if failed > 0 {
				return fmt.Errorf("%d of %d installs failed", failed, len(targets))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&missingOnly, "missing", false, "Install every configured tool that is currently unavailable")
	return cmd
}

// newUninstallCmd removes tools that shimbox itself installed.
func newUninstallCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <tool>",
		Short: "Remove a tool previously installed by shimbox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst := installer.New(a.Cache, a.State)
			if err := inst.Uninstall(args[0]); err != nil {
				return err
			}
			a.saveState()
			return nil
		},
	}
}
