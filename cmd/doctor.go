package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shimbox/internal/logger"
)

// newDoctorCmd reports the availability of every catalog tool, with install
// hints for the missing ones, and persists the probe results.
func newDoctorCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check which configured tools are available",
		RunE: func(cmd *cobra.Command, args []string) error {
			tools := a.Registry.Tools()
			if len(tools) == 0 {
				logger.Warn("[WARN] No tools configured. Create %s or set SHIMBOX_CONFIG.\n", "shimbox.yaml")
				return nil
			}

			// Each row goes through the command writer in one piece so
			// redirected output never splits across streams.
			out := cmd.OutOrStdout()
			good := color.New(color.FgGreen).SprintfFunc()
			bad := color.New(color.FgRed).SprintfFunc()

			available, missing := 0, 0
			for _, t := range tools {
				rec := a.Cache.Lookup(t.Binary())
				if rec.Available {
					available++
					fmt.Fprintln(out, good("  ✓ %-14s %s", t.Name, rec.Path))
					continue
				}
				missing++
				if rec.InstallHint != "" {
					fmt.Fprintf(out, "%s  (try: %s)\n", bad("  ✗ %-14s missing", t.Name), rec.InstallHint)
				} else {
					fmt.Fprintln(out, bad("  ✗ %-14s missing", t.Name))
				}
			}
			fmt.Fprintf(out, "\n%d available, %d missing of %d configured tools\n",
				available, missing, len(tools))

			a.saveState()
			return nil
		},
	}
}

// newListCmd prints every registered wrapper and what it forwards to.
func newListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered wrapper commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, w := range a.Registry.Wrappers() {
				target := w.Tool.Binary()
				if len(w.PresetArgs) > 0 {
					for _, arg := range w.PresetArgs {
						target += " " + arg
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s -> %s\n", w.Name, target)
			}
			return nil
		},
	}
}
