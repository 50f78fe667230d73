package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shimbox/internal/logger"
)

// newCacheCmd manages the availability cache: show persisted probe results,
// or clear one/all entries so the next lookup re-probes (e.g. after
// installing a tool by hand).
func newCacheCmd(a *App) *cobra.Command {
	cache := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the availability cache",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show cached availability records",
		RunE: func(cmd *cobra.Command, args []string) error {
			records := a.Cache.Snapshot()
			if len(records) == 0 {
				records = a.State.Probes
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "cache is empty")
				return nil
			}
			for _, r := range records {
				status := "missing"
				if r.Available {
					status = "available"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-9s resolved %s\n",
					r.Name, status, r.ResolvedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear [tool]",
		Short: "Clear cached availability for one tool, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				// Cache entries are keyed by executable, which can differ
				// from the catalog name (ripgrep -> rg).
				key := args[0]
				if tool, ok := a.Registry.Get(args[0]); ok {
					key = tool.Binary()
				}
				a.Cache.Invalidate(key)
				logger.Info("[INFO] Cleared cached availability for %s\n", key)
			} else {
				a.Cache.InvalidateAll()
				logger.Info("[INFO] Cleared all cached availability records\n")
			}
			a.saveState()
			return nil
		},
	}

	cache.AddCommand(show, clear)
	return cache
}
