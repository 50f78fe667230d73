package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"shimbox/internal/config"
	"shimbox/internal/logger"
	"shimbox/internal/probe"
	"shimbox/internal/registry"
	"shimbox/internal/state"
)

// App wires the pieces together: config catalog, availability cache,
// wrapper registry and persisted state. It is built once in Execute and
// passed to every subcommand constructor; nothing here is package-global.
type App struct {
	Config    config.Config
	Cache     *probe.Cache
	Registry  *registry.Registry
	State     *state.State
	StatePath string

	// exitCode carries a wrapped tool's exit status out of cobra, which
	// only understands errors.
	exitCode int
}

// newApp loads configuration and assembles the runtime pieces. A missing
// config file degrades to an empty catalog: management commands still work
// and explain what to do.
func newApp(configPath string) *App {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Warn("[WARN] No usable config at %s: %v\n", configPath, err)
		cfg = config.Config{}
	}

	cache := probe.New(nil, cfg.Cache.TTL.Std())
	statePath := state.DefaultPath()
	st := state.Load(statePath)
	// Persisted probe results only count when a TTL bounds their age.
	cache.Seed(st.Probes)

	return &App{
		Config:    cfg,
		Cache:     cache,
		Registry:  registry.New(cfg.Tools, cache),
		State:     st,
		StatePath: statePath,
	}
}

// saveState snapshots the availability cache into the state file so the
// next run starts warm (TTL permitting).
func (a *App) saveState() {
	a.State.Probes = a.Cache.Snapshot()
	state.Save(a.StatePath, a.State)
}

// newRootCmd builds the root command and registers management commands and
// one wrapper command per catalog entry.
func newRootCmd(a *App) *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:   "shimbox",
		Short: "Config-driven wrappers for external developer tools",
		Long: `shimbox manages a catalog of external CLI tools: it probes which ones are
runnable (memoized per run), exposes wrapper subcommands that forward to the
real binaries, surfaces install hints for missing tools and can install them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(debug)
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringP("config", "c", config.DefaultPath(), "Path to configuration file")

	root.AddCommand(newDoctorCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newInstallCmd(a))
	root.AddCommand(newUninstallCmd(a))
	root.AddCommand(newAliasesCmd(a))
	root.AddCommand(newCacheCmd(a))
	addWrapperCommands(root, a)

	return root
}

// resolveConfigPath pre-scans the raw arguments for --config/-c. Wrapper
// commands are registered from the config before cobra parses flags, so
// the path has to be known up front.
func resolveConfigPath(args []string) string {
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--config" || args[i] == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case len(args[i]) > len("--config=") && args[i][:len("--config=")] == "--config=":
			return args[i][len("--config="):]
		case len(args[i]) > len("-c=") && args[i][:len("-c=")] == "-c=":
			return args[i][len("-c="):]
		}
	}
	return config.DefaultPath()
}

// Execute is the CLI entry point. The return value is the process exit
// code: a wrapped tool's own exit status when a wrapper ran it, 127 when
// the tool is missing, 1 for shimbox's own failures.
func Execute() int {
	a := newApp(resolveConfigPath(os.Args[1:]))
	root := newRootCmd(a)

	if err := root.Execute(); err != nil {
		logger.Error("[ERROR] %v\n", err)
		if a.exitCode == 0 {
			a.exitCode = 1
		}
	}
	return a.exitCode
}
