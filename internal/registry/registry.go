package registry

import (
	"sort"

	"shimbox/internal/config"
	"shimbox/internal/probe"
)

// Wrapper is one callable command surface: either a tool's bare wrapper
// (forwarding every argument) or a preset alias (forwarding preset args
// followed by the caller's).
type Wrapper struct {
	Name       string      // command name exposed to the user
	Tool       config.Tool // owning catalog entry
	PresetArgs []string    // nil for the bare wrapper
}

// Registry binds the configured tool catalog to an availability cache.
// Every configured wrapper is registered regardless of tool presence;
// availability is decided at call time so help output stays stable and a
// missing tool degrades into an install hint instead of a vanished command.
type Registry struct {
	cache    *probe.Cache
	tools    []config.Tool
	wrappers map[string]Wrapper
}

// New builds a registry from the catalog and pushes each tool's install
// hint into the cache so lookups carry it.
func New(tools []config.Tool, cache *probe.Cache) *Registry {
	r := &Registry{
		cache:    cache,
		tools:    append([]config.Tool(nil), tools...),
		wrappers: make(map[string]Wrapper),
	}
	for _, t := range r.tools {
		if t.InstallHint != "" {
			cache.SetInstallHint(t.Binary(), t.InstallHint)
		}
		r.wrappers[t.Name] = Wrapper{Name: t.Name, Tool: t}
		for _, a := range t.Aliases {
			r.wrappers[a.Name] = Wrapper{Name: a.Name, Tool: t, PresetArgs: a.Args}
		}
	}
	return r
}

// Cache exposes the availability cache the registry was built with.
func (r *Registry) Cache() *probe.Cache { return r.cache }

// Tools returns the catalog sorted by name for deterministic output.
func (r *Registry) Tools() []config.Tool {
	tools := append([]config.Tool(nil), r.tools...)
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Get returns the catalog entry for a tool name.
func (r *Registry) Get(name string) (config.Tool, bool) {
	for _, t := range r.tools {
		if t.Name == name {
			return t, true
		}
	}
	return config.Tool{}, false
}

// Wrappers returns every registered wrapper sorted by name.
func (r *Registry) Wrappers() []Wrapper {
	ws := make([]Wrapper, 0, len(r.wrappers))
	for _, w := range r.wrappers {
		ws = append(ws, w)
	}
	sort.Slice(ws, func(i, j int) bool { return ws[i].Name < ws[j].Name })
	return ws
}

// Available returns the catalog entries whose executables resolve right now.
func (r *Registry) Available() []config.Tool {
	var out []config.Tool
	for _, t := range r.Tools() {
		if r.cache.IsAvailable(t.Binary()) {
			out = append(out, t)
		}
	}
	return out
}

// Missing returns the catalog entries whose executables do not resolve.
func (r *Registry) Missing() []config.Tool {
	var out []config.Tool
	for _, t := range r.Tools() {
		if !r.cache.IsAvailable(t.Binary()) {
			out = append(out, t)
		}
	}
	return out
}
