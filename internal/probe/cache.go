package probe

import (
	"sort"
	"sync"
	"time"
)

// Record is the cached outcome of one availability probe.
type Record struct {
	Name        string    `json:"name"`
	Available   bool      `json:"available"`
	Path        string    `json:"path,omitempty"`
	InstallHint string    `json:"install_hint,omitempty"`
	ResolvedAt  time.Time `json:"resolved_at"`
}

// entry is one per-name cache slot. The ready channel is closed once the
// probe has run and the result fields are populated; readers must receive
// from ready before touching available/path/resolvedAt.
type entry struct {
	ready      chan struct{}
	available  bool
	path       string
	resolvedAt time.Time
}

// done reports whether the probe for this entry has completed. Must be
// called with the cache mutex held.
func (e *entry) done() bool {
	select {
	case <-e.ready:
		return true
	default:
		return false
	}
}

// Cache answers "is executable X runnable right now" with memoization.
//
// Each name is probed at most once per invalidation epoch, even under
// concurrent first access: the first caller creates the entry and runs the
// probe while later callers block on the entry's ready channel. Probes never
// run while the map lock is held.
//
// Overrides are a deterministic test seam consulted before both the cached
// entries and the real prober, so tests can simulate tool presence or
// absence without touching the host PATH.
//
// A Cache is constructed explicitly and passed to whoever needs it; there is
// no package-level instance.
type Cache struct {
	mu        sync.Mutex
	prober    Prober
	ttl       time.Duration
	now       func() time.Time
	entries   map[string]*entry
	overrides map[string]bool
	hints     map[string]string
}

// New creates a cache backed by the given prober. A nil prober defaults to
// LookPath. A ttl of zero memoizes for the lifetime of the cache; a positive
// ttl makes entries expire and re-probe lazily on the next lookup.
func New(prober Prober, ttl time.Duration) *Cache {
	if prober == nil {
		prober = LookPath
	}
	return &Cache{
		prober:    prober,
		ttl:       ttl,
		now:       time.Now,
		entries:   make(map[string]*entry),
		overrides: make(map[string]bool),
		hints:     make(map[string]string),
	}
}

// IsAvailable reports whether name resolves to a runnable executable.
// Absence is a normal outcome, not an error; probe failures of any kind
// yield false.
func (c *Cache) IsAvailable(name string) bool {
	e, ok := c.override(name)
	if ok {
		return e
	}
	ent := c.acquire(name)
	<-ent.ready
	return ent.available
}

// Lookup returns the full availability record for name, probing on a miss.
// The install hint is attached from the hint table regardless of whether
// the value came from an override, a cached entry, or a fresh probe.
func (c *Cache) Lookup(name string) Record {
	if v, ok := c.override(name); ok {
		c.mu.Lock()
		hint := c.hints[name]
		c.mu.Unlock()
		return Record{Name: name, Available: v, InstallHint: hint}
	}
	ent := c.acquire(name)
	<-ent.ready

	c.mu.Lock()
	hint := c.hints[name]
	c.mu.Unlock()
	return Record{
		Name:        name,
		Available:   ent.available,
		Path:        ent.path,
		InstallHint: hint,
		ResolvedAt:  ent.resolvedAt,
	}
}

// override returns the forced value for name, if one is set.
func (c *Cache) override(name string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.overrides[name]
	return v, ok
}

// acquire returns the live entry for name, creating one (and running the
// probe) if the slot is empty or expired. Exactly one goroutine runs the
// probe for a given entry; everyone else waits on ready.
func (c *Cache) acquire(name string) *entry {
	c.mu.Lock()
	ent := c.entries[name]
	if ent != nil && c.expired(ent) {
		ent = nil
	}
	if ent != nil {
		c.mu.Unlock()
		return ent
	}
	ent = &entry{ready: make(chan struct{})}
	c.entries[name] = ent
	c.mu.Unlock()

	path, err := c.prober(name)
	ent.available = err == nil
	if err == nil {
		ent.path = path
	}
	ent.resolvedAt = c.now()
	close(ent.ready)
	return ent
}

// expired reports whether a completed entry has outlived the ttl. Entries
// still being probed never expire. Must be called with the mutex held.
func (c *Cache) expired(e *entry) bool {
	if c.ttl <= 0 || !e.done() {
		return false
	}
	return c.now().Sub(e.resolvedAt) > c.ttl
}

// Invalidate returns the entry for name to unknown: the cached probe result
// and any override are dropped, so the next lookup runs a real probe. Used
// after installing or removing a tool mid-run.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
	delete(c.overrides, name)
}

// InvalidateAll returns every entry to unknown, overrides included.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.overrides = make(map[string]bool)
}

// SetOverride forces IsAvailable(name) to return available, bypassing both
// the cache and the real prober until the override is cleared.
func (c *Cache) SetOverride(name string, available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overrides[name] = available
}

// ClearOverride removes the forced value for name.
func (c *Cache) ClearOverride(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.overrides, name)
}

// ClearOverrides removes every forced value.
func (c *Cache) ClearOverrides() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overrides = make(map[string]bool)
}

// SetInstallHint records the install suggestion surfaced when name turns
// out to be unavailable.
func (c *Cache) SetInstallHint(name, hint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hints[name] = hint
}

// Snapshot exports every completed entry as a Record, sorted by name, so
// probe results can be persisted between runs. Entries still in flight and
// overrides are not included.
func (c *Cache) Snapshot() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]Record, 0, len(c.entries))
	for name, e := range c.entries {
		if !e.done() {
			continue
		}
		records = append(records, Record{
			Name:        name,
			Available:   e.available,
			Path:        e.path,
			InstallHint: c.hints[name],
			ResolvedAt:  e.resolvedAt,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records
}

// Seed pre-populates the cache from previously persisted records. Records
// older than the ttl are skipped so a stale state file never masks a tool
// that has since been installed or removed. With a zero ttl the cache is
// process-scoped and Seed is a no-op. Existing live entries win over seeded
// ones.
func (c *Cache) Seed(records []Record) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		if r.Name == "" {
			continue
		}
		if c.now().Sub(r.ResolvedAt) > c.ttl {
			continue
		}
		if _, ok := c.entries[r.Name]; ok {
			continue
		}
		e := &entry{
			ready:      make(chan struct{}),
			available:  r.Available,
			path:       r.Path,
			resolvedAt: r.ResolvedAt,
		}
		close(e.ready)
		c.entries[r.Name] = e
		if r.InstallHint != "" {
			if _, ok := c.hints[r.Name]; !ok {
				c.hints[r.Name] = r.InstallHint
			}
		}
	}
}
