package probe

import (
	"errors"
	"os/exec"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// countingProber returns a Prober that reports the given names as present
// and counts how many real probes were performed.
func countingProber(present map[string]string, calls *int32) Prober {
	return func(name string) (string, error) {
		atomic.AddInt32(calls, 1)
		if path, ok := present[name]; ok {
			return path, nil
		}
		return "", errors.New("executable file not found in $PATH")
	}
}

func TestIsAvailable_MemoizesProbe(t *testing.T) {
	var calls int32
	c := New(countingProber(map[string]string{"gitX": "/usr/local/bin/gitX"}, &calls), 0)

	if !c.IsAvailable("gitX") {
		t.Fatal("IsAvailable(gitX) = false, want true")
	}
	if !c.IsAvailable("gitX") {
		t.Fatal("second IsAvailable(gitX) = false, want true")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("probe calls = %d, want 1 (memoization contract)", got)
	}
}

func TestIsAvailable_AbsentToolIsFalseNotError(t *testing.T) {
	var calls int32
	c := New(countingProber(nil, &calls), 0)

	if c.IsAvailable("nope-tool") {
		t.Error("IsAvailable(nope-tool) = true, want false")
	}
	// Absence is cached the same way as presence.
	if c.IsAvailable("nope-tool") {
		t.Error("second IsAvailable(nope-tool) = true, want false")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("probe calls = %d, want 1", got)
	}
}

func TestSetOverride_BypassesProbe(t *testing.T) {
	var calls int32
	c := New(countingProber(map[string]string{"docker": "/usr/bin/docker"}, &calls), 0)

	c.SetOverride("docker", false)
	if c.IsAvailable("docker") {
		t.Error("IsAvailable(docker) = true despite SetOverride(docker, false)")
	}
	c.SetOverride("phantom", true)
	if !c.IsAvailable("phantom") {
		t.Error("IsAvailable(phantom) = false despite SetOverride(phantom, true)")
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("probe calls = %d, want 0 (overrides bypass the prober)", got)
	}
}

func TestClearOverride_RestoresRealProbe(t *testing.T) {
	var calls int32
	c := New(countingProber(map[string]string{"docker": "/usr/bin/docker"}, &calls), 0)

	c.SetOverride("docker", false)
	if c.IsAvailable("docker") {
		t.Fatal("override not honored")
	}
	c.ClearOverride("docker")
	if !c.IsAvailable("docker") {
		t.Error("IsAvailable(docker) = false after ClearOverride, want true from real probe")
	}
}

func TestInvalidate_AllowsValueToChange(t *testing.T) {
	present := map[string]string{}
	var calls int32
	c := New(countingProber(present, &calls), 0)

	if c.IsAvailable("rg") {
		t.Fatal("rg should start unavailable")
	}

	// Simulate the tool being installed mid-run.
	present["rg"] = "/usr/local/bin/rg"
	if c.IsAvailable("rg") {
		t.Fatal("cached value changed without Invalidate")
	}
	c.Invalidate("rg")
	if !c.IsAvailable("rg") {
		t.Error("IsAvailable(rg) = false after install + Invalidate, want true")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("probe calls = %d, want 2 (one per invalidation epoch)", got)
	}
}

func TestOverrideThenInvalidateThenStubbedProbe(t *testing.T) {
	// Force docker off, invalidate, then observe the (stubbed) real probe
	// saying yes. Invalidation alone must drop the override: it returns
	// the whole entry, forced value included, to unknown.
	var calls int32
	c := New(countingProber(map[string]string{"docker": "/usr/bin/docker"}, &calls), 0)

	c.SetOverride("docker", false)
	if c.IsAvailable("docker") {
		t.Fatal("override to false not honored")
	}
	c.Invalidate("docker")
	if !c.IsAvailable("docker") {
		t.Error("IsAvailable(docker) = false after Invalidate, want true from stubbed probe")
	}
}

func TestInvalidateAll_DropsOverrides(t *testing.T) {
	var calls int32
	c := New(countingProber(map[string]string{"docker": "/usr/bin/docker"}, &calls), 0)

	c.SetOverride("docker", false)
	c.SetOverride("ghost", true)
	c.InvalidateAll()

	if !c.IsAvailable("docker") {
		t.Error("IsAvailable(docker) = false after InvalidateAll, want true from real probe")
	}
	if c.IsAvailable("ghost") {
		t.Error("IsAvailable(ghost) = true after InvalidateAll, want false from real probe")
	}
}

func TestInvalidateAll_ResetsEveryEntry(t *testing.T) {
	var calls int32
	c := New(countingProber(map[string]string{"a": "/bin/a", "b": "/bin/b"}, &calls), 0)

	c.IsAvailable("a")
	c.IsAvailable("b")
	c.IsAvailable("missing")
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("probe calls = %d, want 3", got)
	}

	c.InvalidateAll()
	c.IsAvailable("a")
	c.IsAvailable("b")
	c.IsAvailable("missing")
	if got := atomic.LoadInt32(&calls); got != 6 {
		t.Errorf("probe calls after InvalidateAll = %d, want 6", got)
	}
}

func TestConcurrentFirstAccess_SingleProbe(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	c := New(func(name string) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "/usr/bin/" + name, nil
	}, 0)

	const n = 16
	var wg sync.WaitGroup
	results := make([]bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.IsAvailable("kubectl")
		}(i)
	}
	// Let the racers pile up on the entry before the probe completes.
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("probe calls = %d, want 1 under concurrent first access", got)
	}
	for i, r := range results {
		if !r {
			t.Errorf("caller %d got false, want true", i)
		}
	}
}

func TestTTL_ExpiredEntryReprobes(t *testing.T) {
	var calls int32
	c := New(countingProber(map[string]string{"go": "/usr/local/go/bin/go"}, &calls), time.Hour)

	base := time.Now()
	c.now = func() time.Time { return base }

	c.IsAvailable("go")
	c.IsAvailable("go")
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("probe calls = %d, want 1 before expiry", got)
	}

	c.now = func() time.Time { return base.Add(2 * time.Hour) }
	c.IsAvailable("go")
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("probe calls = %d, want 2 after ttl expiry", got)
	}
}

func TestLookup_CarriesHintAndPath(t *testing.T) {
	var calls int32
	c := New(countingProber(map[string]string{"jq": "/opt/homebrew/bin/jq"}, &calls), 0)
	c.SetInstallHint("jq", "brew install jq")
	c.SetInstallHint("fzf", "brew install fzf")

	rec := c.Lookup("jq")
	if !rec.Available || rec.Path != "/opt/homebrew/bin/jq" {
		t.Errorf("Lookup(jq) = %+v, want available at /opt/homebrew/bin/jq", rec)
	}
	if rec.InstallHint != "brew install jq" {
		t.Errorf("Lookup(jq).InstallHint = %q, want %q", rec.InstallHint, "brew install jq")
	}
	if rec.ResolvedAt.IsZero() {
		t.Error("Lookup(jq).ResolvedAt is zero, want probe timestamp")
	}

	rec = c.Lookup("fzf")
	if rec.Available {
		t.Error("Lookup(fzf).Available = true, want false")
	}
	if rec.InstallHint != "brew install fzf" {
		t.Errorf("Lookup(fzf).InstallHint = %q, want %q", rec.InstallHint, "brew install fzf")
	}
}

func TestSnapshotAndSeed_RoundTrip(t *testing.T) {
	var calls int32
	c := New(countingProber(map[string]string{"bat": "/usr/bin/bat"}, &calls), time.Hour)
	c.SetInstallHint("bat", "brew install bat")
	c.IsAvailable("bat")
	c.IsAvailable("eza")

	snap := c.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot() len = %d, want 2", len(snap))
	}
	// Sorted by name.
	if snap[0].Name != "bat" || snap[1].Name != "eza" {
		t.Errorf("Snapshot() order = [%s %s], want [bat eza]", snap[0].Name, snap[1].Name)
	}

	var calls2 int32
	fresh := New(countingProber(nil, &calls2), time.Hour)
	fresh.Seed(snap)
	if !fresh.IsAvailable("bat") {
		t.Error("seeded cache lost bat availability")
	}
	if fresh.IsAvailable("eza") {
		t.Error("seeded cache reports eza available, want false")
	}
	if got := atomic.LoadInt32(&calls2); got != 0 {
		t.Errorf("probe calls on seeded cache = %d, want 0", got)
	}
}

func TestSeed_SkipsStaleRecords(t *testing.T) {
	var calls int32
	c := New(countingProber(map[string]string{"node": "/usr/bin/node"}, &calls), time.Hour)

	c.Seed([]Record{{
		Name:       "node",
		Available:  false,
		ResolvedAt: time.Now().Add(-2 * time.Hour),
	}})
	if !c.IsAvailable("node") {
		t.Error("stale seeded record masked a freshly installed tool")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("probe calls = %d, want 1 (stale record discarded)", got)
	}
}

func TestSeed_NoOpWithoutTTL(t *testing.T) {
	var calls int32
	c := New(countingProber(nil, &calls), 0)
	c.Seed([]Record{{Name: "deno", Available: true, ResolvedAt: time.Now()}})

	if c.IsAvailable("deno") {
		t.Error("process-scoped cache accepted a persisted record")
	}
}

func TestDefaultProber_RealPath(t *testing.T) {
	// Find a tool that exists on any reasonable host, invowk-style.
	var existing string
	for _, tool := range []string{"sh", "ls", "cat", "cmd"} {
		if _, err := exec.LookPath(tool); err == nil {
			existing = tool
			break
		}
	}
	if existing == "" {
		t.Skip("no common tools found in PATH")
	}

	c := New(nil, 0)
	if !c.IsAvailable(existing) {
		t.Errorf("IsAvailable(%s) = false, want true", existing)
	}
	if c.IsAvailable("definitely-not-a-real-tool-name-shimbox") {
		t.Error("nonexistent tool reported available")
	}
}
