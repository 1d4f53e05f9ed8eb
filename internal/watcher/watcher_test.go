package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"solidview/internal/cache"
	"solidview/internal/catalog"
	"solidview/internal/metrics"
)

// writeContent lays out a one-principle content tree in dir.
func writeContent(t *testing.T, dir, title string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "srp"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		catalog.ManifestFile: fmtManifest(title),
		"srp/Before.java":    "class Before {}\n",
		"srp/After.java":     "class After {}\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func fmtManifest(title string) string {
	return "heading: Test\nprinciples:\n  - id: srp\n    title: " + title +
		"\n    before: srp/Before.java\n    after: srp/After.java\n"
}

func newReloader(t *testing.T, dir string) (*Reloader, *catalog.Source, *cache.MemoryCache, *metrics.Metrics) {
	t.Helper()
	source := catalog.NewSource(catalog.Default())
	store := cache.NewMemoryCache(time.Minute)
	m := metrics.New()
	return NewReloader(dir, source, store, m), source, store, m
}

func title(t *testing.T, source *catalog.Source) string {
	t.Helper()
	c, _ := source.Current()
	rec, ok := c.First()
	if !ok {
		t.Fatal("catalog is empty")
	}
	return rec.Title
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "First")
	r, source, store, _ := newReloader(t, dir)

	store.Set(context.Background(), "stale", []byte("old page"))

	if err := r.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := title(t, source); got != "First" {
		t.Errorf("title: got %q, want %q", got, "First")
	}
	if _, v := source.Current(); v != 2 {
		t.Errorf("version: got %d, want 2", v)
	}
	if _, ok := store.Get(context.Background(), "stale"); ok {
		t.Error("page cache should be flushed after a reload")
	}

	c, _ := source.Current()
	rec, _ := c.FindByID("srp")
	if rec.Before != "class Before {}" {
		t.Errorf("Before: got %q", rec.Before)
	}
}

func TestReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "Good")
	r, source, _, m := newReloader(t, dir)

	if err := r.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, catalog.ManifestFile), []byte("principles: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(context.Background()); err == nil {
		t.Fatal("expected an error for a broken manifest")
	}

	if got := title(t, source); got != "Good" {
		t.Errorf("title: got %q, want the previous catalog", got)
	}
	if _, v := source.Current(); v != 2 {
		t.Errorf("version: got %d, want 2", v)
	}

	const want = `
# HELP solidview_catalog_reloads_total Catalog reload attempts by outcome (ok or error).
# TYPE solidview_catalog_reloads_total counter
solidview_catalog_reloads_total{outcome="error"} 1
solidview_catalog_reloads_total{outcome="ok"} 1
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), "solidview_catalog_reloads_total"); err != nil {
		t.Error(err)
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping filesystem watch test in short mode")
	}

	dir := t.TempDir()
	writeContent(t, dir, "Before edit")
	r, source, _, _ := newReloader(t, dir)
	r.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Watch(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()

	// Keep touching the manifest until the watcher is registered and the
	// reload lands.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		writeContent(t, dir, "After edit")
		time.Sleep(100 * time.Millisecond)
		if title(t, source) == "After edit" {
			return
		}
	}
	t.Fatalf("catalog was not reloaded, title is %q", title(t, source))
}

func TestWatchMissingDir(t *testing.T) {
	r, _, _, _ := newReloader(t, filepath.Join(t.TempDir(), "missing"))
	if err := r.Watch(context.Background()); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
