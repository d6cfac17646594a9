package astcache_test

import (
	"path/filepath"
	"testing"

	"cfront/internal/astcache"
	"cfront/internal/diag"
	"cfront/internal/source"
)

func openTestCache(t *testing.T) *astcache.Cache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c, err := astcache.Open("cfront-test")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return c
}

func TestCache_PutGetRoundTrip(t *testing.T) {
	c := openTestCache(t)

	hash := [32]byte{1, 2, 3}
	bag := diag.NewBag(16)
	bag.Add(&diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynUnresolvedIdentifier,
		Message:  "unresolved identifier 'x'",
		Primary:  source.Span{File: 7, Start: 10, End: 11},
		Notes:    []diag.Note{{Span: source.Span{File: 7, Start: 0, End: 3}, Msg: "declared here"}},
	})

	if err := c.Put(hash, bag); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, ok, err := c.Get(hash)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected a cache hit")
	}
	if len(entry.Diagnostics) != 1 {
		t.Fatalf("expected 1 cached diagnostic, got %d", len(entry.Diagnostics))
	}

	// Rehydrate against a different FileID than the one the diagnostic was
	// originally raised under: spans must be re-anchored, not preserved.
	rehydrated := entry.Rehydrate(source.FileID(99), 16)
	items := rehydrated.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 rehydrated diagnostic, got %d", len(items))
	}
	if items[0].Primary.File != 99 {
		t.Fatalf("expected rehydrated span to use the new FileID, got %d", items[0].Primary.File)
	}
	if items[0].Primary.Start != 10 || items[0].Primary.End != 11 {
		t.Fatalf("expected byte offsets to survive rehydration, got %+v", items[0].Primary)
	}
	if items[0].Message != "unresolved identifier 'x'" {
		t.Fatalf("unexpected message: %q", items[0].Message)
	}
	if len(items[0].Notes) != 1 || items[0].Notes[0].Span.File != 99 {
		t.Fatalf("expected note span to be re-anchored too, got %+v", items[0].Notes)
	}
}

func TestCache_GetMissWhenAbsent(t *testing.T) {
	c := openTestCache(t)

	_, ok, err := c.Get([32]byte{9, 9, 9})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expected a miss for a hash never written")
	}
}

func TestCache_NilCacheIsNoop(t *testing.T) {
	var c *astcache.Cache

	if err := c.Put([32]byte{1}, diag.NewBag(4)); err != nil {
		t.Fatalf("Put on nil cache should be a no-op, got: %v", err)
	}
	_, ok, err := c.Get([32]byte{1})
	if err != nil {
		t.Fatalf("Get on nil cache should be a no-op, got: %v", err)
	}
	if ok {
		t.Fatalf("expected a nil cache to always miss")
	}
}

func TestCache_FilesAreNamespacedByApp(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)

	c, err := astcache.Open("cfront-test")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	hash := [32]byte{5}
	if err := c.Put(hash, diag.NewBag(4)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(home, "cfront-test", "parsecache", "*.mp"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 cache file on disk, got %d: %v", len(matches), matches)
	}
}
