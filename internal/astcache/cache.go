// Package astcache is an on-disk cache of a translation unit's parse
// diagnostics, keyed by the SHA-256 hash of its source content (the same
// hash source.FileSet.Add already computes for every loaded file). The
// directory-mode `cfront diag` driver consults it before lexing/parsing a
// file: if the content hash matches a cached entry, the cached
// diagnostics are rehydrated against the file's current FileID instead of
// re-running the lexer and parser.
//
// A FileID itself is not portable across runs (FileSet numbering is
// assigned fresh every invocation), so only byte-offset spans and message
// text are persisted; Rehydrate re-anchors them at whatever FileID the
// caller's current FileSet assigned the content this run.
package astcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"cfront/internal/diag"
	"cfront/internal/source"
)

// schemaVersion guards against decoding an Entry written by an older,
// incompatible cfront build; bump it whenever Entry's shape changes.
const schemaVersion uint16 = 1

// Entry is the on-disk, portable projection of one file's diag.Bag.
type Entry struct {
	Schema      uint16
	ContentHash [32]byte
	Diagnostics []cachedDiagnostic
}

type cachedNote struct {
	Start uint32
	End   uint32
	Msg   string
}

type cachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []cachedNote
}

// Cache is a directory of msgpack-encoded Entry files, one per content
// hash, written atomically (temp file + rename), the same durability
// pattern the teacher's own module disk cache uses for its exported
// metadata.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open returns a Cache rooted at $XDG_CACHE_HOME/<app>/parsecache (or
// ~/.cache/<app>/parsecache), creating the directory if it does not
// already exist.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "parsecache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(hash [32]byte) string {
	return filepath.Join(c.dir, fmt.Sprintf("%x.mp", hash))
}

// Get looks up the cached Entry for contentHash. ok is false on a miss, a
// schema-version mismatch, or a hash collision the decoded entry itself
// disagrees with (all three are treated as a cold-cache condition, not an
// error: the caller just falls back to a real parse).
func (c *Cache) Get(contentHash [32]byte) (*Entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(contentHash))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() { _ = f.Close() }()

	var e Entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return nil, false, nil
	}
	if e.Schema != schemaVersion || e.ContentHash != contentHash {
		return nil, false, nil
	}
	return &e, true, nil
}

// Put writes bag's diagnostics to the cache under contentHash, replacing
// whatever entry (if any) was there before.
func (c *Cache) Put(contentHash [32]byte, bag *diag.Bag) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := Entry{Schema: schemaVersion, ContentHash: contentHash, Diagnostics: toCached(bag)}

	path := c.pathFor(contentHash)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	removed := false
	defer func() {
		if !removed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := msgpack.NewEncoder(tmp).Encode(&entry); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	removed = true
	return nil
}

func toCached(bag *diag.Bag) []cachedDiagnostic {
	items := bag.Items()
	out := make([]cachedDiagnostic, len(items))
	for i, d := range items {
		notes := make([]cachedNote, len(d.Notes))
		for j, n := range d.Notes {
			notes[j] = cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg}
		}
		out[i] = cachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Notes:    notes,
		}
	}
	return out
}

// Rehydrate rebuilds a diag.Bag from e, anchoring every cached byte-offset
// span at fileID: the FileID the caller's current FileSet assigned to
// this content, which will not in general equal the FileID recorded when
// the entry was written.
func (e *Entry) Rehydrate(fileID source.FileID, maxDiagnostics int) *diag.Bag {
	bag := diag.NewBag(maxDiagnostics)
	for _, cd := range e.Diagnostics {
		notes := make([]diag.Note, len(cd.Notes))
		for i, n := range cd.Notes {
			notes[i] = diag.Note{Span: source.Span{File: fileID, Start: n.Start, End: n.End}, Msg: n.Msg}
		}
		bag.Add(&diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  source.Span{File: fileID, Start: cd.Start, End: cd.End},
			Notes:    notes,
		})
	}
	return bag
}
