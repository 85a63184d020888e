package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"rill/internal/diag"
	"rill/internal/project"
	"rill/internal/source"
)

// verdictCacheSchema is bumped when the payload format changes; stale
// entries then simply miss.
const verdictCacheSchema uint16 = 1

// VerdictCache stores per-function validation verdicts on disk, keyed by a
// content digest. Thread-safe for concurrent access.
type VerdictCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenVerdictCache initializes a cache rooted at dir.
func OpenVerdictCache(dir string) (*VerdictCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &VerdictCache{dir: dir}, nil
}

// OpenDefaultVerdictCache places the cache at the standard user location.
func OpenDefaultVerdictCache(app string) (*VerdictCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenVerdictCache(filepath.Join(base, app))
}

func (c *VerdictCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "verdicts", hexKey+".mp")
}

// Put serializes and writes a payload, atomically replacing any previous
// entry for the key.
func (c *VerdictCache) Put(key project.Digest, payload *verdictPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, p)
}

// Get reads a payload for the key. The first result is false on a miss or a
// schema mismatch.
func (c *VerdictCache) Get(key project.Digest, out *verdictPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != verdictCacheSchema {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *VerdictCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

type cachedSpan struct {
	File  uint32
	Start uint32
	End   uint32
}

type cachedNote struct {
	Span cachedSpan
	Msg  string
}

type cachedEdit struct {
	Span    cachedSpan
	NewText string
}

type cachedFix struct {
	Title string
	Edits []cachedEdit
}

type cachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	Primary  cachedSpan
	Notes    []cachedNote
	Fixes    []cachedFix
}

// verdictPayload is the on-disk form of one function's diagnostics.
type verdictPayload struct {
	Schema uint16
	Diags  []cachedDiag
}

func spanToCached(s source.Span) cachedSpan {
	return cachedSpan{File: uint32(s.File), Start: s.Start, End: s.End}
}

func spanFromCached(s cachedSpan) source.Span {
	return source.Span{File: source.FileID(s.File), Start: s.Start, End: s.End}
}

// payloadFromBag captures a bag for caching.
func payloadFromBag(bag *diag.Bag) *verdictPayload {
	payload := &verdictPayload{
		Schema: verdictCacheSchema,
		Diags:  make([]cachedDiag, 0, bag.Len()),
	}
	for _, d := range bag.Items() {
		cd := cachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Primary:  spanToCached(d.Primary),
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{Span: spanToCached(n.Span), Msg: n.Msg})
		}
		for _, fx := range d.Fixes {
			cf := cachedFix{Title: fx.Title}
			for _, e := range fx.Edits {
				cf.Edits = append(cf.Edits, cachedEdit{Span: spanToCached(e.Span), NewText: e.NewText})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		payload.Diags = append(payload.Diags, cd)
	}
	return payload
}

// toBag replays a cached payload into a fresh bag.
func (p *verdictPayload) toBag(maxDiagnostics int) *diag.Bag {
	bag := diag.NewBag(maxDiagnostics)
	for _, cd := range p.Diags {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  spanFromCached(cd.Primary),
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: spanFromCached(n.Span), Msg: n.Msg})
		}
		for _, cf := range cd.Fixes {
			fx := diag.Fix{Title: cf.Title}
			for _, e := range cf.Edits {
				fx.Edits = append(fx.Edits, diag.FixEdit{Span: spanFromCached(e.Span), NewText: e.NewText})
			}
			d.Fixes = append(d.Fixes, fx)
		}
		bag.Add(d)
	}
	return bag
}
