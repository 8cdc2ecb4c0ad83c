package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// diskCacheSchemaVersion guards against decoding a payload written by an
// older, incompatible DiskPayload shape.
const diskCacheSchemaVersion uint16 = 1

// DiskCache persists one rendered unit per AST-document content hash, so a
// repeat transpile-dir run skips units whose input bytes are unchanged.
// Grounded on the teacher's driver/dcache.go: same atomic-rename write
// path, same hex-digest subdirectory layout, same "nil receiver is a
// no-op" convention so a caller that didn't open a cache can still call
// Put/Get unconditionally.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is what one cache entry stores: the rendered output plus
// enough of the run's outcome to decide whether to trust it without
// re-running the pipeline.
// DiskPayload does not carry the run's diagnostics: they are one run's
// transient debug output, not a build artifact worth round-tripping
// through msgpack, so a cache hit reports Clean but an empty Bag.
type DiskPayload struct {
	Schema uint16
	Path   string
	Output string
	Clean  bool
}

// OpenDiskCache opens (creating if needed) the on-disk cache under the
// user's cache directory, namespaced by app.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key [32]byte) string {
	return filepath.Join(c.dir, "units", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and atomically writes payload under key.
func (c *DiskCache) Put(key [32]byte, payload *DiskPayload) error {
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
	defer os.Remove(tmp)

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get reads and deserializes the entry at key, reporting whether one
// existed.
func (c *DiskCache) Get(key [32]byte, out *DiskPayload) (bool, error) {
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
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}
