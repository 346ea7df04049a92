package aggregate

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Increment when DiskPayload format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache persists per-file scan results across CLI runs, keyed by a
// content digest. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the serialized form of a DocumentTypes. Results depend
// on the effective bitness, so it is part of the payload and checked on
// load.
type DiskPayload struct {
	Schema       uint16
	SixtyFourBit bool

	Names  []string
	Kinds  []string
	Sizes  []int
	Aligns []int
	Sized  []bool
}

// OpenDiskCache initializes a disk cache at the standard location.
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

// OpenDiskCacheAt initializes a disk cache at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// ContentKey is the cache key for a file's content.
func ContentKey(content []byte) [32]byte {
	return sha256.Sum256(content)
}

func (c *DiskCache) pathFor(key [32]byte) string {
	return filepath.Join(c.dir, "docs", hex.EncodeToString(key[:])+".mp")
}

// Put serializes a scan result for the given content key.
func (c *DiskCache) Put(key [32]byte, types *DocumentTypes, sixtyFour bool) error {
	if c == nil || types == nil {
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
	payload := toDiskPayload(types, sixtyFour)
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	// atomic swap
	return os.Rename(tmp, p)
}

// Get loads a scan result for the given content key. A schema or
// bitness mismatch counts as a miss.
func (c *DiskCache) Get(key [32]byte, sixtyFour bool) (*DocumentTypes, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion || payload.SixtyFourBit != sixtyFour {
		return nil, false, nil
	}
	return fromDiskPayload(&payload), true, nil
}

func toDiskPayload(types *DocumentTypes, sixtyFour bool) *DiskPayload {
	payload := &DiskPayload{
		Schema:       diskCacheSchemaVersion,
		SixtyFourBit: sixtyFour,
	}
	for _, name := range types.order {
		rec := types.records[name]
		payload.Names = append(payload.Names, name)
		payload.Kinds = append(payload.Kinds, rec.kind)
		payload.Sizes = append(payload.Sizes, rec.size)
		payload.Aligns = append(payload.Aligns, rec.align)
		payload.Sized = append(payload.Sized, rec.sized)
	}
	return payload
}

func fromDiskPayload(payload *DiskPayload) *DocumentTypes {
	types := &DocumentTypes{records: make(map[string]record, len(payload.Names))}
	for i, name := range payload.Names {
		if i >= len(payload.Kinds) || i >= len(payload.Sizes) ||
			i >= len(payload.Aligns) || i >= len(payload.Sized) {
			break
		}
		types.order = append(types.order, name)
		types.records[name] = record{
			kind:  payload.Kinds[i],
			size:  payload.Sizes[i],
			align: payload.Aligns[i],
			sized: payload.Sized[i],
		}
	}
	return types
}
