package aggregate

import (
	"crypto/sha256"
	"sync"

	"csize/internal/arch"
)

// Cache memoizes per-document scan results. Lookups are keyed by a
// document identity (a URI or path); results are recomputed lazily when
// the document content digest changes and dropped wholesale when the
// architecture configuration changes.
type Cache struct {
	mu   sync.Mutex
	docs map[string]cacheEntry
}

type cacheEntry struct {
	digest [32]byte
	types  *DocumentTypes
}

func NewCache() *Cache {
	return &Cache{docs: make(map[string]cacheEntry)}
}

// Get returns the scan result for the document, rescanning only when
// its content changed since the last call.
func (c *Cache) Get(doc, text string, resolver *arch.Resolver) *DocumentTypes {
	digest := sha256.Sum256([]byte(text))
	c.mu.Lock()
	entry, ok := c.docs[doc]
	c.mu.Unlock()
	if ok && entry.digest == digest {
		return entry.types
	}
	types := Scan(text, resolver)
	c.mu.Lock()
	c.docs[doc] = cacheEntry{digest: digest, types: types}
	c.mu.Unlock()
	return types
}

// Invalidate drops one document's cached result.
func (c *Cache) Invalidate(doc string) {
	c.mu.Lock()
	delete(c.docs, doc)
	c.mu.Unlock()
}

// InvalidateAll drops every cached result. Called on architecture
// configuration changes, which alter member layouts.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.docs = make(map[string]cacheEntry)
	c.mu.Unlock()
}
