// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"container/list"
	"encoding/json"
	"log"
	"sync"

	"github.com/geniehub/locator/spatial"
	"github.com/geniehub/locator/utils/textutils"
)

// GeocodeCache remembers resolved postal inputs on the device. Entries never
// expire; MaxEntries, when positive, evicts the least recently used ones.
//
// Storage problems never reach callers: an unreadable or corrupt blob reads
// as an empty cache and failed writes are logged and dropped.
type GeocodeCache struct {
	store      KeyValueStore
	key        string
	maxEntries int

	mu      sync.Mutex
	loaded  bool
	order   *list.List // front is most recent
	entries map[string]*list.Element
}

type cacheEntry struct {
	Key   string        `json:"key"`
	Point spatial.Point `json:"point"`
}

// NewGeocodeCache creates a cache persisted under key in store.
func NewGeocodeCache(store KeyValueStore, key string, maxEntries int) *GeocodeCache {
	return &GeocodeCache{
		store:      store,
		key:        key,
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

// Get returns the cached point for text, matching on the normalized form.
func (c *GeocodeCache) Get(text string) (spatial.Point, bool) {
	key := textutils.NormalizeKey(text)
	if key == "" {
		return spatial.Point{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.load()

	el, ok := c.entries[key]
	if !ok {
		return spatial.Point{}, false
	}

	c.order.MoveToFront(el)

	return el.Value.(*cacheEntry).Point, true
}

// Put stores p for text and persists the whole cache.
func (c *GeocodeCache) Put(text string, p spatial.Point) {
	key := textutils.NormalizeKey(text)
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.load()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).Point = p
		c.order.MoveToFront(el)
	} else {
		c.entries[key] = c.order.PushFront(&cacheEntry{Key: key, Point: p})
	}

	for c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).Key)
	}

	if c.loaded {
		c.persist()
	}
}

// Len returns the number of cached entries.
func (c *GeocodeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.load()

	return c.order.Len()
}

func (c *GeocodeCache) load() {
	if c.loaded {
		return
	}

	raw, ok, err := c.store.Get(c.key)
	if err != nil {
		// Left unloaded so a later call retries instead of overwriting the
		// stored entries.
		log.Printf("⚠️ geocode cache unreadable, starting empty: %v", err)

		return
	}

	c.loaded = true

	if !ok || raw == "" {
		return
	}

	var stored []cacheEntry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Printf("⚠️ geocode cache corrupt, starting empty: %v", err)

		return
	}

	// Stored most recent first.
	for _, e := range stored {
		key := textutils.NormalizeKey(e.Key)
		if key == "" || !e.Point.Valid() {
			continue
		}

		if _, dup := c.entries[key]; dup {
			continue
		}

		c.entries[key] = c.order.PushBack(&cacheEntry{Key: key, Point: e.Point})
	}
}

func (c *GeocodeCache) persist() {
	stored := make([]cacheEntry, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		stored = append(stored, *el.Value.(*cacheEntry))
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		log.Printf("⚠️ encoding geocode cache: %v", err)

		return
	}

	if err := c.store.Set(c.key, string(raw)); err != nil {
		log.Printf("⚠️ saving geocode cache: %v", err)
	}
}
