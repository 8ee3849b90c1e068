// Package framecache implements the bounded frame cache that sits
// between the file driver and the bus protocol engine.
//
// The cache tracks write recency, not access recency: Upsert moves an
// entry to the most-recent position, while Lookup never reorders
// anything. Eviction always removes the entry that has gone the
// longest without being written.
package framecache

import (
	"github.com/ChloapSoap/blocksim/bus"
)

// A Cache is a bounded store of the most recently written storage
// frames, keyed by store ID and frame index.
type Cache interface {
	// Lookup returns a copy of the cached content of a frame. It is a
	// pure read and does not change the eviction order.
	Lookup(storeID uint8, frameIndex uint16) ([]byte, bool)

	// Upsert inserts or overwrites the content of a frame and marks it
	// most recently written, evicting the least recently written entry
	// when the cache is full.
	Upsert(storeID uint8, frameIndex uint16, content []byte)

	// Len returns the number of entries currently held.
	Len() int

	// Capacity returns the maximum number of entries.
	Capacity() int

	// Reset releases all entries.
	Reset()
}

// NewCache creates a cache that holds at most capacity frames.
func NewCache(capacity int) Cache {
	if capacity <= 0 {
		panic("frame cache capacity must be positive")
	}

	c := &cacheImpl{capacity: capacity}
	c.Reset()

	return c
}

// An entry associates one frame with its content. Entries form a
// doubly linked list ordered by write recency, head being the most
// recently written.
type entry struct {
	storeID    uint8
	frameIndex uint16
	content    []byte
	prev, next *entry
}

type cacheImpl struct {
	capacity int

	// Entries are matched by frame index alone. The store ID is
	// recorded but does not participate in matching: the driver only
	// ever exercises one store, and frame indices are unique within
	// it.
	entries map[uint16]*entry

	head, tail *entry
}

func (c *cacheImpl) Lookup(storeID uint8, frameIndex uint16) ([]byte, bool) {
	e, ok := c.entries[frameIndex]
	if !ok {
		return nil, false
	}

	content := make([]byte, len(e.content))
	copy(content, e.content)

	return content, true
}

func (c *cacheImpl) Upsert(storeID uint8, frameIndex uint16, content []byte) {
	if e, ok := c.entries[frameIndex]; ok {
		e.storeID = storeID
		copy(e.content, content)
		c.moveToFront(e)

		return
	}

	if len(c.entries) < c.capacity {
		e := &entry{
			storeID:    storeID,
			frameIndex: frameIndex,
			content:    make([]byte, bus.FrameSize),
		}
		copy(e.content, content)

		c.entries[frameIndex] = e
		c.pushFront(e)

		return
	}

	// At capacity with a new key: reuse the least recently written
	// entry's slot for the new frame.
	e := c.tail
	c.detach(e)
	delete(c.entries, e.frameIndex)

	e.storeID = storeID
	e.frameIndex = frameIndex
	copy(e.content, content)

	c.entries[frameIndex] = e
	c.pushFront(e)
}

func (c *cacheImpl) Len() int {
	return len(c.entries)
}

func (c *cacheImpl) Capacity() int {
	return c.capacity
}

func (c *cacheImpl) Reset() {
	c.entries = make(map[uint16]*entry)
	c.head = nil
	c.tail = nil
}

func (c *cacheImpl) pushFront(e *entry) {
	e.prev = nil
	e.next = c.head

	if c.head != nil {
		c.head.prev = e
	}
	c.head = e

	if c.tail == nil {
		c.tail = e
	}
}

func (c *cacheImpl) detach(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}

	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}

	e.prev = nil
	e.next = nil
}

func (c *cacheImpl) moveToFront(e *entry) {
	if c.head == e {
		return
	}

	c.detach(e)
	c.pushFront(e)
}
