// Package tlb implements the translation lookaside buffer, a small
// LRU cache of recent (process, page) translations layered in front of
// the page tables. Its capacity and eviction order are independent of
// the frame pool.
package tlb

import (
	"fmt"

	"github.com/minoslab/minos/proc"
	"github.com/minoslab/minos/vm/tlb/internal"
)

// An Entry identifies one cached translation.
type Entry struct {
	PID  proc.PID `json:"pid"`
	Page int      `json:"page"`
}

// A Result is the outcome of one TLB access.
type Result struct {
	Hit     bool
	Evicted *Entry
	Message string
}

// Status reports the content and counters of the TLB.
type Status struct {
	Capacity int     `json:"capacity"`
	Size     int     `json:"size"`
	Entries  []Entry `json:"entries"`
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
}

// A TLB is a capacity-bounded translation cache with LRU replacement.
type TLB struct {
	capacity int
	set      internal.Set

	hits   uint64
	misses uint64
}

// Access looks the translation for (pid, page) up. A cached translation
// counts as a hit and becomes the most recently used. A missing one
// counts as a miss and is inserted, evicting the least-recently-used
// entry when the cache is full.
func (t *TLB) Access(pid proc.PID, page int) Result {
	if t.set.Lookup(pid, page) {
		t.set.Visit(pid, page)
		t.hits++

		return Result{
			Hit:     true,
			Message: fmt.Sprintf("TLB hit for pid %d, page %d", pid, page),
		}
	}

	t.misses++
	t.set.Add(pid, page)

	var evicted *Entry
	for t.set.Len() > t.capacity {
		key, ok := t.set.Evict()
		if !ok {
			break
		}
		evicted = &Entry{PID: key.PID, Page: key.Page}
	}

	message := fmt.Sprintf("TLB miss for pid %d, page %d", pid, page)
	if evicted != nil {
		message += fmt.Sprintf(", evicted pid %d, page %d",
			evicted.PID, evicted.Page)
	}

	return Result{Evicted: evicted, Message: message}
}

// SetCapacity changes the cache capacity, evicting least-recently-used
// entries immediately while the cache is over capacity. The capacity
// never drops below 1. The evicted entries are returned.
func (t *TLB) SetCapacity(n int) []Entry {
	if n < 1 {
		n = 1
	}

	t.capacity = n

	var evicted []Entry
	for t.set.Len() > t.capacity {
		key, ok := t.set.Evict()
		if !ok {
			break
		}
		evicted = append(evicted, Entry{PID: key.PID, Page: key.Page})
	}

	return evicted
}

// Invalidate drops every cached translation of the process and returns
// how many were dropped. The hit and miss counters are unaffected.
func (t *TLB) Invalidate(pid proc.PID) int {
	return t.set.RemovePID(pid)
}

// Reset clears all the entries and both counters.
func (t *TLB) Reset() {
	t.set.Reset()
	t.hits = 0
	t.misses = 0
}

// Status reports the content of the cache, ordered from least to most
// recently used, together with the counters.
func (t *TLB) Status() Status {
	keys := t.set.Keys()
	entries := make([]Entry, len(keys))
	for i, key := range keys {
		entries[i] = Entry{PID: key.PID, Page: key.Page}
	}

	return Status{
		Capacity: t.capacity,
		Size:     t.set.Len(),
		Entries:  entries,
		Hits:     t.hits,
		Misses:   t.misses,
	}
}
