// Package internal provides the definition required for defining TLB.
package internal

import (
	"fmt"

	"github.com/minoslab/minos/proc"
)

// A Key identifies one translation cached by the TLB.
type Key struct {
	PID  proc.PID
	Page int
}

// A Set holds a certain number of cached translations and maintains
// their LRU order.
type Set interface {
	Lookup(pid proc.PID, page int) bool
	Visit(pid proc.PID, page int)
	Add(pid proc.PID, page int)
	Evict() (key Key, ok bool)
	RemovePID(pid proc.PID) int
	Len() int
	Keys() []Key
	Reset()
}

// NewSet creates a new TLB set.
func NewSet() Set {
	s := &SetImpl{}
	s.Reset()

	return s
}

type block struct {
	key       Key
	lastVisit uint64
}

// SetImpl is the default implementation of a Set. The visit list orders
// the blocks from least to most recently used.
type SetImpl struct {
	blocks     map[string]*block
	visitList  []*block
	visitCount uint64
}

func (s *SetImpl) keyString(pid proc.PID, page int) string {
	return fmt.Sprintf("%d:%08x", pid, page)
}

// Lookup tells if the translation for (pid, page) is cached.
func (s *SetImpl) Lookup(pid proc.PID, page int) bool {
	_, found := s.blocks[s.keyString(pid, page)]
	return found
}

// Visit moves the block for (pid, page) to the most-recently-used end
// of the visit list.
func (s *SetImpl) Visit(pid proc.PID, page int) {
	b, found := s.blocks[s.keyString(pid, page)]
	if !found {
		return
	}

	for i, candidate := range s.visitList {
		if candidate == b {
			s.visitList = append(s.visitList[:i], s.visitList[i+1:]...)
			break
		}
	}

	s.visitCount++
	b.lastVisit = s.visitCount
	s.visitList = append(s.visitList, b)
}

// Add inserts the translation for (pid, page) as the most recently
// used. Adding a cached translation only refreshes its position.
func (s *SetImpl) Add(pid proc.PID, page int) {
	key := s.keyString(pid, page)
	if _, exists := s.blocks[key]; exists {
		s.Visit(pid, page)
		return
	}

	b := &block{key: Key{PID: pid, Page: page}}
	s.blocks[key] = b
	s.visitCount++
	b.lastVisit = s.visitCount
	s.visitList = append(s.visitList, b)
}

// Evict removes the least-recently-used block and returns its key. The
// ok return value is false when there is nothing to evict.
func (s *SetImpl) Evict() (Key, bool) {
	if len(s.visitList) == 0 {
		return Key{}, false
	}

	leastVisited := s.visitList[0]
	s.visitList = s.visitList[1:]
	delete(s.blocks, s.keyString(leastVisited.key.PID, leastVisited.key.Page))

	return leastVisited.key, true
}

// RemovePID drops every block that belongs to the process and returns
// how many were dropped.
func (s *SetImpl) RemovePID(pid proc.PID) int {
	removed := 0
	newList := make([]*block, 0, len(s.visitList))

	for _, b := range s.visitList {
		if b.key.PID == pid {
			delete(s.blocks, s.keyString(b.key.PID, b.key.Page))
			removed++
			continue
		}
		newList = append(newList, b)
	}

	s.visitList = newList

	return removed
}

// Len returns the number of cached translations.
func (s *SetImpl) Len() int {
	return len(s.visitList)
}

// Keys returns the cached keys ordered from least to most recently
// used.
func (s *SetImpl) Keys() []Key {
	keys := make([]Key, len(s.visitList))
	for i, b := range s.visitList {
		keys[i] = b.key
	}

	return keys
}

// Reset drops all the cached translations.
func (s *SetImpl) Reset() {
	s.blocks = make(map[string]*block)
	s.visitList = nil
	s.visitCount = 0
}
