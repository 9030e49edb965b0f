// Package memalloc implements the physical memory allocator that backs
// process admission.
package memalloc

import (
	"errors"

	"github.com/minoslab/minos/proc"
)

// ErrInsufficientMemory is returned when a request exceeds the
// currently available capacity.
var ErrInsufficientMemory = errors.New("insufficient memory")

// A Block is one live entry of the allocation ledger.
type Block struct {
	Size  uint64
	Owner proc.PID
}

// Status reports the capacity accounting of the allocator.
type Status struct {
	Total        uint64  `json:"total"`
	Available    uint64  `json:"available"`
	Used         uint64  `json:"used"`
	UsagePercent float64 `json:"usage_percent"`
}

// An Allocator is a bump-pointer allocator over a fixed-size physical
// pool. Freed space grows the available capacity but the address cursor
// never rewinds, so addresses are monotonic and never reused for the
// lifetime of the allocator.
type Allocator struct {
	total     uint64
	available uint64
	nextAddr  uint64
	blocks    map[uint64]Block
}

// New creates an Allocator managing the given total capacity.
func New(total uint64) *Allocator {
	return &Allocator{
		total:     total,
		available: total,
		blocks:    make(map[uint64]Block),
	}
}

// Allocate reserves size units for the owner and returns the base
// address of the span.
func (a *Allocator) Allocate(size uint64, owner proc.PID) (uint64, error) {
	if size > a.available {
		return 0, ErrInsufficientMemory
	}

	addr := a.nextAddr
	a.blocks[addr] = Block{Size: size, Owner: owner}
	a.available -= size
	a.nextAddr += size

	return addr, nil
}

// Deallocate releases the span at the given base address. The return
// value indicates whether a ledger entry was found.
func (a *Allocator) Deallocate(addr uint64) bool {
	block, found := a.blocks[addr]
	if !found {
		return false
	}

	delete(a.blocks, addr)
	a.available += block.Size

	return true
}

// Status returns the capacity accounting of the allocator.
func (a *Allocator) Status() Status {
	used := a.total - a.available

	return Status{
		Total:        a.total,
		Available:    a.available,
		Used:         used,
		UsagePercent: float64(used) / float64(a.total) * 100,
	}
}

// Available returns the capacity currently available for allocation.
func (a *Allocator) Available() uint64 {
	return a.available
}
