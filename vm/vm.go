// Package vm implements the virtual memory manager: per-process page
// tables backed by a shared frame pool with global LRU eviction.
package vm

import (
	"errors"

	"github.com/minoslab/minos/proc"
)

// ErrUnknownProcess is returned when an access references a PID with no
// virtual space.
var ErrUnknownProcess = errors.New("process has no virtual space")

// ErrPageOutOfRange is returned when a page number is beyond the
// process's page count.
var ErrPageOutOfRange = errors.New("page number out of range")

// An EvictedPage identifies the (process, page) pair that lost its
// frame to an eviction.
type EvictedPage struct {
	PID  proc.PID
	Page int
}

// An Access is the outcome of resolving one page access.
type Access struct {
	Page    int
	Frame   int
	Fault   bool
	Evicted *EvictedPage
}

// Status reports the state of the frame pool.
type Status struct {
	PageSize    uint64 `json:"page_size"`
	FramesTotal int    `json:"frames_total"`
	FramesUsed  int    `json:"frames_used"`
	FramesFree  int    `json:"frames_free"`
	PageFaults  uint64 `json:"page_faults"`
}

type frameOwner struct {
	pid  proc.PID
	page int
}

type pageTable struct {
	numPages int
	mapping  map[int]int
	faults   uint64
}

// A Manager owns the page tables of all processes and the shared frame
// pool they compete for. A frame is either free or owned by exactly one
// (process, page) pair.
type Manager struct {
	pageSize   uint64
	numFrames  int
	freeFrames []int
	frameTable map[int]frameOwner
	pageTables map[proc.PID]*pageTable

	// lruQueue orders the used frames from least to most recently
	// accessed, across all processes.
	lruQueue []int

	pageFaults uint64
}

// CreateSpace installs an empty page table for the process, sized from
// the requested memory, and returns the page count.
func (m *Manager) CreateSpace(pid proc.PID, size uint64) int {
	numPages := int((size + m.pageSize - 1) / m.pageSize)
	if numPages < 1 {
		numPages = 1
	}

	m.pageTables[pid] = &pageTable{
		numPages: numPages,
		mapping:  make(map[int]int),
	}

	return numPages
}

// ReleaseSpace frees every frame owned by the process back to the pool
// and removes its page table. Unknown PIDs are a no-op.
func (m *Manager) ReleaseSpace(pid proc.PID) {
	table, found := m.pageTables[pid]
	if !found {
		return
	}

	for _, frame := range table.mapping {
		delete(m.frameTable, frame)
		m.removeFromLRUQueue(frame)
		m.freeFrames = append(m.freeFrames, frame)
	}

	delete(m.pageTables, pid)
}

// AccessPage resolves a simulated access to one page of the process's
// virtual space. A resident page is a hit; a non-resident page faults
// and is backed by a free frame, evicting the globally
// least-recently-used frame when the pool is exhausted.
func (m *Manager) AccessPage(pid proc.PID, pageNumber int) (Access, error) {
	table, found := m.pageTables[pid]
	if !found {
		return Access{}, ErrUnknownProcess
	}

	if pageNumber < 0 || pageNumber >= table.numPages {
		return Access{}, ErrPageOutOfRange
	}

	if frame, resident := table.mapping[pageNumber]; resident {
		m.touchFrame(frame)

		return Access{Page: pageNumber, Frame: frame}, nil
	}

	table.faults++
	m.pageFaults++

	frame, evicted := m.acquireFrame()
	table.mapping[pageNumber] = frame
	m.frameTable[frame] = frameOwner{pid: pid, page: pageNumber}
	m.touchFrame(frame)

	return Access{
		Page:    pageNumber,
		Frame:   frame,
		Fault:   true,
		Evicted: evicted,
	}, nil
}

func (m *Manager) acquireFrame() (int, *EvictedPage) {
	if len(m.freeFrames) > 0 {
		frame := m.freeFrames[0]
		m.freeFrames = m.freeFrames[1:]

		return frame, nil
	}

	victim := m.lruQueue[0]
	m.lruQueue = m.lruQueue[1:]

	owner := m.frameTable[victim]
	delete(m.pageTables[owner.pid].mapping, owner.page)
	delete(m.frameTable, victim)

	return victim, &EvictedPage{PID: owner.pid, Page: owner.page}
}

// touchFrame moves the frame to the most-recently-used end of the
// queue.
func (m *Manager) touchFrame(frame int) {
	m.removeFromLRUQueue(frame)
	m.lruQueue = append(m.lruQueue, frame)
}

func (m *Manager) removeFromLRUQueue(frame int) {
	newQueue := make([]int, 0, len(m.lruQueue))
	for _, f := range m.lruQueue {
		if f != frame {
			newQueue = append(newQueue, f)
		}
	}

	m.lruQueue = newQueue
}

// PageCount returns the number of pages in the process's virtual space.
// The bool return value indicates whether the process has one.
func (m *Manager) PageCount(pid proc.PID) (int, bool) {
	table, found := m.pageTables[pid]
	if !found {
		return 0, false
	}

	return table.numPages, true
}

// Faults returns the fault count of one process.
func (m *Manager) Faults(pid proc.PID) (uint64, bool) {
	table, found := m.pageTables[pid]
	if !found {
		return 0, false
	}

	return table.faults, true
}

// Status reports the state of the frame pool.
func (m *Manager) Status() Status {
	free := len(m.freeFrames)

	return Status{
		PageSize:    m.pageSize,
		FramesTotal: m.numFrames,
		FramesUsed:  m.numFrames - free,
		FramesFree:  free,
		PageFaults:  m.pageFaults,
	}
}
