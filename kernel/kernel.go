// Package kernel composes the simulator core: it admits processes,
// drives scheduling cycles, resolves simulated memory accesses and
// forwards every state change to the registered hooks.
package kernel

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/minoslab/minos/device"
	"github.com/minoslab/minos/eventlog"
	"github.com/minoslab/minos/hooking"
	"github.com/minoslab/minos/memalloc"
	"github.com/minoslab/minos/proc"
	"github.com/minoslab/minos/sched"
	"github.com/minoslab/minos/vm"
	"github.com/minoslab/minos/vm/tlb"
)

// A Kernel is one running simulation instance. All core state lives in
// memory and is discarded when the instance is dropped.
//
// The simulation itself is single-threaded and cooperative; the kernel
// serializes its public operations behind one coarse lock so that
// snapshot readers (e.g. the HTTP monitor) can run next to a driver
// loop.
type Kernel struct {
	hooking.HookableBase

	lock sync.Mutex

	id        string
	startTime time.Time
	rand      *rand.Rand

	allocator *memalloc.Allocator
	vm        *vm.Manager
	tlb       *tlb.TLB
	scheduler *sched.Scheduler
	devices   *device.Registry

	timeline *eventlog.Timeline
	pidGen   proc.PIDGenerator
	archive  map[proc.PID]*proc.Process
}

// ID returns the unique identifier of this simulation run.
func (k *Kernel) ID() string {
	return k.id
}

// CreateProcess admits a new process: it reserves physical memory,
// creates the virtual space and enqueues the process, all or nothing.
// On failure no component state changes.
func (k *Kernel) CreateProcess(
	name string,
	priority int,
	memSize uint64,
) (*proc.Process, string, error) {
	k.lock.Lock()
	defer k.lock.Unlock()

	return k.createProcess(name, priority, memSize)
}

func (k *Kernel) createProcess(
	name string,
	priority int,
	memSize uint64,
) (*proc.Process, string, error) {
	if memSize > k.allocator.Available() {
		k.logEvent(HookPosProcessCreated, eventlog.CategoryProcess,
			fmt.Sprintf("failed to create '%s': insufficient memory", name),
			nil, map[string]string{"memory": strconv.FormatUint(memSize, 10)})

		return nil, "insufficient memory", memalloc.ErrInsufficientMemory
	}

	p := proc.New(k.pidGen.Generate(), name, priority, memSize)
	p.SetState(proc.StateNew, "process created")

	addr, err := k.allocator.Allocate(memSize, p.PID)
	if err != nil {
		return nil, "failed to allocate memory", err
	}
	p.MemoryAddress = addr

	pages := k.vm.CreateSpace(p.PID, memSize)
	k.logEvent(HookPosMemory, eventlog.CategoryMemory,
		fmt.Sprintf("virtual space created (%d pages) for pid %d",
			pages, p.PID),
		p, nil)

	k.scheduler.AddProcess(p)

	k.logEvent(HookPosProcessCreated, eventlog.CategoryProcess,
		fmt.Sprintf("created process '%s' (pid %d)", name, p.PID),
		p, map[string]string{"priority": strconv.Itoa(priority)})
	k.logEvent(HookPosMemory, eventlog.CategoryMemory,
		fmt.Sprintf("allocated %d units to pid %d", memSize, p.PID),
		p, map[string]string{"address": strconv.FormatUint(addr, 10)})

	message := fmt.Sprintf("process '%s' (pid %d) created", name, p.PID)

	return p, message, nil
}

// KillProcess terminates a live process, releasing its physical memory,
// virtual space and cached translations, and moves it to the archive.
func (k *Kernel) KillProcess(pid proc.PID) (bool, string) {
	k.lock.Lock()
	defer k.lock.Unlock()

	return k.killProcess(pid)
}

func (k *Kernel) killProcess(pid proc.PID) (bool, string) {
	p, found := k.scheduler.Process(pid)
	if !found {
		return false, "process not found"
	}

	k.allocator.Deallocate(p.MemoryAddress)
	k.logEvent(HookPosMemory, eventlog.CategoryMemory,
		fmt.Sprintf("freed %d units of pid %d", p.MemorySize, pid),
		p, map[string]string{
			"address": strconv.FormatUint(p.MemoryAddress, 10)})

	k.vm.ReleaseSpace(pid)
	k.tlb.Invalidate(pid)

	k.logEvent(HookPosProcessTerminated, eventlog.CategoryProcess,
		fmt.Sprintf("process %d terminated", pid), p, nil)

	k.archive[pid] = p
	k.scheduler.RemoveProcess(pid)

	return true, fmt.Sprintf("process %d terminated", pid)
}

// RunCycle executes one scheduling cycle: dispatch, one simulated
// memory access on the dispatched process, optional synthetic I/O, and
// requeue. Returns the process that held the CPU, or nil when the
// ready queue is empty.
func (k *Kernel) RunCycle() *proc.Process {
	k.lock.Lock()
	defer k.lock.Unlock()

	return k.runCycle()
}

func (k *Kernel) runCycle() *proc.Process {
	p := k.scheduler.ScheduleNext()
	if p == nil {
		return nil
	}

	k.logEvent(HookPosDispatch, eventlog.CategoryCPU,
		fmt.Sprintf("CPU assigned to pid %d", p.PID), p, nil)

	k.accessMemory(p)

	if len(p.IOBursts) > 0 && k.rand.Float64() > 0.5 {
		k.performIO(p)
	} else {
		p.SetState(proc.StateReady, "ready for next quantum")
		k.scheduler.Requeue(p)
	}

	k.scheduler.ClearRunning()

	return p
}

func (k *Kernel) accessMemory(p *proc.Process) {
	pages, found := k.vm.PageCount(p.PID)
	if !found {
		return
	}

	page := k.rand.Intn(pages)

	tlbResult := k.tlb.Access(p.PID, page)
	k.logEvent(HookPosTLBAccess, eventlog.CategoryMemory,
		tlbResult.Message, p, nil)

	access, err := k.vm.AccessPage(p.PID, page)
	if err != nil {
		k.logEvent(HookPosPageAccess, eventlog.CategoryMemory,
			err.Error(), p, nil)
		return
	}

	message := fmt.Sprintf("access to page %d in frame %d",
		access.Page, access.Frame)
	if access.Fault {
		message = fmt.Sprintf("page fault, loading page %d into frame %d",
			access.Page, access.Frame)
		if access.Evicted != nil {
			message += fmt.Sprintf(" (evicted pid %d, page %d)",
				access.Evicted.PID, access.Evicted.Page)
		}
	}

	k.logEvent(HookPosPageAccess, eventlog.CategoryMemory, message, p, nil)
}

func (k *Kernel) performIO(p *proc.Process) {
	p.SetState(proc.StateWaiting, "I/O request")

	names := k.devices.Names()
	name := names[k.rand.Intn(len(names))]

	detail, err := k.devices.Request(p.PID, name)
	if err != nil {
		detail = err.Error()
	}
	k.logEvent(HookPosIORequest, eventlog.CategoryIO, detail, p, nil)

	p.SetState(proc.StateReady, "back from I/O")
	k.scheduler.Requeue(p)
}

// TriggerInterrupt delivers a synthetic IRQ from the named device. The
// service routine is modeled as a transient maximum-priority process:
// it is admitted, promoted to the head of the ready queue, serviced by
// one cycle and then killed. A preempted process resumes at the head of
// the queue.
func (k *Kernel) TriggerInterrupt(
	deviceName string,
	level int,
) (bool, string, error) {
	k.lock.Lock()
	defer k.lock.Unlock()

	if !k.devices.Has(deviceName) {
		return false, "device not found", device.ErrNotFound
	}

	running := k.scheduler.RunningProcess()
	if running != nil && running.State == proc.StateRunning {
		running.SetState(proc.StateWaiting,
			fmt.Sprintf("interrupted by IRQ %s", deviceName))
		k.logEvent(HookPosInterrupt, eventlog.CategoryCPU,
			fmt.Sprintf("IRQ %s level %d interrupts pid %d",
				deviceName, level, running.PID),
			running, nil)
	}

	irqProc, _, err := k.createProcess(
		"irq_"+deviceName, proc.MaxPriority, 8)
	if err != nil {
		if running != nil {
			k.scheduler.ClearRunning()
			running.SetState(proc.StateReady, "resumed after IRQ")
			k.scheduler.Requeue(running)
			k.scheduler.PromoteToFront(running.PID)
		}

		return false, "cannot admit interrupt service process", err
	}

	k.scheduler.PromoteToFront(irqProc.PID)

	serviced := k.runCycle()
	if serviced != nil {
		k.logEvent(HookPosInterrupt, eventlog.CategoryCPU,
			fmt.Sprintf("IRQ %s serviced by pid %d",
				deviceName, serviced.PID),
			serviced, nil)
	}

	k.killProcess(irqProc.PID)

	if running != nil {
		running.SetState(proc.StateReady, "resumed after IRQ")
		k.scheduler.Requeue(running)
		k.scheduler.PromoteToFront(running.PID)
		k.logEvent(HookPosInterrupt, eventlog.CategoryCPU,
			fmt.Sprintf("resuming pid %d after IRQ %s",
				running.PID, deviceName),
			running, nil)
	}

	return true, fmt.Sprintf("IRQ %s serviced", deviceName), nil
}

// SetSchedulerPolicy switches the scheduling policy by name. Unknown
// names are rejected.
func (k *Kernel) SetSchedulerPolicy(name string) bool {
	k.lock.Lock()
	defer k.lock.Unlock()

	policy, err := sched.ParsePolicy(name)
	if err != nil {
		return false
	}

	k.scheduler.SetPolicy(policy)
	k.logEvent(HookPosDispatch, eventlog.CategoryCPU,
		fmt.Sprintf("scheduler policy set to %s", policy), nil, nil)

	return true
}

// SetTLBCapacity resizes the translation cache, evicting entries
// immediately when shrinking.
func (k *Kernel) SetTLBCapacity(n int) {
	k.lock.Lock()
	defer k.lock.Unlock()

	evicted := k.tlb.SetCapacity(n)
	message := fmt.Sprintf("TLB capacity set to %d", n)
	if len(evicted) > 0 {
		message += fmt.Sprintf(", evicted %d entries", len(evicted))
	}
	k.logEvent(HookPosTLBAccess, eventlog.CategoryMemory, message, nil, nil)
}

// ResetTLB clears the translation cache and its counters.
func (k *Kernel) ResetTLB() {
	k.lock.Lock()
	defer k.lock.Unlock()

	k.tlb.Reset()
	k.logEvent(HookPosTLBAccess, eventlog.CategoryMemory,
		"TLB reset", nil, nil)
}

func (k *Kernel) logEvent(
	pos *hooking.HookPos,
	category string,
	message string,
	p *proc.Process,
	metadata map[string]string,
) {
	rec := eventlog.Record{
		Category: category,
		Message:  message,
		Metadata: metadata,
	}
	if p != nil {
		rec.PID = int(p.PID)
	}

	rec = k.timeline.Append(rec)

	if p != nil {
		p.History = append(p.History, rec)
	}

	k.InvokeHook(hooking.HookCtx{Domain: k, Pos: pos, Item: rec})
}
