package kernel

import (
	"io"
	"time"

	"github.com/syifan/goseth"

	"github.com/minoslab/minos/device"
	"github.com/minoslab/minos/eventlog"
	"github.com/minoslab/minos/memalloc"
	"github.com/minoslab/minos/proc"
	"github.com/minoslab/minos/sched"
	"github.com/minoslab/minos/vm"
	"github.com/minoslab/minos/vm/tlb"
)

// SystemInfo is a point-in-time summary of the whole simulation.
type SystemInfo struct {
	ID             string          `json:"id"`
	Uptime         time.Duration   `json:"uptime"`
	Memory         memalloc.Status `json:"memory"`
	VM             vm.Status       `json:"vm"`
	TLB            tlb.Status      `json:"tlb"`
	TotalProcesses int             `json:"total_processes"`
	ReadyProcesses int             `json:"ready_processes"`
	RunningPID     int             `json:"running_pid"`
	Policy         sched.Policy    `json:"policy"`
}

// ProcessInfo is a point-in-time copy of the externally visible fields
// of one process. Queries hand out copies, never the live process, so
// readers do not touch process state outside the kernel lock.
type ProcessInfo struct {
	PID           proc.PID   `json:"pid"`
	Name          string     `json:"name"`
	State         proc.State `json:"state"`
	Priority      int        `json:"priority"`
	CPUTime       int        `json:"cpu_time"`
	MemorySize    uint64     `json:"memory_size"`
	MemoryAddress uint64     `json:"memory_address"`
}

func snapshotProcess(p *proc.Process) ProcessInfo {
	return ProcessInfo{
		PID:           p.PID,
		Name:          p.Name,
		State:         p.State,
		Priority:      p.Priority,
		CPUTime:       p.CPUTime,
		MemorySize:    p.MemorySize,
		MemoryAddress: p.MemoryAddress,
	}
}

// Processes returns snapshots of the live processes ordered by PID.
func (k *Kernel) Processes() []ProcessInfo {
	k.lock.Lock()
	defer k.lock.Unlock()

	live := k.scheduler.Processes()

	out := make([]ProcessInfo, 0, len(live))
	for _, p := range live {
		out = append(out, snapshotProcess(p))
	}

	return out
}

// RunningProcess returns a snapshot of the process currently holding
// the CPU. The second return value reports whether any process does.
func (k *Kernel) RunningProcess() (ProcessInfo, bool) {
	k.lock.Lock()
	defer k.lock.Unlock()

	running := k.scheduler.RunningProcess()
	if running == nil {
		return ProcessInfo{}, false
	}

	return snapshotProcess(running), true
}

// FindProcess looks a process up in the live table or, failing that, in
// the archive of terminated processes, and returns a snapshot of it.
func (k *Kernel) FindProcess(pid proc.PID) (ProcessInfo, bool) {
	k.lock.Lock()
	defer k.lock.Unlock()

	p, found := k.findProcess(pid)
	if !found {
		return ProcessInfo{}, false
	}

	return snapshotProcess(p), true
}

func (k *Kernel) findProcess(pid proc.PID) (*proc.Process, bool) {
	if p, found := k.scheduler.Process(pid); found {
		return p, true
	}

	p, found := k.archive[pid]

	return p, found
}

// MemoryStatus reports the physical allocator accounting.
func (k *Kernel) MemoryStatus() memalloc.Status {
	k.lock.Lock()
	defer k.lock.Unlock()

	return k.allocator.Status()
}

// VMStatus reports the frame pool state.
func (k *Kernel) VMStatus() vm.Status {
	k.lock.Lock()
	defer k.lock.Unlock()

	return k.vm.Status()
}

// TLBStatus reports the translation cache content and counters.
func (k *Kernel) TLBStatus() tlb.Status {
	k.lock.Lock()
	defer k.lock.Unlock()

	return k.tlb.Status()
}

// DeviceStatus reports a snapshot of the simulated devices.
func (k *Kernel) DeviceStatus() []device.Device {
	k.lock.Lock()
	defer k.lock.Unlock()

	return k.devices.Status()
}

// ProcessHistory returns the recorded events of a process, live or
// archived.
func (k *Kernel) ProcessHistory(pid proc.PID) ([]eventlog.Record, bool) {
	k.lock.Lock()
	defer k.lock.Unlock()

	p, found := k.findProcess(pid)
	if !found {
		return nil, false
	}

	out := make([]eventlog.Record, len(p.History))
	copy(out, p.History)

	return out, true
}

// ProcessTransitions returns the lifecycle transition log of a process,
// live or archived.
func (k *Kernel) ProcessTransitions(pid proc.PID) ([]proc.Transition, bool) {
	k.lock.Lock()
	defer k.lock.Unlock()

	p, found := k.findProcess(pid)
	if !found {
		return nil, false
	}

	out := make([]proc.Transition, len(p.Transitions))
	copy(out, p.Transitions)

	return out, true
}

// SerializeState writes a shallow serialization of the kernel's
// internal state to w. The kernel stays locked for the duration, so
// the picture is consistent.
func (k *Kernel) SerializeState(w io.Writer) error {
	k.lock.Lock()
	defer k.lock.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(k)
	serializer.SetMaxDepth(1)

	return serializer.Serialize(w)
}

// Timeline returns the most recent timeline records, up to limit. A
// non-positive limit returns everything.
func (k *Kernel) Timeline(limit int) []eventlog.Record {
	k.lock.Lock()
	defer k.lock.Unlock()

	return k.timeline.Last(limit)
}

// SystemInfo summarizes the simulation state.
func (k *Kernel) SystemInfo() SystemInfo {
	k.lock.Lock()
	defer k.lock.Unlock()

	info := SystemInfo{
		ID:             k.id,
		Uptime:         time.Since(k.startTime),
		Memory:         k.allocator.Status(),
		VM:             k.vm.Status(),
		TLB:            k.tlb.Status(),
		TotalProcesses: len(k.scheduler.Processes()),
		ReadyProcesses: len(k.scheduler.ReadyQueue()),
		Policy:         k.scheduler.Policy(),
	}

	if running := k.scheduler.RunningProcess(); running != nil {
		info.RunningPID = int(running.PID)
	}

	return info
}
