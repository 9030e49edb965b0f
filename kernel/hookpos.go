package kernel

import (
	"github.com/minoslab/minos/hooking"
)

// HookPosProcessCreated triggers after a process is admitted.
var HookPosProcessCreated = &hooking.HookPos{Name: "ProcessCreated"}

// HookPosProcessTerminated triggers after a process is terminated and
// archived.
var HookPosProcessTerminated = &hooking.HookPos{Name: "ProcessTerminated"}

// HookPosDispatch triggers when the scheduler assigns the CPU.
var HookPosDispatch = &hooking.HookPos{Name: "Dispatch"}

// HookPosTLBAccess triggers on every TLB lookup outcome.
var HookPosTLBAccess = &hooking.HookPos{Name: "TLBAccess"}

// HookPosPageAccess triggers on every page-table access outcome.
var HookPosPageAccess = &hooking.HookPos{Name: "PageAccess"}

// HookPosIORequest triggers when a process performs synthetic I/O.
var HookPosIORequest = &hooking.HookPos{Name: "IORequest"}

// HookPosInterrupt triggers during interrupt delivery and service.
var HookPosInterrupt = &hooking.HookPos{Name: "Interrupt"}

// HookPosMemory triggers on allocation and release of physical memory.
var HookPosMemory = &hooking.HookPos{Name: "Memory"}
