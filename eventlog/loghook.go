package eventlog

import (
	"log"

	"github.com/minoslab/minos/hooking"
)

// LogHook is a hook that prints every timeline record to a logger.
type LogHook struct {
	*log.Logger
}

// NewLogHook returns a LogHook that writes into the given logger.
func NewLogHook(logger *log.Logger) *LogHook {
	h := new(LogHook)
	h.Logger = logger
	return h
}

// Func writes the record information into the logger
func (h *LogHook) Func(ctx hooking.HookCtx) {
	rec, ok := ctx.Item.(Record)
	if !ok {
		return
	}

	if rec.PID > 0 {
		h.Logger.Printf("%4d [%s] pid %d, %s",
			rec.Step, rec.Category, rec.PID, rec.Message)
	} else {
		h.Logger.Printf("%4d [%s] %s", rec.Step, rec.Category, rec.Message)
	}
}
