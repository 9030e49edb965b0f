// Package device implements the simulated I/O device registry.
package device

import (
	"errors"
	"fmt"
	"time"

	"github.com/minoslab/minos/proc"
)

// ErrNotFound is returned when an operation references an unregistered
// device.
var ErrNotFound = errors.New("device not found")

// ErrUnknownMode is returned when a transfer mode name is not
// recognized.
var ErrUnknownMode = errors.New("unknown transfer mode")

// Mode is the transfer mode of a device.
type Mode string

// The supported transfer modes.
const (
	ModeProgrammed Mode = "Programmed"
	ModeDMA        Mode = "DMA"
)

// A Request records the last I/O request served by a device.
type Request struct {
	PID      proc.PID  `json:"pid"`
	Duration int       `json:"duration"`
	Time     time.Time `json:"time"`
}

// A Device is one simulated I/O device.
type Device struct {
	Name        string   `json:"name"`
	Mode        Mode     `json:"mode"`
	Busy        bool     `json:"busy"`
	LastRequest *Request `json:"last_request,omitempty"`
}

// A Registry holds the simulated devices by name.
type Registry struct {
	devices map[string]*Device
	order   []string
}

// NewRegistry creates a registry populated with the default devices.
func NewRegistry() *Registry {
	r := &Registry{devices: make(map[string]*Device)}

	r.register(&Device{Name: "disk", Mode: ModeDMA})
	r.register(&Device{Name: "keyboard", Mode: ModeProgrammed})
	r.register(&Device{Name: "network", Mode: ModeDMA})

	return r
}

func (r *Registry) register(d *Device) {
	r.devices[d.Name] = d
	r.order = append(r.order, d.Name)
}

// Has tells whether a device with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, found := r.devices[name]
	return found
}

// Names returns the device names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)

	return out
}

// Request serves one I/O request on the named device and returns a
// human-readable description of the transfer.
func (r *Registry) Request(pid proc.PID, name string) (string, error) {
	d, found := r.devices[name]
	if !found {
		return "", ErrNotFound
	}

	d.Busy = true
	d.LastRequest = &Request{PID: pid, Duration: 1, Time: time.Now()}
	detail := fmt.Sprintf("pid %d uses %s in %s mode", pid, d.Name, d.Mode)
	d.Busy = false

	return detail, nil
}

// SetMode changes the transfer mode of the named device.
func (r *Registry) SetMode(name, mode string) error {
	d, found := r.devices[name]
	if !found {
		return ErrNotFound
	}

	switch Mode(mode) {
	case ModeProgrammed, ModeDMA:
		d.Mode = Mode(mode)
	default:
		return ErrUnknownMode
	}

	return nil
}

// SetBusy marks the named device busy or idle.
func (r *Registry) SetBusy(name string, busy bool) error {
	d, found := r.devices[name]
	if !found {
		return ErrNotFound
	}

	d.Busy = busy

	return nil
}

// Status returns a snapshot of every device in registration order.
func (r *Registry) Status() []Device {
	out := make([]Device, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.devices[name])
	}

	return out
}
