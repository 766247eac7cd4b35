package supervisor

import (
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// OrphanHandle describes an engine process whose ownership was handed to
// the operating system. Dropping it does not affect the process.
type OrphanHandle struct {
	PID       int
	Path      string
	Args      []string
	StartedAt time.Time
}

// Alive reports whether a process with the handle's PID still exists.
// It is an observation for heartbeat logs, not a supervision signal.
func (h *OrphanHandle) Alive() bool {
	if h == nil || h.PID <= 0 {
		return false
	}
	ok, err := process.PidExists(int32(h.PID))
	return err == nil && ok
}

// Cmdline returns the command line the operating system reports for the
// handle's PID.
func (h *OrphanHandle) Cmdline() (string, error) {
	p, err := process.NewProcess(int32(h.PID))
	if err != nil {
		return "", err
	}
	return p.Cmdline()
}
