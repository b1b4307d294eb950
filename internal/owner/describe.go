package owner

import (
	"github.com/shirou/gopsutil/v4/process"
)

// Process is a best-effort description of a port owner. Name and Cmdline are
// empty when the process could not be inspected.
type Process struct {
	PID     int
	Name    string
	Cmdline string
}

func (p Process) Label() string {
	switch {
	case p.Cmdline != "":
		return p.Cmdline
	case p.Name != "":
		return p.Name
	default:
		return "unknown"
	}
}

func Describe(pids []int) []Process {
	out := make([]Process, 0, len(pids))
	for _, pid := range pids {
		out = append(out, describe(pid))
	}
	return out
}

func describe(pid int) Process {
	desc := Process{PID: pid}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return desc
	}
	if name, err := p.Name(); err == nil {
		desc.Name = name
	}
	if cmdline, err := p.Cmdline(); err == nil {
		desc.Cmdline = cmdline
	}
	return desc
}
