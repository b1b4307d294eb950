// Package owner maps a TCP port to the processes listening on it by running
// the platform's socket listing tool and parsing its output.
package owner

import (
	"errors"
	"strconv"
)

var ErrNoProcess = errors.New("no process found")

// Resolver returns the PIDs owning a port, in the order the tool reported
// them, without duplicates.
type Resolver interface {
	Owners(port int) ([]int, error)
}

// Tools names the executables resolvers shell out to.
type Tools struct {
	Lsof    string
	Netstat string
}

// DefaultTools is the single source of the default executable names.
func DefaultTools() Tools {
	return Tools{Lsof: "lsof", Netstat: "netstat"}
}

// ForPlatform picks the resolver for goos. Windows gets netstat, everything
// else lsof.
func ForPlatform(goos string, runner Runner, tools Tools) Resolver {
	if runner == nil {
		runner = ExecRunner{}
	}
	defaults := DefaultTools()
	if tools.Lsof == "" {
		tools.Lsof = defaults.Lsof
	}
	if tools.Netstat == "" {
		tools.Netstat = defaults.Netstat
	}
	if goos == "windows" {
		return &NetstatResolver{Runner: runner, Tool: tools.Netstat}
	}
	return &LsofResolver{Runner: runner, Tool: tools.Lsof}
}

func run(runner Runner, tool string, args ...string) (string, error) {
	out, err := runner.Run(tool, args...)
	if err != nil {
		var invErr *InvocationError
		if errors.As(err, &invErr) {
			return "", err
		}
		return "", &InvocationError{Tool: tool, Err: err}
	}
	return out, nil
}

func collect(pids []int) ([]int, error) {
	pids = dedupe(pids)
	if len(pids) == 0 {
		return nil, ErrNoProcess
	}
	return pids, nil
}

func dedupe(pids []int) []int {
	seen := make(map[int]bool, len(pids))
	out := make([]int, 0, len(pids))
	for _, pid := range pids {
		if seen[pid] {
			continue
		}
		seen[pid] = true
		out = append(out, pid)
	}
	return out
}

// parsePID accepts only positive values that fit a 32-bit pid_t. Wider
// values would be truncated by kill(2), turning 4294967295 into -1.
func parsePID(field string) int {
	pid, err := strconv.ParseInt(field, 10, 32)
	if err != nil || pid <= 0 {
		return 0
	}
	return int(pid)
}
