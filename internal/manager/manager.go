// Package manager runs one killport invocation: probe the port, resolve its
// owners, then kill them, reporting each step.
package manager

import (
	"errors"

	"killport-go/internal/log"
	"killport-go/internal/output"
	"killport-go/internal/owner"
	"killport-go/internal/probe"
	"killport-go/internal/terminate"
)

type State int

const (
	StateAvailable State = iota
	StateProbeFailed
	StateNoProcess
	StateResolveFailed
	StateCancelled
	StateSelectFailed
	StateDone
)

func (s State) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateProbeFailed:
		return "probe failed"
	case StateNoProcess:
		return "no process found"
	case StateResolveFailed:
		return "resolve failed"
	case StateCancelled:
		return "cancelled"
	case StateSelectFailed:
		return "select failed"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Report is the terminal state of a run. Err carries the probe, resolve or
// selection error for the matching states.
type Report struct {
	Port     int
	State    State
	Err      error
	Outcomes []terminate.Outcome
}

// Failed reports whether the run should end with a non-zero exit status.
func (r Report) Failed() bool {
	switch r.State {
	case StateProbeFailed, StateResolveFailed, StateSelectFailed:
		return true
	}
	for _, o := range r.Outcomes {
		if o.Kind != terminate.Killed {
			return true
		}
	}
	return false
}

// Selector lets the user choose which owners to kill. An empty result means
// the user backed out.
type Selector interface {
	Select(port int, procs []owner.Process) ([]int, error)
}

type Manager struct {
	Prober     *probe.Prober
	Resolver   owner.Resolver
	Terminator *terminate.Terminator
	Out        *output.Reporter

	// Selector is consulted between resolving and killing when set.
	Selector Selector
	Describe func(pids []int) []owner.Process
}

func New(prober *probe.Prober, resolver owner.Resolver, term *terminate.Terminator, out *output.Reporter) *Manager {
	return &Manager{
		Prober:     prober,
		Resolver:   resolver,
		Terminator: term,
		Out:        out,
		Describe:   owner.Describe,
	}
}

// KillPort performs exactly one probe, at most one resolve and at most one
// pass of kills. Every failure ends the run; nothing is retried.
func (m *Manager) KillPort(port int) Report {
	report := Report{Port: port}

	res := m.Prober.Probe(port)
	log.Debug(log.CatProbe, "probe finished", "port", port, "result", res.Kind)
	switch res.Kind {
	case probe.Error:
		log.ErrorErr(log.CatProbe, "probe failed", res.Err, "port", port)
		m.Out.Error("Error checking port: %v", res.Err)
		report.State, report.Err = StateProbeFailed, res.Err
		return report
	case probe.Available:
		m.Out.Info("Port %d is available.", port)
		report.State = StateAvailable
		return report
	}

	m.Out.Info("Port %d is in use. Attempting to kill the process...", port)
	pids, err := m.Resolver.Owners(port)
	if err != nil {
		if errors.Is(err, owner.ErrNoProcess) {
			log.Warn(log.CatResolve, "port in use but no owner listed", "port", port)
			m.Out.Info("No process found running on port %d", port)
			report.State = StateNoProcess
			return report
		}
		log.ErrorErr(log.CatResolve, "resolve failed", err, "port", port)
		m.Out.Error("Error finding process on port %d: %v", port, err)
		report.State, report.Err = StateResolveFailed, err
		return report
	}
	log.Debug(log.CatResolve, "owners resolved", "port", port, "pids", pids)

	if m.Selector != nil {
		pids, err = m.selectOwners(port, pids)
		if err != nil {
			log.ErrorErr(log.CatUI, "selection failed", err)
			m.Out.Error("Error selecting process on port %d: %v", port, err)
			report.State, report.Err = StateSelectFailed, err
			return report
		}
		if len(pids) == 0 {
			log.Warn(log.CatUI, "selection aborted", "port", port)
			m.Out.Info("Aborted, no process was killed.")
			report.State = StateCancelled
			return report
		}
	}

	report.Outcomes = m.killAll(port, pids)
	report.State = StateDone
	return report
}

func (m *Manager) selectOwners(port int, pids []int) ([]int, error) {
	describe := m.Describe
	if describe == nil {
		describe = owner.Describe
	}
	procs := describe(pids)
	for _, p := range procs {
		log.Debug(log.CatUI, "owner", "pid", p.PID, "name", p.Name)
	}
	return m.Selector.Select(port, procs)
}

func (m *Manager) killAll(port int, pids []int) []terminate.Outcome {
	prev := m.Terminator.OnOutcome
	defer func() { m.Terminator.OnOutcome = prev }()

	m.Terminator.OnOutcome = func(o terminate.Outcome) {
		if prev != nil {
			prev(o)
		}
		if o.Kind == terminate.Killed {
			log.Info(log.CatKill, "killed", "pid", o.PID, "port", port)
			m.Out.Success("Killed process %d running on port %d", o.PID, port)
			return
		}
		log.ErrorErr(log.CatKill, "kill failed", o.Err, "pid", o.PID, "kind", o.Kind)
		m.Out.Error("Error killing process %d: %s", o.PID, o.Reason())
	}
	return m.Terminator.Terminate(pids)
}
