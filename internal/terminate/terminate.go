// Package terminate force-kills processes and classifies each failure.
package terminate

import (
	"errors"
	"fmt"
	"math"
	"os"
)

// ErrInvalidPID rejects PIDs that kill(2) would reinterpret as a process
// group or as "every process".
var ErrInvalidPID = errors.New("invalid pid")

// Kind classifies a single kill attempt.
type Kind int

const (
	Killed Kind = iota
	PermissionDenied
	Failed
)

func (k Kind) String() string {
	switch k {
	case Killed:
		return "killed"
	case PermissionDenied:
		return "permission denied"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of killing one PID. Err is nil only for Killed.
type Outcome struct {
	PID  int
	Kind Kind
	Err  error
}

// Reason is the text shown to the user for a failed kill.
func (o Outcome) Reason() string {
	switch o.Kind {
	case Killed:
		return ""
	case PermissionDenied:
		return "Permission denied"
	default:
		if o.Err == nil {
			return "unknown error"
		}
		return o.Err.Error()
	}
}

// Signaler delivers the strongest termination signal the platform has.
type Signaler interface {
	Kill(pid int) error
}

// Terminator kills PIDs through a Signaler.
type Terminator struct {
	signaler Signaler

	// OnOutcome, when set, is called after every attempt.
	OnOutcome func(Outcome)
}

// New returns a terminator using signaler, or SystemSignaler when nil.
func New(signaler Signaler) *Terminator {
	if signaler == nil {
		signaler = SystemSignaler{}
	}
	return &Terminator{signaler: signaler}
}

// Terminate kills pids one at a time in the given order. A failure never
// stops the remaining attempts.
func (t *Terminator) Terminate(pids []int) []Outcome {
	outcomes := make([]Outcome, 0, len(pids))
	for _, pid := range pids {
		var o Outcome
		if pid <= 0 || pid > math.MaxInt32 {
			o = Classify(pid, fmt.Errorf("%w %d", ErrInvalidPID, pid))
		} else {
			o = Classify(pid, t.signaler.Kill(pid))
		}
		outcomes = append(outcomes, o)
		if t.OnOutcome != nil {
			t.OnOutcome(o)
		}
	}
	return outcomes
}

// Classify maps a signaler error onto an Outcome.
func Classify(pid int, err error) Outcome {
	switch {
	case err == nil:
		return Outcome{PID: pid, Kind: Killed}
	case errors.Is(err, os.ErrPermission):
		return Outcome{PID: pid, Kind: PermissionDenied, Err: err}
	default:
		return Outcome{PID: pid, Kind: Failed, Err: err}
	}
}
