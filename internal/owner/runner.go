package owner

import (
	"errors"
	"fmt"
	"os/exec"
)

// Runner runs an external command and returns its standard output.
type Runner interface {
	Run(name string, args ...string) (string, error)
}

// InvocationError means the tool could not be started at all.
type InvocationError struct {
	Tool string
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("running %s: %v", e.Tool, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

type ExecRunner struct{}

// Run treats a non-zero exit status as a completed run: lsof exits 1 when
// nothing matches, and whatever it printed is still the answer.
func (ExecRunner) Run(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), nil
		}
		return "", &InvocationError{Tool: name, Err: err}
	}
	return string(out), nil
}
