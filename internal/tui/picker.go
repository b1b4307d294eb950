package tui

import (
	"io"

	"killport-go/internal/owner"
)

// Picker runs the selection program on the given terminal streams.
type Picker struct {
	In  io.Reader
	Out io.Writer
}

func (p Picker) Select(port int, procs []owner.Process) ([]int, error) {
	model := NewModel(port, procs)
	if _, err := NewProgram(model, p.In, p.Out).Run(); err != nil {
		return nil, err
	}
	return model.Chosen(), nil
}
