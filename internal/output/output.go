// Package output writes the user-facing console lines. Informational lines go
// to one writer and errors to another; a silent reporter writes nothing.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

type Reporter struct {
	out    io.Writer
	err    io.Writer
	silent bool

	infoStyle  lipgloss.Style
	okStyle    lipgloss.Style
	errorStyle lipgloss.Style
}

// New builds a reporter. Each writer gets its own lipgloss renderer so color
// is only emitted when that stream is a terminal.
func New(out, err io.Writer, silent bool) *Reporter {
	if out == nil {
		out = io.Discard
	}
	if err == nil {
		err = io.Discard
	}
	outR := lipgloss.NewRenderer(out)
	errR := lipgloss.NewRenderer(err)
	return &Reporter{
		out:        out,
		err:        err,
		silent:     silent,
		infoStyle:  outR.NewStyle().Foreground(lipgloss.Color("#7DCFFF")),
		okStyle:    outR.NewStyle().Foreground(lipgloss.Color("#9ECE6A")),
		errorStyle: errR.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
}

// Silent reports whether the reporter discards everything.
func (r *Reporter) Silent() bool {
	return r.silent
}

func (r *Reporter) Info(format string, args ...any) {
	r.write(r.out, r.infoStyle, format, args...)
}

// Success is an informational line for a completed action.
func (r *Reporter) Success(format string, args ...any) {
	r.write(r.out, r.okStyle, format, args...)
}

func (r *Reporter) Error(format string, args ...any) {
	r.write(r.err, r.errorStyle, format, args...)
}

func (r *Reporter) write(w io.Writer, style lipgloss.Style, format string, args ...any) {
	if r.silent {
		return
	}
	_, _ = fmt.Fprintln(w, style.Render(fmt.Sprintf(format, args...)))
}
