// Package probe decides whether a TCP port is free by trying to bind it.
package probe

import (
	"errors"
	"fmt"
	"net"
)

// Kind is the verdict of a probe.
type Kind int

const (
	Available Kind = iota
	InUse
	Error
)

func (k Kind) String() string {
	switch k {
	case Available:
		return "available"
	case InUse:
		return "in use"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single probe. Err is set only when Kind is Error.
type Result struct {
	Kind Kind
	Err  error
}

// Binder opens listening sockets. net.Listen satisfies it through NetBinder.
type Binder interface {
	Listen(network, address string) (net.Listener, error)
}

// NetBinder binds real sockets.
type NetBinder struct{}

func (NetBinder) Listen(network, address string) (net.Listener, error) {
	return net.Listen(network, address)
}

// Prober checks ports with a two-phase bind.
type Prober struct {
	binder Binder
}

// New returns a prober using binder, or NetBinder when binder is nil.
func New(binder Binder) *Prober {
	if binder == nil {
		binder = NetBinder{}
	}
	return &Prober{binder: binder}
}

// Probe binds the wildcard address with the platform's default family first,
// then the IPv4 wildcard explicitly. Some platforms give the first bind an
// IPv6-only socket, so a port held on IPv4 alone is only caught by the second.
func (p *Prober) Probe(port int) Result {
	if res, done := p.bind("tcp", fmt.Sprintf(":%d", port)); done {
		return res
	}
	if res, done := p.bind("tcp4", fmt.Sprintf("0.0.0.0:%d", port)); done {
		return res
	}
	return Result{Kind: Available}
}

// bind reports done=true when the probe has reached a verdict. The listener
// is closed before returning in every case.
func (p *Prober) bind(network, address string) (Result, bool) {
	ln, err := p.binder.Listen(network, address)
	if err != nil {
		if IsAddrInUse(err) {
			return Result{Kind: InUse}, true
		}
		return Result{Kind: Error, Err: err}, true
	}
	if err := ln.Close(); err != nil {
		return Result{Kind: Error, Err: fmt.Errorf("closing probe listener: %w", err)}, true
	}
	return Result{}, false
}

// IsAddrInUse unwraps *net.OpError and *os.SyscallError down to the errno.
func IsAddrInUse(err error) bool {
	return errors.Is(err, errAddrInUse)
}
