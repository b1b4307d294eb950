//go:build !windows

package manager

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"

	"killport-go/internal/output"
	"killport-go/internal/owner"
	"killport-go/internal/probe"
	"killport-go/internal/terminate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listenerEnv = "KILLPORT_TEST_LISTEN"

// TestListenerChild is not a test on its own. When listenerEnv is set it
// binds "network address" from the variable, prints "ready" and blocks until
// it is killed.
func TestListenerChild(t *testing.T) {
	target := os.Getenv(listenerEnv)
	if target == "" {
		return
	}
	network, address, _ := strings.Cut(target, " ")
	ln, err := net.Listen(network, address)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(3)
	}
	fmt.Println("ready")
	for {
		conn, err := ln.Accept()
		if err != nil {
			os.Exit(0)
		}
		conn.Close()
	}
}

// startListener runs this test binary as a child holding network/address.
func startListener(t *testing.T, network, address string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=^TestListenerChild$")
	cmd.Env = append(os.Environ(), listenerEnv+"="+network+" "+address)
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	ready := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(stdout).ReadString('\n')
		ready <- strings.TrimSpace(line)
	}()
	select {
	case line := <-ready:
		require.Equal(t, "ready", line, "listener child on %s %s", network, address)
	case <-time.After(10 * time.Second):
		t.Fatalf("listener child on %s %s never became ready", network, address)
	}
	return cmd
}

func TestKillPort_IPv4AndIPv6Listeners(t *testing.T) {
	if _, err := exec.LookPath("lsof"); err != nil {
		t.Skip("lsof not installed")
	}
	ln6, err := net.Listen("tcp6", "[::1]:0")
	if err != nil {
		t.Skipf("IPv6 unavailable: %v", err)
	}
	require.NoError(t, ln6.Close())

	ln, err := net.Listen("tcp4", "0.0.0.0:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	v4 := startListener(t, "tcp4", fmt.Sprintf("0.0.0.0:%d", port))
	v6 := startListener(t, "tcp6", fmt.Sprintf("[::]:%d", port))

	var stdout, stderr bytes.Buffer
	mgr := New(
		probe.New(nil),
		owner.ForPlatform(runtime.GOOS, owner.ExecRunner{}, owner.DefaultTools()),
		terminate.New(nil),
		output.New(&stdout, &stderr, false),
	)

	report := mgr.KillPort(port)

	require.Equal(t, StateDone, report.State, "stderr: %s", stderr.String())
	assert.False(t, report.Failed())
	killed := make([]int, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		assert.Equal(t, terminate.Killed, o.Kind, "pid %d: %v", o.PID, o.Err)
		killed = append(killed, o.PID)
	}
	assert.ElementsMatch(t, []int{v4.Process.Pid, v6.Process.Pid}, killed)
	assert.Contains(t, stdout.String(), fmt.Sprintf("Port %d is in use. Attempting to kill the process...", port))
	assert.Empty(t, stderr.String())

	// reap both children so their sockets are gone before the follow-up probe
	_ = v4.Wait()
	_ = v6.Wait()

	assert.Equal(t, probe.Available, probe.New(nil).Probe(port).Kind)
}
