package owner

import (
	"fmt"
	"strings"
)

// LsofResolver lists listening TCP sockets on a port with lsof.
type LsofResolver struct {
	Runner Runner
	Tool   string
}

func (r *LsofResolver) Owners(port int) ([]int, error) {
	out, err := run(r.Runner, r.Tool, lsofArgs(port)...)
	if err != nil {
		return nil, err
	}
	return collect(parseLsof(out))
}

// lsofArgs: -n/-P skip host and service name lookups, -sTCP:LISTEN drops
// clients that merely connect to the port.
func lsofArgs(port int) []string {
	return []string{"-n", "-P", fmt.Sprintf("-iTCP:%d", port), "-sTCP:LISTEN"}
}

// parseLsof reads the PID column of lsof's default output:
//
//	COMMAND   PID USER   FD   TYPE DEVICE SIZE/OFF NODE NAME
//	node    41503 dev   23u  IPv6 0x1f      0t0  TCP *:8080 (LISTEN)
func parseLsof(output string) []int {
	pids := []int{}
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if pid := parsePID(fields[1]); pid > 0 {
			pids = append(pids, pid)
		}
	}
	return pids
}
