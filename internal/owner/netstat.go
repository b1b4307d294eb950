package owner

import (
	"fmt"
	"strings"
)

// NetstatResolver finds IPv4 wildcard listeners with netstat -ano.
type NetstatResolver struct {
	Runner Runner
	Tool   string
}

func (r *NetstatResolver) Owners(port int) ([]int, error) {
	out, err := run(r.Runner, r.Tool, "-ano")
	if err != nil {
		return nil, err
	}
	return collect(parseNetstat(out, port))
}

// parseNetstat matches rows of the form
//
//	Proto  Local Address    Foreign Address  State      PID
//	TCP    0.0.0.0:8080     0.0.0.0:0        LISTENING  4242
//
// The local address must be exactly 0.0.0.0:<port>.
func parseNetstat(output string, port int) []int {
	local := fmt.Sprintf("0.0.0.0:%d", port)
	pids := []int{}
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		if fields[1] != local || fields[3] != "LISTENING" {
			continue
		}
		if pid := parsePID(fields[4]); pid > 0 {
			pids = append(pids, pid)
		}
	}
	return pids
}
