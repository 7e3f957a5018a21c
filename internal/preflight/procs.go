package preflight

import (
	"fmt"
	"os/user"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessInfo describes a running scan-tool process.
type ProcessInfo struct {
	PID     int    `json:"pid"`
	User    string `json:"user"`
	Command string `json:"command"`
}

// FindScanProcesses lists processes whose command line mentions one of the
// given tools. A round started while another invocation is still running
// competes for the same report file, so leftovers are worth flagging.
func FindScanProcesses(names []string) ([]ProcessInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	var found []ProcessInfo

	for _, p := range procs {
		cmdline, err := p.Cmdline()
		if err != nil {
			continue
		}

		if !mentionsTool(cmdline, names) {
			continue
		}

		username := "unknown"
		if uids, err := p.Uids(); err == nil && len(uids) > 0 {
			if u, err := user.LookupId(fmt.Sprintf("%d", uids[0])); err == nil {
				username = u.Username
			}
		}

		found = append(found, ProcessInfo{
			PID:     int(p.Pid),
			User:    username,
			Command: truncateString(cmdline, 200),
		})
	}

	return found, nil
}

func mentionsTool(cmdline string, names []string) bool {
	lower := strings.ToLower(cmdline)
	for _, name := range names {
		if strings.Contains(lower, strings.ToLower(name)) {
			return true
		}
	}
	return false
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
