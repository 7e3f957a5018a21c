package preflight

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Report is the full preflight picture: host facts, tool resolution, and
// scan-tool processes already running.
type Report struct {
	Host         HostInfo      `json:"host"`
	Tools        []Tool        `json:"tools"`
	Processes    []ProcessInfo `json:"processes,omitempty"`
	ProcessError string        `json:"process_error,omitempty"`
}

// OK reports whether every required tool resolved on PATH.
func (r *Report) OK() bool {
	for _, t := range r.Tools {
		if !t.Found {
			return false
		}
	}
	return true
}

// Run collects a report for the given tool names.
func Run(ctx context.Context, names []string) *Report {
	report := &Report{
		Host:  CollectHostInfo(),
		Tools: CheckTools(ctx, names),
	}

	procs, err := FindScanProcesses(names)
	if err != nil {
		report.ProcessError = err.Error()
		return report
	}
	report.Processes = procs

	return report
}

// PrintReport renders the report for the console.
func PrintReport(w io.Writer, report *Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment Check")
	fmt.Fprintln(w, "=================")
	fmt.Fprintf(w, "Host:       %s\n", report.Host.Hostname)
	fmt.Fprintf(w, "Platform:   %s\n", report.Host.Platform)
	if report.Host.KernelVersion != "" {
		fmt.Fprintf(w, "Kernel:     %s\n", report.Host.KernelVersion)
	}
	fmt.Fprintf(w, "CPUs:       %d\n", report.Host.CPUCount)
	fmt.Fprintf(w, "Memory:     %d MB total, %d MB available\n",
		report.Host.MemoryTotalMB, report.Host.MemoryFreeMB)
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Tool", "Status", "Version", "Path"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, tool := range report.Tools {
		status, version, path := "ok", tool.Version, tool.Path
		if !tool.Found {
			status, version, path = "missing", "-", "-"
		}
		if version == "" {
			version = "-"
		}
		table.Append([]string{tool.Name, status, version, path})
	}

	table.Render()

	if report.ProcessError != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Process listing failed: %s\n", report.ProcessError)
	} else if len(report.Processes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Scan tools already running:")
		for _, p := range report.Processes {
			fmt.Fprintf(w, "  PID %d (%s): %s\n", p.PID, p.User, p.Command)
		}
	}

	fmt.Fprintln(w)
}
