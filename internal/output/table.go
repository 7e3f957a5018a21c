package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/stackconsult/secmon/internal/monitor"
	"github.com/stackconsult/secmon/internal/scan"
)

// PrintRound renders a single scan round as a table.
func PrintRound(w io.Writer, round *scan.Round) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Security Scan Results")
	fmt.Fprintln(w, "=====================")
	fmt.Fprintf(w, "Round:      %d\n", round.Index)
	fmt.Fprintf(w, "Started:    %s\n", round.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Checks:     %d\n", len(round.Results))
	fmt.Fprintf(w, "Failed:     %d\n", round.FailedChecks())
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Check", "Status", "Exit", "Duration", "Detail"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, res := range round.Results {
		table.Append([]string{
			res.Name,
			res.Status.Label(),
			strconv.Itoa(res.ExitCode),
			fmt.Sprintf("%.1fs", res.DurationSeconds),
			res.Detail,
		})
	}

	table.Render()
	fmt.Fprintln(w)
}

// PrintSummary renders the outcome of a monitoring run, one row per round.
func PrintSummary(w io.Writer, sum *monitor.Summary) {
	status := "complete"
	if sum.Interrupted {
		status = "interrupted"
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Monitoring Summary")
	fmt.Fprintln(w, "==================")
	fmt.Fprintf(w, "Started:    %s\n", sum.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Finished:   %s\n", sum.FinishedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Status:     %s\n", status)
	fmt.Fprintf(w, "Rounds:     %d\n", len(sum.Rounds))
	fmt.Fprintf(w, "Failed:     %d\n", sum.FailedChecks())

	if len(sum.Rounds) == 0 {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Round", "Started", "Failed", "Failing Checks"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, round := range sum.Rounds {
		table.Append([]string{
			strconv.Itoa(round.Index),
			round.StartedAt.Format(time.RFC3339),
			strconv.Itoa(round.FailedChecks()),
			failingNames(round),
		})
	}

	table.Render()
	fmt.Fprintln(w)
}

func failingNames(round *scan.Round) string {
	var names []string
	for _, res := range round.Results {
		if res.Failed() {
			names = append(names, res.Name)
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
