package check

import (
	"context"
)

// Status classifies the termination of one external check.
//
// A tool that starts and exits non-zero is reported as StatusIssues: the
// scan tools used here (safety, bandit, pytest) signal "findings" through
// their exit status. Only a process that could not be started, or died
// without delivering an exit status, is StatusError. A tool that crashes
// after starting still surfaces a plain exit code and lands in
// StatusIssues; exit conventions cannot distinguish that case.
type Status string

const (
	StatusPass   Status = "pass"
	StatusIssues Status = "issues"
	StatusError  Status = "error"
)

// Label returns the fixed console form of the status.
func (s Status) Label() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusIssues:
		return "ISSUES"
	default:
		return "ERROR"
	}
}

// Checker is a single external verification step run against a project
// directory. Run never returns an error: every outcome, including a tool
// that is not installed, is folded into the Result so that one bad step
// never aborts a round.
type Checker interface {
	Name() string
	Run(ctx context.Context, dir string) Result
}

// Result is the outcome of one check. Immutable once returned.
type Result struct {
	Name            string  `json:"name"`
	Status          Status  `json:"status"`
	ExitCode        int     `json:"exit_code"`
	Detail          string  `json:"detail,omitempty"`
	Findings        int     `json:"findings,omitempty"`
	ReportPath      string  `json:"report,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Failed reports whether the check did not pass, regardless of whether the
// tool found issues or could not run at all.
func (r Result) Failed() bool {
	return r.Status != StatusPass
}
