package check

import (
	"context"
	"fmt"
)

// pytestCheck runs the functional test suite entry point in verbose mode
// with short tracebacks.
type pytestCheck struct {
	bin   string
	entry string
}

// NewPytest returns the test suite step. entry is interpreted relative to
// the project directory passed to Run.
func NewPytest(entry string) Checker {
	return &pytestCheck{bin: "pytest", entry: entry}
}

func (c *pytestCheck) Name() string { return "test suite" }

func (c *pytestCheck) Run(ctx context.Context, dir string) Result {
	inv := invoke(ctx, dir, c.bin, c.entry, "-v", "--tb=short")

	r := Result{
		Name:            c.Name(),
		Status:          inv.status,
		ExitCode:        inv.exitCode,
		DurationSeconds: inv.duration.Seconds(),
	}

	switch inv.status {
	case StatusPass:
		r.Detail = "all tests passed"
	case StatusIssues:
		r.Detail = fmt.Sprintf("test failures (exit %d)", inv.exitCode)
	default:
		r.Detail = inv.err.Error()
	}
	return r
}
