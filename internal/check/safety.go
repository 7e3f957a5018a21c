package check

import (
	"context"
	"fmt"
)

// safetyCheck runs the dependency vulnerability scanner against the
// project's declared dependency manifest. No arguments beyond defaults:
// safety locates requirements files itself relative to the working
// directory.
type safetyCheck struct {
	bin string
}

// NewSafety returns the dependency vulnerability scan step.
func NewSafety() Checker {
	return &safetyCheck{bin: "safety"}
}

func (c *safetyCheck) Name() string { return "dependency scan" }

func (c *safetyCheck) Run(ctx context.Context, dir string) Result {
	inv := invoke(ctx, dir, c.bin, "check")

	r := Result{
		Name:            c.Name(),
		Status:          inv.status,
		ExitCode:        inv.exitCode,
		DurationSeconds: inv.duration.Seconds(),
	}

	switch inv.status {
	case StatusPass:
		r.Detail = "no known vulnerabilities"
	case StatusIssues:
		r.Detail = fmt.Sprintf("vulnerabilities reported (exit %d)", inv.exitCode)
	default:
		r.Detail = inv.err.Error()
	}
	return r
}
