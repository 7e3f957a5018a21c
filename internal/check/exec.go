package check

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// invocation is the raw outcome of one subprocess run, before a check
// turns it into a Result.
type invocation struct {
	status   Status
	exitCode int
	err      error
	output   string
	duration time.Duration
}

// invoke runs bin with args in dir and classifies the termination status.
// The child runs with the project root as its working directory and is
// killed when ctx is cancelled.
func invoke(ctx context.Context, dir, bin string, args ...string) invocation {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	inv := invocation{
		duration: time.Since(start),
		output:   stdout.String() + stderr.String(),
	}

	if err == nil {
		inv.status = StatusPass
		return inv
	}

	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() >= 0 {
		inv.status = StatusIssues
		inv.exitCode = exitErr.ExitCode()
		return inv
	}

	// Spawn failure (missing binary, bad working directory, permissions)
	// or killed before exiting.
	inv.status = StatusError
	inv.exitCode = -1
	inv.err = err
	return inv
}
