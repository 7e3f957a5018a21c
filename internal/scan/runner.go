package scan

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/stackconsult/secmon/internal/check"
)

// Runner executes rounds of checks against a target project directory.
// The directory is not validated up front: if it is missing or unreadable,
// every check reports its own spawn failure and the round still completes.
type Runner struct {
	dir    string
	checks []check.Checker
	log    *zap.SugaredLogger
}

// New returns a Runner over the given ordered checks.
func New(dir string, checks []check.Checker, log *zap.SugaredLogger) *Runner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Runner{dir: dir, checks: checks, log: log}
}

// Round is one complete pass through the configured checks.
type Round struct {
	Index     int            `json:"round"`
	StartedAt time.Time      `json:"started_at"`
	Results   []check.Result `json:"results"`
}

// FailedChecks counts results that did not pass.
func (r *Round) FailedChecks() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}
	return n
}

// OK reports whether every check in the round passed.
func (r *Round) OK() bool { return r.FailedChecks() == 0 }

// RunRound executes every check in order and returns their results as one
// round. A failing check never prevents the next one from running, so the
// round always carries exactly one result per configured check.
func (r *Runner) RunRound(ctx context.Context, index int) *Round {
	round := &Round{Index: index, StartedAt: time.Now()}

	for _, c := range r.checks {
		res := c.Run(ctx, r.dir)
		r.log.Debugw("check finished",
			"round", index,
			"check", res.Name,
			"status", string(res.Status),
			"exit_code", res.ExitCode,
			"duration_s", res.DurationSeconds,
		)
		round.Results = append(round.Results, res)
	}

	return round
}
