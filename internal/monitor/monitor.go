package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/stackconsult/secmon/internal/scan"
)

// Config is the immutable schedule for a watch run. It is validated once,
// before the first round; the loop itself has no failure path after that.
type Config struct {
	// Iterations is the exact number of rounds to run. Must be >= 1.
	Iterations int
	// Interval is the pause between the end of one round and the start of
	// the next. Must be >= 0; no pause is issued after the final round.
	Interval time.Duration
}

// Validate rejects configurations the loop must never start with.
func (c Config) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %s", c.Interval)
	}
	return nil
}

// Rounder runs one scan round. *scan.Runner satisfies it.
type Rounder interface {
	RunRound(ctx context.Context, index int) *scan.Round
}

// Summary aggregates a completed (or interrupted) watch run.
type Summary struct {
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
	Rounds      []*scan.Round `json:"rounds"`
	Interrupted bool          `json:"interrupted,omitempty"`
}

// FailedChecks counts non-passing check results across all rounds.
func (s *Summary) FailedChecks() int {
	n := 0
	for _, r := range s.Rounds {
		n += r.FailedChecks()
	}
	return n
}

// OK reports whether every check in every round passed.
func (s *Summary) OK() bool { return s.FailedChecks() == 0 }

// Loop drives a Rounder for a fixed number of evenly spaced rounds.
// Failures inside a round are reported and never stop the schedule; only
// context cancellation ends the loop early.
type Loop struct {
	cfg    Config
	runner Rounder
	out    io.Writer
	quiet  bool
	log    *zap.SugaredLogger

	// wait is swapped out by tests to count pauses without real time.
	wait func(ctx context.Context, d time.Duration) error
}

// Option customizes a Loop.
type Option func(*Loop)

// WithOutput redirects the progress lines (default os.Stdout).
func WithOutput(w io.Writer) Option { return func(l *Loop) { l.out = w } }

// WithQuiet suppresses the progress lines entirely.
func WithQuiet(quiet bool) Option { return func(l *Loop) { l.quiet = quiet } }

// WithLogger attaches a diagnostics logger (default no-op).
func WithLogger(log *zap.SugaredLogger) Option { return func(l *Loop) { l.log = log } }

// New validates cfg and returns a ready Loop.
func New(cfg Config, runner Rounder, opts ...Option) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Loop{
		cfg:    cfg,
		runner: runner,
		out:    os.Stdout,
		log:    zap.NewNop().Sugar(),
	}
	l.wait = l.sleep
	for _, o := range opts {
		o(l)
	}
	return l, nil
}

// Run executes exactly cfg.Iterations rounds with cfg.Interval between
// them and returns a summary of everything that ran. The error is non-nil
// only when the context was cancelled; round failures are visible in the
// summary, not in the error.
func (l *Loop) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{StartedAt: time.Now()}

	l.log.Infow("watch started",
		"iterations", l.cfg.Iterations,
		"interval", l.cfg.Interval.String(),
	)

	for i := 1; i <= l.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return l.interrupted(sum, i-1, err)
		}

		round := l.runner.RunRound(ctx, i)
		sum.Rounds = append(sum.Rounds, round)
		l.report(round)

		if i == l.cfg.Iterations {
			break
		}
		if err := l.wait(ctx, l.cfg.Interval); err != nil {
			return l.interrupted(sum, i, err)
		}
	}

	sum.FinishedAt = time.Now()
	if !l.quiet {
		fmt.Fprintf(l.out, "Monitoring complete at %s (%d rounds, %d failed checks)\n",
			sum.FinishedAt.Format(time.RFC3339), len(sum.Rounds), sum.FailedChecks())
	}
	return sum, nil
}

func (l *Loop) report(round *scan.Round) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, "Round %d/%d started at %s\n",
		round.Index, l.cfg.Iterations, round.StartedAt.Format(time.RFC3339))
	for _, res := range round.Results {
		fmt.Fprintf(l.out, "  %s: %s (%s)\n", res.Name, res.Status.Label(), res.Detail)
	}
}

func (l *Loop) interrupted(sum *Summary, completed int, err error) (*Summary, error) {
	sum.Interrupted = true
	sum.FinishedAt = time.Now()
	l.log.Warnw("watch interrupted", "completed_rounds", completed, "err", err.Error())
	return sum, fmt.Errorf("interrupted after %d of %d rounds: %w", completed, l.cfg.Iterations, err)
}

// sleep pauses for d or until ctx is cancelled. A zero interval returns
// immediately, which keeps zero-interval test runs free of real waits.
func (l *Loop) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
