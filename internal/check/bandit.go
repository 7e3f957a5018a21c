package check

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// banditCheck runs the static-analysis security scanner over the
// designated source subdirectory and writes a JSON report to a fixed
// path, overwritten on every run.
type banditCheck struct {
	bin       string
	sourceDir string
	report    string
}

// NewBandit returns the static-analysis scan step. sourceDir and report
// are interpreted relative to the project directory passed to Run.
func NewBandit(sourceDir, report string) Checker {
	return &banditCheck{bin: "bandit", sourceDir: sourceDir, report: report}
}

func (c *banditCheck) Name() string { return "static analysis" }

func (c *banditCheck) Run(ctx context.Context, dir string) Result {
	inv := invoke(ctx, dir, c.bin, "-r", c.sourceDir, "-f", "json", "-o", c.report)

	r := Result{
		Name:            c.Name(),
		Status:          inv.status,
		ExitCode:        inv.exitCode,
		DurationSeconds: inv.duration.Seconds(),
	}

	reportPath := c.report
	if !filepath.IsAbs(reportPath) {
		reportPath = filepath.Join(dir, c.report)
	}
	if _, err := os.Stat(reportPath); err == nil {
		r.ReportPath = c.report
	}

	// Best-effort enrichment: the status derives from the exit code alone,
	// the artifact only puts a number on the line.
	findings, parseErr := countFindings(reportPath)
	if parseErr == nil {
		r.Findings = findings
	}

	switch inv.status {
	case StatusPass:
		r.Detail = "no issues identified"
	case StatusIssues:
		if parseErr == nil {
			r.Detail = fmt.Sprintf("%d findings (report: %s)", findings, c.report)
		} else {
			r.Detail = fmt.Sprintf("issues reported (exit %d)", inv.exitCode)
		}
	default:
		r.Detail = inv.err.Error()
	}
	return r
}

// banditReport mirrors the part of the artifact we read; the rest of the
// schema is ignored by json.Unmarshal.
type banditReport struct {
	Results []struct {
		TestID string `json:"test_id"`
	} `json:"results"`
}

func countFindings(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var doc banditReport
	if err := json.Unmarshal(b, &doc); err != nil {
		return 0, err
	}
	return len(doc.Results), nil
}
