package check

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCountFindings(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{name: "three findings", content: `{"results":[{"test_id":"B101"},{"test_id":"B301"},{"test_id":"B608"}]}`, want: 3},
		{name: "clean report", content: `{"results":[],"metrics":{}}`, want: 0},
		{name: "malformed json", content: `{"results":[`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}
			got, err := countFindings(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("countFindings: %v", err)
			}
			if got != tt.want {
				t.Fatalf("findings = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountFindingsMissingFile(t *testing.T) {
	if _, err := countFindings(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing report")
	}
}

// TestBanditRunWithStubTool exercises the full path: a stub tool that
// writes the artifact named by -o and exits 1, as bandit does when it
// flags issues.
func TestBanditRunWithStubTool(t *testing.T) {
	skipOnWindows(t)

	target := t.TempDir()
	stub := filepath.Join(t.TempDir(), "stub-bandit")
	script := `#!/bin/sh
# args: -r <dir> -f json -o <report>
printf '{"results":[{"test_id":"B101"},{"test_id":"B608"}]}' > "$6"
exit 1
`
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	c := &banditCheck{bin: stub, sourceDir: "src", report: "scan_report.json"}
	r := c.Run(context.Background(), target)

	if r.Status != StatusIssues {
		t.Fatalf("status = %q, want %q", r.Status, StatusIssues)
	}
	if r.ExitCode != 1 {
		t.Fatalf("exit code = %d, want 1", r.ExitCode)
	}
	if r.Findings != 2 {
		t.Fatalf("findings = %d, want 2", r.Findings)
	}
	if r.ReportPath != "scan_report.json" {
		t.Fatalf("report path = %q, want scan_report.json", r.ReportPath)
	}
	if !strings.Contains(r.Detail, "2 findings") {
		t.Fatalf("detail = %q, want findings count", r.Detail)
	}
	if _, err := os.Stat(filepath.Join(target, "scan_report.json")); err != nil {
		t.Fatalf("artifact not written relative to target: %v", err)
	}
}

func TestBanditRunToolMissing(t *testing.T) {
	skipOnWindows(t)

	c := &banditCheck{bin: "secmon-test-no-such-tool", sourceDir: "src", report: "scan_report.json"}
	r := c.Run(context.Background(), t.TempDir())

	if r.Status != StatusError {
		t.Fatalf("status = %q, want %q", r.Status, StatusError)
	}
	if r.ReportPath != "" {
		t.Fatalf("report path = %q, want empty when tool never ran", r.ReportPath)
	}
	if r.Detail == "" {
		t.Fatal("expected spawn failure detail")
	}
}
