package preflight

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub tools use shell scripts")
	}
}

func writeStubTool(t *testing.T, dir, name, script string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub tool: %v", err)
	}
}

func TestCheckTools(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	writeStubTool(t, dir, "faketool", `echo "faketool 9.9.9"`)
	writeStubTool(t, dir, "chatty", "echo \"chatty 1.0\"\necho \"extra banner line\"")
	t.Setenv("PATH", dir)

	tools := CheckTools(context.Background(), []string{"faketool", "chatty", "no-such-tool"})
	if len(tools) != 3 {
		t.Fatalf("tools = %d, want 3", len(tools))
	}

	if !tools[0].Found {
		t.Fatal("faketool should be found")
	}
	if tools[0].Path != filepath.Join(dir, "faketool") {
		t.Errorf("path = %q, want under %q", tools[0].Path, dir)
	}
	if tools[0].Version != "faketool 9.9.9" {
		t.Errorf("version = %q, want %q", tools[0].Version, "faketool 9.9.9")
	}

	if tools[1].Version != "chatty 1.0" {
		t.Errorf("multi-line banner not trimmed to first line: %q", tools[1].Version)
	}

	if tools[2].Found {
		t.Error("no-such-tool should not be found")
	}
	if tools[2].Path != "" || tools[2].Version != "" {
		t.Errorf("missing tool carries path/version: %+v", tools[2])
	}
}

func TestRequiredToolsOrder(t *testing.T) {
	want := []string{"safety", "bandit", "pytest"}
	got := RequiredTools()
	if len(got) != len(want) {
		t.Fatalf("tools = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tools = %v, want %v", got, want)
		}
	}
}

func TestMentionsTool(t *testing.T) {
	tests := []struct {
		name    string
		cmdline string
		want    bool
	}{
		{name: "direct invocation", cmdline: "/usr/bin/python /usr/local/bin/bandit -r telegram_api", want: true},
		{name: "case insensitive", cmdline: "PYTEST tests/test_basic.py", want: true},
		{name: "unrelated process", cmdline: "/usr/sbin/sshd -D", want: false},
		{name: "empty cmdline", cmdline: "", want: false},
	}

	names := []string{"safety", "bandit", "pytest"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mentionsTool(tt.cmdline, names); got != tt.want {
				t.Errorf("mentionsTool(%q) = %v, want %v", tt.cmdline, got, tt.want)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 80); got != "short" {
		t.Errorf("truncateString(short) = %q", got)
	}

	long := strings.Repeat("x", 100)
	got := truncateString(long, 10)
	if len(got) != 10 {
		t.Errorf("truncated length = %d, want 10", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated string missing ellipsis: %q", got)
	}
}

func TestReportOK(t *testing.T) {
	report := &Report{Tools: []Tool{
		{Name: "safety", Found: true},
		{Name: "bandit", Found: true},
	}}
	if !report.OK() {
		t.Error("all tools found, report should be OK")
	}

	report.Tools = append(report.Tools, Tool{Name: "pytest"})
	if report.OK() {
		t.Error("missing tool, report should not be OK")
	}
}

func TestPrintReport(t *testing.T) {
	report := &Report{
		Host: HostInfo{
			Hostname:      "scanner01",
			Platform:      "debian 12",
			CPUCount:      8,
			MemoryTotalMB: 16000,
			MemoryFreeMB:  9000,
		},
		Tools: []Tool{
			{Name: "safety", Found: true, Path: "/usr/local/bin/safety", Version: "safety 2.3.5"},
			{Name: "pytest", Found: false},
		},
		Processes: []ProcessInfo{
			{PID: 4242, User: "scan", Command: "bandit -r telegram_api"},
		},
	}

	buf := &bytes.Buffer{}
	PrintReport(buf, report)

	got := buf.String()
	for _, want := range []string{
		"Environment Check",
		"Host:       scanner01",
		"safety 2.3.5",
		"missing",
		"Scan tools already running:",
		"PID 4242 (scan): bandit -r telegram_api",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report output missing %q:\n%s", want, got)
		}
	}
}

func TestFindScanProcessesNoMatches(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("process scan test expects procfs")
	}

	procs, err := FindScanProcesses([]string{"zzz-no-such-tool-zzz"})
	if err != nil {
		t.Fatalf("FindScanProcesses: %v", err)
	}
	if len(procs) != 0 {
		t.Fatalf("unexpected matches: %+v", procs)
	}
}

func TestCollectHostInfo(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("host probe test expects procfs")
	}

	info := CollectHostInfo()
	if info.Hostname == "" {
		t.Error("hostname not collected")
	}
	if info.CPUCount < 1 {
		t.Errorf("cpu count = %d, want at least 1", info.CPUCount)
	}
}
