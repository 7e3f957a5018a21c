package check

import (
	"context"
	"runtime"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("subprocess classification tests need a POSIX shell")
	}
}

func TestInvokeClassification(t *testing.T) {
	skipOnWindows(t)

	tests := []struct {
		name     string
		bin      string
		args     []string
		status   Status
		exitCode int
	}{
		{name: "clean exit", bin: "sh", args: []string{"-c", "exit 0"}, status: StatusPass},
		{name: "nonzero exit", bin: "sh", args: []string{"-c", "exit 3"}, status: StatusIssues, exitCode: 3},
		{name: "missing binary", bin: "secmon-test-no-such-tool", status: StatusError, exitCode: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := invoke(context.Background(), t.TempDir(), tt.bin, tt.args...)
			if inv.status != tt.status {
				t.Fatalf("status = %q, want %q", inv.status, tt.status)
			}
			if inv.exitCode != tt.exitCode {
				t.Fatalf("exitCode = %d, want %d", inv.exitCode, tt.exitCode)
			}
			if tt.status == StatusError && inv.err == nil {
				t.Fatal("expected err to be set for StatusError")
			}
		})
	}
}

func TestInvokeBadWorkingDirectory(t *testing.T) {
	skipOnWindows(t)

	inv := invoke(context.Background(), "/secmon-test-no-such-dir", "sh", "-c", "exit 0")
	if inv.status != StatusError {
		t.Fatalf("status = %q, want %q", inv.status, StatusError)
	}
	if inv.err == nil {
		t.Fatal("expected err for unreachable working directory")
	}
}

func TestInvokeCancelledContext(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inv := invoke(ctx, t.TempDir(), "sh", "-c", "sleep 5")
	if inv.status != StatusError {
		t.Fatalf("status = %q, want %q", inv.status, StatusError)
	}
}

func TestInvokeCapturesOutputAndDuration(t *testing.T) {
	skipOnWindows(t)

	inv := invoke(context.Background(), t.TempDir(), "sh", "-c", "echo out; echo err 1>&2")
	if inv.status != StatusPass {
		t.Fatalf("status = %q, want %q", inv.status, StatusPass)
	}
	if inv.output != "out\nerr\n" {
		t.Fatalf("output = %q, want combined stdout+stderr", inv.output)
	}
	if inv.duration <= 0 || inv.duration > time.Minute {
		t.Fatalf("suspicious duration: %v", inv.duration)
	}
}
