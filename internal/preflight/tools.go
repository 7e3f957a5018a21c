package preflight

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

// Tool describes one external scanner binary.
type Tool struct {
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Found   bool   `json:"found"`
}

// RequiredTools returns the binaries a scan round invokes, in check order.
func RequiredTools() []string {
	return []string{"safety", "bandit", "pytest"}
}

// CheckTools resolves each binary on PATH and captures its version banner.
func CheckTools(ctx context.Context, names []string) []Tool {
	tools := make([]Tool, 0, len(names))
	for _, name := range names {
		tools = append(tools, checkTool(ctx, name))
	}
	return tools
}

func checkTool(ctx context.Context, name string) Tool {
	tool := Tool{Name: name}

	path, err := exec.LookPath(name)
	if err != nil {
		return tool
	}

	tool.Path = path
	tool.Found = true
	tool.Version = toolVersion(ctx, path)
	return tool
}

func toolVersion(ctx context.Context, path string) string {
	vctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(vctx, path, "--version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return ""
	}

	line, _, _ := strings.Cut(strings.TrimSpace(out.String()), "\n")
	return strings.TrimSpace(line)
}
