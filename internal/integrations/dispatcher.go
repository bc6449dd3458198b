package integrations

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bakery-labs/bakery/internal/detect"
)

// ToolResult records the outcome of one tool step.
type ToolResult struct {
	Tool   ToolName `json:"tool"`
	Status string   `json:"status"`
	Detail string   `json:"detail,omitempty"`
}

// Tool step statuses. A generated project is already on disk when these
// run, so failures degrade to warnings instead of aborting.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusWarning = "warning"
)

// Dispatch runs each tool step in order against projectDir and returns
// one result per step. pm selects the package manager for install steps;
// empty means detect from lockfiles.
func Dispatch(projectDir string, tools []ToolName, pm detect.PackageManager) []ToolResult {
	results := make([]ToolResult, 0, len(tools))
	for _, tool := range tools {
		results = append(results, runTool(projectDir, tool, pm))
	}
	return results
}

func runTool(projectDir string, tool ToolName, pm detect.PackageManager) ToolResult {
	cfg, ok := toolRegistry[tool]
	if !ok {
		return ToolResult{Tool: tool, Status: StatusWarning, Detail: "unknown tool"}
	}

	if !cfg.Applies(projectDir) {
		return ToolResult{Tool: tool, Status: StatusSkipped, Detail: cfg.SkipReason}
	}

	bin, args := cfg.Command(projectDir, pm)
	path, err := exec.LookPath(bin)
	if err != nil {
		return ToolResult{
			Tool:   tool,
			Status: StatusWarning,
			Detail: fmt.Sprintf("%s not found on PATH, run %q manually", bin, commandLine(bin, args)),
		}
	}

	cmd := exec.Command(path, args...)
	cmd.Dir = projectDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return ToolResult{
			Tool:   tool,
			Status: StatusWarning,
			Detail: fmt.Sprintf("%s failed: %s", commandLine(bin, args), detail),
		}
	}

	return ToolResult{Tool: tool, Status: StatusOK, Detail: commandLine(bin, args)}
}

func commandLine(bin string, args []string) string {
	return strings.Join(append([]string{bin}, args...), " ")
}
