package integrations

import (
	"os"
	"path/filepath"

	"github.com/bakery-labs/bakery/internal/detect"
)

// ToolName identifies a supported post-generation tool step.
type ToolName string

const (
	Git     ToolName = "git"
	Install ToolName = "install"
	GoMod   ToolName = "go-mod"
)

// ToolConfig describes how one tool step applies to a generated project.
type ToolConfig struct {
	// Applies reports whether the step makes sense for the project.
	Applies func(projectDir string) bool
	// SkipReason explains an Applies=false result.
	SkipReason string
	// Command returns the binary and arguments to run. pm selects the
	// package manager for steps that need one.
	Command func(projectDir string, pm detect.PackageManager) (string, []string)
}

// AllTools returns all supported tool names in run order. The repository
// is initialized first so installs land in a tracked tree.
func AllTools() []ToolName {
	return []ToolName{Git, Install, GoMod}
}

// ParseToolName converts a string to a ToolName, returning false if invalid.
func ParseToolName(s string) (ToolName, bool) {
	switch s {
	case "git":
		return Git, true
	case "install":
		return Install, true
	case "go-mod":
		return GoMod, true
	default:
		return "", false
	}
}

// toolRegistry maps each tool to its applicability check and command line.
var toolRegistry = map[ToolName]ToolConfig{
	Git: {
		Applies: func(projectDir string) bool {
			_, err := os.Stat(filepath.Join(projectDir, ".git"))
			return err != nil
		},
		SkipReason: "already a git repository",
		Command: func(string, detect.PackageManager) (string, []string) {
			return "git", []string{"init", "--quiet"}
		},
	},
	Install: {
		Applies: func(projectDir string) bool {
			_, err := os.Stat(filepath.Join(projectDir, "package.json"))
			return err == nil
		},
		SkipReason: "no package.json",
		Command: func(projectDir string, pm detect.PackageManager) (string, []string) {
			if pm == "" {
				pm = detect.DetectPackageManager(projectDir)
			}
			return string(pm), []string{"install"}
		},
	},
	GoMod: {
		Applies: func(projectDir string) bool {
			_, err := os.Stat(filepath.Join(projectDir, "go.mod"))
			return err == nil
		},
		SkipReason: "no go.mod",
		Command: func(string, detect.PackageManager) (string, []string) {
			return "go", []string{"mod", "tidy"}
		},
	},
}
