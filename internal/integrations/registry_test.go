package integrations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseToolName_AllKnown(t *testing.T) {
	cases := []struct {
		input string
		want  ToolName
	}{
		{"git", Git},
		{"install", Install},
		{"go-mod", GoMod},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			name, ok := ParseToolName(tc.input)
			if !ok {
				t.Fatalf("ParseToolName(%q) returned false, want true", tc.input)
			}
			if name != tc.want {
				t.Fatalf("ParseToolName(%q) = %q, want %q", tc.input, name, tc.want)
			}
		})
	}
}

func TestParseToolName_Invalid(t *testing.T) {
	cases := []string{"unknown", "", "GIT", "npm", "gomod", "go mod"}

	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			name, ok := ParseToolName(input)
			if ok {
				t.Fatalf("ParseToolName(%q) returned true, want false", input)
			}
			if name != "" {
				t.Fatalf("ParseToolName(%q) = %q, want empty string", input, name)
			}
		})
	}
}

func TestAllTools_Count(t *testing.T) {
	tools := AllTools()
	if len(tools) != 3 {
		t.Fatalf("AllTools() returned %d tools, want 3", len(tools))
	}
}

func TestAllTools_GitRunsFirst(t *testing.T) {
	tools := AllTools()
	if len(tools) == 0 || tools[0] != Git {
		t.Fatalf("AllTools() = %v, want Git first", tools)
	}
}

func TestGitApplies(t *testing.T) {
	dir := t.TempDir()

	cfg := toolRegistry[Git]
	if !cfg.Applies(dir) {
		t.Fatal("Git.Applies() = false for a directory without .git, want true")
	}

	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if cfg.Applies(dir) {
		t.Fatal("Git.Applies() = true for an existing repository, want false")
	}
}

func TestInstallApplies(t *testing.T) {
	dir := t.TempDir()

	cfg := toolRegistry[Install]
	if cfg.Applies(dir) {
		t.Fatal("Install.Applies() = true without package.json, want false")
	}

	writeProjectFile(t, dir, "package.json", `{"name":"demo"}`)
	if !cfg.Applies(dir) {
		t.Fatal("Install.Applies() = false with package.json, want true")
	}
}

func TestGoModApplies(t *testing.T) {
	dir := t.TempDir()

	cfg := toolRegistry[GoMod]
	if cfg.Applies(dir) {
		t.Fatal("GoMod.Applies() = true without go.mod, want false")
	}

	writeProjectFile(t, dir, "go.mod", "module demo\n")
	if !cfg.Applies(dir) {
		t.Fatal("GoMod.Applies() = false with go.mod, want true")
	}
}

func TestInstallCommand_ExplicitPackageManager(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "package.json", `{"name":"demo"}`)

	bin, args := toolRegistry[Install].Command(dir, "pnpm")
	if bin != "pnpm" {
		t.Fatalf("Install.Command() binary = %q, want %q", bin, "pnpm")
	}
	if len(args) != 1 || args[0] != "install" {
		t.Fatalf("Install.Command() args = %v, want [install]", args)
	}
}

func TestInstallCommand_DetectsFromLockfile(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "package.json", `{"name":"demo"}`)
	writeProjectFile(t, dir, "yarn.lock", "")

	bin, _ := toolRegistry[Install].Command(dir, "")
	if bin != "yarn" {
		t.Fatalf("Install.Command() binary = %q, want %q", bin, "yarn")
	}
}

func TestGitCommand(t *testing.T) {
	bin, args := toolRegistry[Git].Command(t.TempDir(), "")
	if bin != "git" {
		t.Fatalf("Git.Command() binary = %q, want %q", bin, "git")
	}
	if len(args) != 2 || args[0] != "init" {
		t.Fatalf("Git.Command() args = %v, want [init --quiet]", args)
	}
}

// ─── Test Helpers ───────────────────────────────────────────────────────────

func writeProjectFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
