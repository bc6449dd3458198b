package userdata

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitGlobal_CreatesStructure(t *testing.T) {
	tmp := t.TempDir()
	home := filepath.Join(tmp, "home")
	t.Setenv("BAKERY_DATA", home)

	var buf bytes.Buffer
	if err := InitGlobal(&buf); err != nil {
		t.Fatalf("InitGlobal failed: %v", err)
	}

	assertDirExists(t, home)
	assertFileExists(t, filepath.Join(home, "config.yaml"))
	assertFileExists(t, filepath.Join(home, "sources.yaml"))

	assertDirPerm(t, home, DirPermNormal)

	if !strings.Contains(buf.String(), "[ OK ]") {
		t.Error("expected [ OK ] in output")
	}
}

func TestInitGlobal_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("BAKERY_DATA", tmp)

	var buf1 bytes.Buffer
	if err := InitGlobal(&buf1); err != nil {
		t.Fatalf("first InitGlobal failed: %v", err)
	}

	// Second run should succeed with SKIP messages.
	var buf2 bytes.Buffer
	if err := InitGlobal(&buf2); err != nil {
		t.Fatalf("second InitGlobal failed: %v", err)
	}

	output := buf2.String()
	if !strings.Contains(output, "[SKIP]") {
		t.Error("expected [SKIP] messages in second run")
	}

	// Verify files are unchanged.
	data, err := os.ReadFile(filepath.Join(tmp, "config.yaml"))
	if err != nil {
		t.Fatalf("reading config.yaml: %v", err)
	}
	if !strings.Contains(string(data), "color: true") {
		t.Error("config.yaml content was corrupted")
	}
}

func TestInitGlobal_ConfigContent(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("BAKERY_DATA", tmp)

	var buf bytes.Buffer
	if err := InitGlobal(&buf); err != nil {
		t.Fatalf("InitGlobal failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmp, "config.yaml"))
	if err != nil {
		t.Fatalf("reading config.yaml: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "color: true") {
		t.Error("missing color in config.yaml")
	}
	if !strings.Contains(content, "verbose: false") {
		t.Error("missing verbose in config.yaml")
	}
}

func TestInitGlobal_SourcesContent(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("BAKERY_DATA", tmp)

	var buf bytes.Buffer
	if err := InitGlobal(&buf); err != nil {
		t.Fatalf("InitGlobal failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmp, "sources.yaml"))
	if err != nil {
		t.Fatalf("reading sources.yaml: %v", err)
	}
	if !strings.Contains(string(data), "sources: []") {
		t.Error("missing empty sources list in sources.yaml")
	}
}

// Helpers

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("directory %s does not exist: %v", path, err)
	}
	if !info.IsDir() {
		t.Fatalf("%s is not a directory", path)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file %s does not exist: %v", path, err)
	}
	if info.IsDir() {
		t.Fatalf("%s is a directory, expected file", path)
	}
}

func assertDirPerm(t *testing.T, path string, expected os.FileMode) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	actual := info.Mode().Perm()
	if actual != expected {
		t.Errorf("permissions on %s: expected %o, got %o", path, expected, actual)
	}
}
