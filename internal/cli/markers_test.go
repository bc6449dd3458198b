package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanOneFindsRegions(t *testing.T) {
	dir := t.TempDir()
	path := writeMarkerFile(t, dir, "server.js",
		"const app = express();\n"+
			"// BAKERY:INJECT:routes\n"+
			"// BAKERY:END:routes\n"+
			"app.listen(3000);\n")

	entries, issues, err := scanOne(path, "server.js")
	if err != nil {
		t.Fatalf("scanOne: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Marker != "routes" {
		t.Errorf("expected marker routes, got %q", e.Marker)
	}
	if e.StartLine != 2 || e.EndLine != 3 {
		t.Errorf("expected lines 2-3, got %d-%d", e.StartLine, e.EndLine)
	}
	if e.Style != "js" {
		t.Errorf("expected js style, got %q", e.Style)
	}
}

func TestScanOneReportsMalformedPairs(t *testing.T) {
	dir := t.TempDir()
	path := writeMarkerFile(t, dir, "broken.js",
		"// BAKERY:INJECT:routes\n"+
			"app.listen(3000);\n")

	entries, issues, err := scanOne(path, "broken.js")
	if err != nil {
		t.Fatalf("scanOne: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries for malformed file, got %d", len(entries))
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].File != "broken.js" {
		t.Errorf("expected issue attributed to broken.js, got %q", issues[0].File)
	}
}

func TestScanOneSkipsBinaryFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	if err := os.WriteFile(path, []byte{0x00, 0x01, 0x02, '\n'}, 0o644); err != nil {
		t.Fatalf("writing binary file: %v", err)
	}

	entries, issues, err := scanOne(path, "blob.bin")
	if err != nil {
		t.Fatalf("scanOne: %v", err)
	}
	if len(entries) != 0 || len(issues) != 0 {
		t.Errorf("expected binary file to be skipped, got entries=%d issues=%d", len(entries), len(issues))
	}
}

func TestScanTreeSkipsExcludedDirs(t *testing.T) {
	dir := t.TempDir()
	writeMarkerFile(t, dir, "src/app.js",
		"// BAKERY:INJECT:imports\n// BAKERY:END:imports\n")
	writeMarkerFile(t, dir, "node_modules/pkg/index.js",
		"// BAKERY:INJECT:imports\n// BAKERY:END:imports\n")

	entries, issues, err := scanTree(dir)
	if err != nil {
		t.Fatalf("scanTree: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry (node_modules skipped), got %d", len(entries))
	}
	if entries[0].File != "src/app.js" {
		t.Errorf("expected src/app.js, got %q", entries[0].File)
	}
}

func TestScanTreeMultipleStyles(t *testing.T) {
	dir := t.TempDir()
	writeMarkerFile(t, dir, "app.py",
		"# BAKERY:INJECT:config\n# BAKERY:END:config\n")
	writeMarkerFile(t, dir, "index.html",
		"<!-- BAKERY:INJECT:nav -->\n<!-- BAKERY:END:nav -->\n")

	entries, _, err := scanTree(dir)
	if err != nil {
		t.Fatalf("scanTree: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	bystyle := make(map[string]string)
	for _, e := range entries {
		bystyle[e.File] = e.Style
	}
	if bystyle["app.py"] != "python" {
		t.Errorf("expected python style for app.py, got %q", bystyle["app.py"])
	}
	if bystyle["index.html"] != "html" {
		t.Errorf("expected html style for index.html, got %q", bystyle["index.html"])
	}
}

// ─── Test Helpers ──────────────────────────────────────────────────

func writeMarkerFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", rel, err)
	}
	return path
}
