//go:build integration

package integration_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bakery-labs/bakery/internal/compose"
	"github.com/bakery-labs/bakery/internal/marker"
	"github.com/bakery-labs/bakery/internal/scaffold"
)

// TestEveryArchetypeGeneratesMarkedTree generates each archetype/framework
// combination and checks the output: no template syntax left behind, valid
// package.json, and every marker file parses with paired regions.
func TestEveryArchetypeGeneratesMarkedTree(t *testing.T) {
	for _, arch := range scaffold.Archetypes() {
		for _, fw := range arch.Frameworks {
			t.Run(arch.Name+"/"+fw.Name, func(t *testing.T) {
				outputDir := t.TempDir()
				composed, err := compose.BuildPlan(compose.Settings{
					ProjectName: "probe",
					Archetype:   arch.Name,
					Framework:   fw.Name,
					CLIVersion:  "1.0.0",
				}, nil)
				if err != nil {
					t.Fatalf("BuildPlan: %v", err)
				}

				result, err := scaffold.Generate(arch.Name, fw.Name, composed.Context, outputDir)
				if err != nil {
					t.Fatalf("Generate: %v", err)
				}
				if len(result.Files) == 0 {
					t.Fatal("expected generated files, got none")
				}

				assertFileExists(t, filepath.Join(outputDir, "package.json"))
				assertFileExists(t, filepath.Join(outputDir, "README.md"))

				pkgData, err := os.ReadFile(filepath.Join(outputDir, "package.json"))
				if err != nil {
					t.Fatalf("reading package.json: %v", err)
				}
				var pkg map[string]any
				if err := json.Unmarshal(pkgData, &pkg); err != nil {
					t.Fatalf("generated package.json is not valid JSON: %v", err)
				}
				if pkg["name"] != "probe" {
					t.Errorf("expected package name probe, got %v", pkg["name"])
				}

				checkGeneratedTree(t, outputDir)
			})
		}
	}
}

// checkGeneratedTree walks the generated output, failing on leftover
// template syntax and on unparseable marker files.
func checkGeneratedTree(t *testing.T, root string) {
	t.Helper()

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			t.Errorf("reading %s: %v", path, readErr)
			return nil
		}
		content := string(data)

		if strings.Contains(content, "{{") {
			t.Errorf("unrendered template syntax in %s", path)
		}

		if strings.Contains(content, marker.Keyword+":INJECT:") {
			regions, parseErr := marker.Parse(content, path)
			if parseErr != nil {
				t.Errorf("markers in %s do not parse: %v", path, parseErr)
				return nil
			}
			if len(regions) == 0 {
				t.Errorf("expected regions in %s, got none", path)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking generated tree: %v", err)
	}
}

// TestGenerateRejectsUnknownFramework locks in the error shape the CLI
// relays when a framework does not belong to the archetype.
func TestGenerateRejectsUnknownFramework(t *testing.T) {
	_, err := compose.BuildPlan(compose.Settings{
		ProjectName: "probe",
		Archetype:   "api",
		Framework:   "django",
		CLIVersion:  "1.0.0",
	}, nil)
	if err == nil {
		t.Fatal("expected error for unknown framework, got nil")
	}
	if !strings.Contains(err.Error(), `no framework "django"`) {
		t.Errorf("expected framework error, got: %v", err)
	}
}
