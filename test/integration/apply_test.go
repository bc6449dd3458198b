//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bakery-labs/bakery/internal/manifest"
	"github.com/bakery-labs/bakery/internal/registry"
)

func TestApplyPlanNoDeps(t *testing.T) {
	env := setupTestEnv(t)
	registryDir := setupRegistry(t, env.SourceDir)
	sources := []registry.Source{{Name: "local", BasePath: registryDir}}

	plan, err := registry.BuildApplyPlan("addons/security/auth-jwt", sources, map[string]bool{}, true, "1.0.0", "api")
	if err != nil {
		t.Fatalf("BuildApplyPlan: %v", err)
	}
	if len(plan.Addons) != 1 {
		t.Fatalf("expected 1 addon with no-deps, got %d", len(plan.Addons))
	}
	if plan.Addons[0].Path != "addons/security/auth-jwt" {
		t.Errorf("expected auth-jwt only, got %s", plan.Addons[0].Path)
	}
}

func TestApplyPlanSkipsAppliedSubtree(t *testing.T) {
	env := setupTestEnv(t)
	registryDir := setupRegistry(t, env.SourceDir)
	sources := []registry.Source{{Name: "local", BasePath: registryDir}}

	applied := map[string]bool{
		"addons/security/auth-jwt": true,
		"addons/obs/logging":       true,
	}
	plan, err := registry.BuildApplyPlan("addons/security/auth-jwt", sources, applied, false, "1.0.0", "api")
	if err != nil {
		t.Fatalf("BuildApplyPlan: %v", err)
	}
	if len(plan.Addons) != 0 {
		t.Errorf("expected nothing to apply, got %d addons", len(plan.Addons))
	}
	if plan.SkipCount != 2 {
		t.Errorf("expected skip count 2, got %d", plan.SkipCount)
	}
}

func TestApplyPlanUnknownAddon(t *testing.T) {
	env := setupTestEnv(t)
	registryDir := setupRegistry(t, env.SourceDir)
	sources := []registry.Source{{Name: "local", BasePath: registryDir}}

	_, err := registry.BuildApplyPlan("addons/security/nope", sources, map[string]bool{}, false, "1.0.0", "api")
	if err == nil {
		t.Fatal("expected error for unknown addon, got nil")
	}
	if !strings.Contains(err.Error(), "not found in any source") {
		t.Errorf("expected not-found error, got: %v", err)
	}
}

func TestApplyPlanBareNameResolves(t *testing.T) {
	env := setupTestEnv(t)
	registryDir := setupRegistry(t, env.SourceDir)
	sources := []registry.Source{{Name: "local", BasePath: registryDir}}

	plan, err := registry.BuildApplyPlan("auth-jwt", sources, map[string]bool{}, false, "1.0.0", "api")
	if err != nil {
		t.Fatalf("BuildApplyPlan: %v", err)
	}
	if len(plan.Addons) != 2 {
		t.Fatalf("expected full plan from bare name, got %d addons", len(plan.Addons))
	}
	if plan.Addons[1].Path != "addons/security/auth-jwt" {
		t.Errorf("bare name resolved to %s", plan.Addons[1].Path)
	}
}

func TestApplyPlanAmbiguousBareName(t *testing.T) {
	env := setupTestEnv(t)
	registryDir := setupRegistry(t, env.SourceDir)
	sources := []registry.Source{{Name: "local", BasePath: registryDir}}

	writeAddonManifest(t, registryDir, "addons/db/cache", `kind: addon
name: cache
version: "1.0.0"
description: Database-side cache
`)
	writeAddonManifest(t, registryDir, "addons/http/cache", `kind: addon
name: cache
version: "1.0.0"
description: HTTP response cache
`)

	_, err := registry.BuildApplyPlan("cache", sources, map[string]bool{}, false, "1.0.0", "api")
	if err == nil {
		t.Fatal("expected ambiguity error, got nil")
	}
	if !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("expected ambiguity error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "addons/db/cache") || !strings.Contains(err.Error(), "addons/http/cache") {
		t.Errorf("expected both candidates listed, got: %v", err)
	}
}

func TestApplyPlanCompatWarnsOnArchetypeMismatch(t *testing.T) {
	env := setupTestEnv(t)
	registryDir := setupRegistry(t, env.SourceDir)
	sources := []registry.Source{{Name: "local", BasePath: registryDir}}

	// auth-jwt declares compat with the api archetype only.
	plan, err := registry.BuildApplyPlan("addons/security/auth-jwt", sources, map[string]bool{}, false, "1.0.0", "web")
	if err != nil {
		t.Fatalf("BuildApplyPlan: %v", err)
	}
	if len(plan.Warnings) == 0 {
		t.Fatal("expected a compat warning for the web archetype, got none")
	}
	found := false
	for _, w := range plan.Warnings {
		if strings.Contains(w, "auth-jwt") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected warning naming auth-jwt, got %v", plan.Warnings)
	}
}

func TestCopyAddonFilesNeverClobbers(t *testing.T) {
	env := setupTestEnv(t)
	registryDir := setupRegistry(t, env.SourceDir)
	sources := []registry.Source{{Name: "local", BasePath: registryDir}}

	resolved, err := registry.Resolve("addons/security/auth-jwt", sources)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	m, err := manifest.ParseAddon(resolved.ManifestPath)
	if err != nil {
		t.Fatalf("ParseAddon: %v", err)
	}

	// A user-edited file at the destination must survive the copy.
	sentinel := "// user-owned middleware, do not replace\n"
	dest := filepath.Join(env.ProjectDir, "src/middleware/auth.js")
	writeFile(t, dest, sentinel)

	created, warnings, err := registry.CopyAddonFiles(resolved.Dir, m.Files, env.ProjectDir, map[string]any{})
	if err != nil {
		t.Fatalf("CopyAddonFiles: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("expected no files created, got %v", created)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 skip warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "already exists") {
		t.Errorf("expected already-exists warning, got %q", warnings[0])
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading destination: %v", err)
	}
	if string(data) != sentinel {
		t.Errorf("destination was modified:\n%s", data)
	}
}
