//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // BAKERY_HOME, sandboxes userdata and config
	SourceDir  string // root of a synthetic addon registry
	ProjectDir string // target project directory
}

// setupTestEnv creates isolated temp directories and points BAKERY_HOME at
// them so nothing touches the real user directories. The env var is
// restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		SourceDir:  t.TempDir(),
		ProjectDir: t.TempDir(),
	}

	t.Setenv("BAKERY_HOME", env.HomeDir)

	return env
}

// setupRegistry creates a synthetic addon registry under dir and returns
// its root. The registry holds two addons: obs/logging (inject-only) and
// security/auth-jwt, which copies a middleware file, renders a route
// template, merges package.json dependencies, and requires obs/logging.
func setupRegistry(t *testing.T, dir string) string {
	t.Helper()

	// --- logging (dependency, inject-only) ---
	writeAddonManifest(t, dir, "addons/obs/logging", `kind: addon
name: logging
version: "0.9.0"
description: Request logging middleware
tags:
  - observability
inject:
  - file: src/server.js
    marker: middleware
    content: "app.use(require('morgan')('combined'));"
  - file: package.json
    json:
      dependencies:
        morgan: "^1.10.0"
`)

	// --- auth-jwt (depends on logging) ---
	writeAddonManifest(t, dir, "addons/security/auth-jwt", `kind: addon
name: auth-jwt
version: "1.2.0"
description: JWT authentication middleware
tags:
  - auth
  - security
compat:
  archetypes:
    - api
requires:
  - addons/obs/logging
files:
  - src: files/middleware/auth.js
    dest: src/middleware/auth.js
inject:
  - file: src/server.js
    marker: imports
    content: "const { requireAuth } = require('./middleware/auth');"
  - file: src/server.js
    marker: routes
    template: templates/protected-route.js.tmpl
  - file: package.json
    json:
      dependencies:
        jsonwebtoken: "^9.0.0"
`)

	writeFile(t, filepath.Join(dir, "addons/security/auth-jwt/files/middleware/auth.js"), `const jwt = require('jsonwebtoken');

function requireAuth(req, res, next) {
  const header = req.headers.authorization || '';
  const token = header.replace(/^Bearer /, '');
  try {
    req.user = jwt.verify(token, process.env.JWT_SECRET);
    next();
  } catch (err) {
    res.status(401).json({ error: 'unauthorized' });
  }
}

module.exports = { requireAuth };
`)

	writeFile(t, filepath.Join(dir, "addons/security/auth-jwt/templates/protected-route.js.tmpl"),
		"app.get('/api/me', requireAuth, (req, res) => res.json({ user: req.user, service: '{{ .project_name }}' }));\n")

	return dir
}

// writeAddonManifest creates an addon.yaml at registryDir/<addonPath>/.
func writeAddonManifest(t *testing.T, registryDir, addonPath, content string) {
	t.Helper()
	dir := filepath.Join(registryDir, addonPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	path := filepath.Join(dir, "addon.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

// assertFileNotContains fails if the file contains substr.
func assertFileNotContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if strings.Contains(string(data), substr) {
		t.Errorf("file %s unexpectedly contains %q", path, substr)
	}
}
