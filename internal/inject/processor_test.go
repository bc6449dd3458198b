package inject

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/bakery-labs/bakery/internal/render"
)

func boolPtr(b bool) *bool { return &b }

func newMemProcessor(t *testing.T, files map[string]string) (*Processor, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(fsys, path, []byte(content), 0644); err != nil {
			t.Fatalf("seeding %s: %v", path, err)
		}
	}
	return NewProcessor(fsys, render.Render), fsys
}

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(raw)
}

func TestProcess_ContentInjection(t *testing.T) {
	p, fsys := newMemProcessor(t, map[string]string{
		"proj/src/routes.js": "// BAKERY:INJECT:routes\n// BAKERY:END:routes\n",
	})

	results := p.Process(Request{
		ProjectDir: "proj",
		Addon:      "auth",
		Context:    map[string]any{"path": "/auth"},
		Injections: []Definition{
			{File: "src/routes.js", Marker: "routes", Content: "router.use('{{.path}}', authRoutes);"},
		},
	})

	if len(results) != 1 {
		t.Fatalf("results len = %d, want 1", len(results))
	}
	r := results[0]
	if !r.Success {
		t.Fatalf("injection failed: %s", r.Error)
	}
	if r.Addon != "auth" || r.Marker != "routes" || r.File != "src/routes.js" {
		t.Errorf("result = %+v", r)
	}
	if r.LinesAdded != 1 {
		t.Errorf("LinesAdded = %d, want 1", r.LinesAdded)
	}
	got := readFile(t, fsys, "proj/src/routes.js")
	want := "// BAKERY:INJECT:routes\nrouter.use('/auth', authRoutes);\n// BAKERY:END:routes\n"
	if got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestProcess_BatchIsolation(t *testing.T) {
	p, fsys := newMemProcessor(t, map[string]string{
		"proj/a.js": "// BAKERY:INJECT:a\n// BAKERY:END:a\n",
		"proj/c.js": "// BAKERY:INJECT:c\n// BAKERY:END:c\n",
	})

	results := p.Process(Request{
		ProjectDir: "proj",
		Addon:      "multi",
		Injections: []Definition{
			{File: "a.js", Marker: "a", Content: "one();"},
			{File: "b.js", Marker: "b", Content: "two();"}, // no such file
			{File: "c.js", Marker: "c", Content: "three();"},
		},
	})

	if len(results) != 3 {
		t.Fatalf("results len = %d, want 3", len(results))
	}
	if !results[0].Success || !results[2].Success {
		t.Errorf("surrounding injections should succeed: %+v", results)
	}
	if results[1].Success {
		t.Error("missing target should fail")
	}
	if !strings.Contains(results[1].Error, "not found") {
		t.Errorf("error = %q, want not-found", results[1].Error)
	}
	// The failed injection must not create the file.
	if exists, _ := afero.Exists(fsys, "proj/b.js"); exists {
		t.Error("missing target was created")
	}
	if !strings.Contains(readFile(t, fsys, "proj/c.js"), "three();") {
		t.Error("later injection did not run after a failure")
	}
}

func TestProcess_SequentialAccumulation(t *testing.T) {
	p, fsys := newMemProcessor(t, map[string]string{
		"proj/r.js": "// BAKERY:INJECT:r\n// BAKERY:END:r\n",
	})

	results := p.Process(Request{
		ProjectDir: "proj",
		Addon:      "stack",
		Injections: []Definition{
			{File: "r.js", Marker: "r", Content: "first();"},
			{File: "r.js", Marker: "r", Content: "second();"},
		},
	})
	for _, r := range results {
		if !r.Success {
			t.Fatalf("injection failed: %s", r.Error)
		}
	}
	got := readFile(t, fsys, "proj/r.js")
	want := "// BAKERY:INJECT:r\nfirst();\nsecond();\n// BAKERY:END:r\n"
	if got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestProcess_JSONInjection(t *testing.T) {
	p, fsys := newMemProcessor(t, map[string]string{
		"proj/package.json": "{\n  \"name\": \"app\"\n}\n",
	})

	results := p.Process(Request{
		ProjectDir: "proj",
		Addon:      "deps",
		Injections: []Definition{
			{File: "package.json", JSON: map[string]any{
				"dependencies": map[string]any{"helmet": "^7.0.0"},
			}},
		},
	})

	r := results[0]
	if !r.Success {
		t.Fatalf("injection failed: %s", r.Error)
	}
	if r.Marker != JSONMarker {
		t.Errorf("Marker = %q, want %q", r.Marker, JSONMarker)
	}
	// File grew from 3 lines to 6.
	if r.LinesAdded != 3 {
		t.Errorf("LinesAdded = %d, want 3", r.LinesAdded)
	}
	got := readFile(t, fsys, "proj/package.json")
	if !strings.Contains(got, `"helmet": "^7.0.0"`) {
		t.Errorf("file = %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("serialized JSON must end with a newline")
	}
}

func TestProcess_JSONPathInjection(t *testing.T) {
	p, fsys := newMemProcessor(t, map[string]string{
		"proj/package.json": "{\n  \"scripts\": {\n    \"build\": \"tsc\"\n  }\n}\n",
	})

	results := p.Process(Request{
		ProjectDir: "proj",
		Addon:      "scripts",
		Injections: []Definition{
			{File: "package.json", JSONPath: "$.scripts", JSON: map[string]any{"test": "jest"}},
		},
	})
	if !results[0].Success {
		t.Fatalf("injection failed: %s", results[0].Error)
	}
	got := readFile(t, fsys, "proj/package.json")
	if !strings.Contains(got, `"build": "tsc"`) || !strings.Contains(got, `"test": "jest"`) {
		t.Errorf("file = %q", got)
	}
}

func TestProcess_JSONSkipsSpoofCheck(t *testing.T) {
	// Marker-shaped strings inside JSON values are data, not markers.
	p, fsys := newMemProcessor(t, map[string]string{
		"proj/config.json": "{}\n",
	})

	results := p.Process(Request{
		ProjectDir: "proj",
		Addon:      "meta",
		Injections: []Definition{
			{File: "config.json", JSON: map[string]any{"note": "// BAKERY:INJECT:fake"}},
		},
	})
	if !results[0].Success {
		t.Fatalf("injection failed: %s", results[0].Error)
	}
	if !strings.Contains(readFile(t, fsys, "proj/config.json"), "fake") {
		t.Error("value not written")
	}
}

func TestProcess_SpoofingLeavesFileUntouched(t *testing.T) {
	original := "// BAKERY:INJECT:routes\n// BAKERY:END:routes\n"
	p, fsys := newMemProcessor(t, map[string]string{
		"proj/r.js": original,
	})

	results := p.Process(Request{
		ProjectDir: "proj",
		Addon:      "evil",
		Injections: []Definition{
			{File: "r.js", Marker: "routes", Content: "// BAKERY:INJECT:backdoor\n// BAKERY:END:backdoor"},
		},
	})

	r := results[0]
	if r.Success {
		t.Fatal("spoofing payload must fail")
	}
	if !strings.Contains(r.Error, "backdoor") {
		t.Errorf("error = %q, want the introduced name", r.Error)
	}
	if got := readFile(t, fsys, "proj/r.js"); got != original {
		t.Errorf("file changed on spoofing: %q", got)
	}
}

func TestProcess_TemplateFile(t *testing.T) {
	p, fsys := newMemProcessor(t, map[string]string{
		"proj/app.js":             "// BAKERY:INJECT:middleware\n// BAKERY:END:middleware\n",
		"addon/templates/mw.tmpl": "app.use({{.mw}}());",
	})

	results := p.Process(Request{
		ProjectDir:       "proj",
		Addon:            "mw",
		Context:          map[string]any{"mw": "helmet"},
		TemplateBasePath: "addon/templates",
		Injections: []Definition{
			{File: "app.js", Marker: "middleware", Template: "mw.tmpl"},
		},
	})
	if !results[0].Success {
		t.Fatalf("injection failed: %s", results[0].Error)
	}
	if !strings.Contains(readFile(t, fsys, "proj/app.js"), "app.use(helmet());") {
		t.Error("template payload not rendered")
	}
}

func TestProcess_TemplateRequiresBasePath(t *testing.T) {
	p, _ := newMemProcessor(t, map[string]string{
		"proj/app.js": "// BAKERY:INJECT:m\n// BAKERY:END:m\n",
	})

	results := p.Process(Request{
		ProjectDir: "proj",
		Addon:      "mw",
		Injections: []Definition{
			{File: "app.js", Marker: "m", Template: "mw.tmpl"},
		},
	})
	r := results[0]
	if r.Success || !strings.Contains(r.Error, "template base path") {
		t.Errorf("result = %+v, want base-path error", r)
	}
}

func TestProcess_TemplateFileMissing(t *testing.T) {
	p, _ := newMemProcessor(t, map[string]string{
		"proj/app.js": "// BAKERY:INJECT:m\n// BAKERY:END:m\n",
	})

	results := p.Process(Request{
		ProjectDir:       "proj",
		Addon:            "mw",
		TemplateBasePath: "addon/templates",
		Injections: []Definition{
			{File: "app.js", Marker: "m", Template: "missing.tmpl"},
		},
	})
	r := results[0]
	if r.Success || !strings.Contains(r.Error, "template file not found") {
		t.Errorf("result = %+v, want template-not-found error", r)
	}
}

func TestProcess_OptionDefaultsAndOverrides(t *testing.T) {
	p, fsys := newMemProcessor(t, map[string]string{
		"proj/f.js": "  // BAKERY:INJECT:x\n  existing();\n  // BAKERY:END:x\n",
	})

	results := p.Process(Request{
		ProjectDir: "proj",
		Addon:      "opts",
		Injections: []Definition{
			{File: "f.js", Marker: "x", Content: "top();", Position: "start", Indent: boolPtr(false)},
		},
	})
	if !results[0].Success {
		t.Fatalf("injection failed: %s", results[0].Error)
	}
	got := readFile(t, fsys, "proj/f.js")
	want := "  // BAKERY:INJECT:x\ntop();\n  existing();\n  // BAKERY:END:x\n"
	if got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestProcess_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
		want string
	}{
		{
			name: "json with marker",
			def:  Definition{File: "p.json", Marker: "x", JSON: map[string]any{"a": 1}},
			want: "must not name a marker",
		},
		{
			name: "text without marker",
			def:  Definition{File: "f.js", Content: "x"},
			want: "requires a marker",
		},
		{
			name: "no payload",
			def:  Definition{File: "f.js", Marker: "x"},
			want: "exactly one of",
		},
		{
			name: "two payloads",
			def:  Definition{File: "f.js", Marker: "x", Content: "a", Template: "t.tmpl"},
			want: "exactly one of",
		},
		{
			name: "bad position",
			def:  Definition{File: "f.js", Marker: "x", Content: "a", Position: "middle"},
			want: "position",
		},
		{
			name: "jsonPath without json",
			def:  Definition{File: "f.js", Marker: "x", Content: "a", JSONPath: "$.a"},
			want: "jsonPath",
		},
	}

	p, _ := newMemProcessor(t, map[string]string{
		"proj/f.js":   "// BAKERY:INJECT:x\n// BAKERY:END:x\n",
		"proj/p.json": "{}\n",
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := p.Process(Request{ProjectDir: "proj", Addon: "bad", Injections: []Definition{tt.def}})
			r := results[0]
			if r.Success {
				t.Fatal("expected failure")
			}
			if !strings.Contains(r.Error, tt.want) {
				t.Errorf("error = %q, want substring %q", r.Error, tt.want)
			}
		})
	}
}

func TestProcess_LinesAddedFromPayload(t *testing.T) {
	p, _ := newMemProcessor(t, map[string]string{
		"proj/f.js": "// BAKERY:INJECT:x\n// BAKERY:END:x\n",
	})

	results := p.Process(Request{
		ProjectDir: "proj",
		Addon:      "n",
		Injections: []Definition{
			{File: "f.js", Marker: "x", Content: "a();\nb();\nc();"},
		},
	})
	if results[0].LinesAdded != 3 {
		t.Errorf("LinesAdded = %d, want 3", results[0].LinesAdded)
	}
}

func TestProcess_EmptyBatch(t *testing.T) {
	p, _ := newMemProcessor(t, nil)
	results := p.Process(Request{ProjectDir: "proj", Addon: "none"})
	if len(results) != 0 {
		t.Errorf("results = %v, want empty", results)
	}
}
