package render

import (
	"strings"
	"testing"
)

func TestRender_Substitution(t *testing.T) {
	got, err := Render("app {{.name}} on port {{.port}}", map[string]any{
		"name": "shop",
		"port": 3000,
	})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got != "app shop on port 3000" {
		t.Errorf("got %q", got)
	}
}

func TestRender_PlainTextPassesThrough(t *testing.T) {
	got, err := Render("router.use('/auth', authRoutes);", nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got != "router.use('/auth', authRoutes);" {
		t.Errorf("got %q", got)
	}
}

func TestRender_MissingVariable(t *testing.T) {
	_, err := Render("hello {{.missing}}", map[string]any{"name": "x"})
	if err == nil {
		t.Fatal("expected error for missing variable, got nil")
	}
	if !strings.Contains(err.Error(), "rendering template") {
		t.Errorf("error = %v, want rendering context", err)
	}
}

func TestRender_BadSyntax(t *testing.T) {
	_, err := Render("{{.unclosed", nil)
	if err == nil {
		t.Fatal("expected parse error, got nil")
	}
	if !strings.Contains(err.Error(), "parsing template") {
		t.Errorf("error = %v, want parsing context", err)
	}
}

func TestRender_Multiline(t *testing.T) {
	text := "line one {{.x}}\nline two {{.x}}\n"
	got, err := Render(text, map[string]any{"x": "v"})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got != "line one v\nline two v\n" {
		t.Errorf("got %q", got)
	}
}
