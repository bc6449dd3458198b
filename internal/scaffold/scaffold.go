package scaffold

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bakery-labs/bakery/internal/branding"
	"github.com/bakery-labs/bakery/internal/manifest"
	"github.com/bakery-labs/bakery/internal/marker"
	"github.com/bakery-labs/bakery/internal/render"
)

// Framework describes one framework choice within an archetype.
type Framework struct {
	Name        string
	Description string
	Default     bool
	Context     map[string]any // template defaults for this set
}

// Archetype describes one embedded project archetype.
type Archetype struct {
	Name        string
	Description string
	Frameworks  []Framework
}

// archetypes is the canonical table of embedded template sets. The
// directory for a choice is archetypes/<archetype>-<framework>.
var archetypes = []Archetype{
	{
		Name:        "api",
		Description: "HTTP API service",
		Frameworks: []Framework{
			{Name: "express", Description: "Express with JSON middleware", Default: true,
				Context: map[string]any{"port": 3000}},
			{Name: "fastify", Description: "Fastify with built-in logging",
				Context: map[string]any{"port": 3000}},
		},
	},
	{
		Name:        "web",
		Description: "Static web site",
		Frameworks: []Framework{
			{Name: "static", Description: "Plain HTML/CSS/JS, no build step", Default: true},
		},
	},
}

// Result holds the outcome of a generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// Archetypes returns the embedded archetypes in menu order.
func Archetypes() []Archetype {
	return archetypes
}

// Lookup returns the archetype with the given name.
func Lookup(name string) (*Archetype, bool) {
	for i := range archetypes {
		if archetypes[i].Name == name {
			return &archetypes[i], true
		}
	}
	return nil, false
}

// Framework returns the framework with the given name within a.
func (a *Archetype) Framework(name string) (*Framework, bool) {
	for i := range a.Frameworks {
		if a.Frameworks[i].Name == name {
			return &a.Frameworks[i], true
		}
	}
	return nil, false
}

// DefaultFramework returns the framework marked as default, or the first
// one when none is marked.
func (a *Archetype) DefaultFramework() *Framework {
	for i := range a.Frameworks {
		if a.Frameworks[i].Default {
			return &a.Frameworks[i]
		}
	}
	return &a.Frameworks[0]
}

// SetName returns the embedded directory name for an archetype+framework
// choice.
func SetName(archetype, framework string) string {
	return archetype + "-" + framework
}

// NewProjectContext assembles the base template context for a project
// generation, with derived fields populated. Framework defaults and user
// overrides are merged on top by the caller.
func NewProjectContext(name, archetype, framework string) map[string]any {
	return map[string]any{
		"project_name": name,
		"archetype":    archetype,
		"framework":    framework,
		"description":  fmt.Sprintf("A %s project generated by %s", archetype, branding.CLIName()),
		"version":      "0.1.0",
		"year":         time.Now().Year(),
		"cli_name":     branding.CLIName(),
	}
}

// NewAddonContext assembles the base template context for an addon
// skeleton.
func NewAddonContext(name string) map[string]any {
	return map[string]any{
		"addon_name":  name,
		"description": fmt.Sprintf("%s addon: %s", branding.DisplayName(), name),
		"version":     "0.1.0",
		"year":        time.Now().Year(),
		"cli_name":    branding.CLIName(),
	}
}

// dotfileNames maps stored template names to their dotted output names.
// Dotfiles are stored without the leading dot: a literal .gitignore
// inside the embedded tree would act as repo metadata, and go:embed
// skips dotfiles by default.
var dotfileNames = map[string]string{
	"gitignore":   ".gitignore",
	"env.example": ".env.example",
}

// Generate renders the embedded template set for an archetype+framework
// choice into outputDir. Files ending in .tmpl are rendered with ctx and
// the suffix dropped; everything else is copied verbatim. The output
// directory must be empty.
func Generate(archetype, framework string, ctx map[string]any, outputDir string) (*Result, error) {
	setName := SetName(archetype, framework)
	result, err := generateSet(path.Join("archetypes", setName), setName, ctx, outputDir)
	if err != nil {
		return nil, err
	}

	// Every marker baked into the generated tree must pair up; a broken
	// template would otherwise surface only when the first addon applies.
	for _, rel := range result.Files {
		data, readErr := os.ReadFile(filepath.Join(outputDir, filepath.FromSlash(rel)))
		if readErr != nil {
			continue
		}
		if pairErr := marker.ValidatePairs(string(data), rel); pairErr != nil {
			result.Warnings = append(result.Warnings, pairErr.Error())
		}
	}

	return result, nil
}

// GenerateAddonSkeleton renders the addon authoring set into outputDir
// and validates the generated manifest against the schema.
func GenerateAddonSkeleton(ctx map[string]any, outputDir string) (*Result, error) {
	result, err := generateSet("addon", "addon", ctx, outputDir)
	if err != nil {
		return nil, err
	}

	manifestFile := filepath.Join(outputDir, manifest.AddonFileName)
	if _, err := os.Stat(manifestFile); err == nil {
		valResult, valErr := manifest.ValidateFile(manifestFile)
		if valErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Could not validate manifest: %v", valErr))
		} else if !valResult.Valid {
			for _, issue := range valResult.Issues {
				msg := issue.Message
				if issue.Path != "" {
					msg = issue.Path + ": " + msg
				}
				result.Warnings = append(result.Warnings, msg)
			}
		}
	}

	return result, nil
}

// generateSet walks one embedded template set and materializes it.
func generateSet(setDir, setName string, ctx map[string]any, outputDir string) (*Result, error) {
	if _, err := fs.Stat(assets, setDir); err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", setName, err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Check for existing files to prevent accidental overwrites.
	existing, err := os.ReadDir(outputDir)
	if err == nil && len(existing) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}

	result := &Result{OutputDir: outputDir}

	walkErr := fs.WalkDir(assets, setDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, setDir+"/")
		data, err := fs.ReadFile(assets, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}

		content := data
		if strings.HasSuffix(rel, ".tmpl") {
			rendered, renderErr := render.Render(string(data), ctx)
			if renderErr != nil {
				return fmt.Errorf("rendering %s: %w", rel, renderErr)
			}
			content = []byte(rendered)
		}

		outRel := outputName(rel)
		outPath := filepath.Join(outputDir, filepath.FromSlash(outRel))
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(outPath), err)
		}
		if err := os.WriteFile(outPath, content, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}

		result.Files = append(result.Files, outRel)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return result, nil
}

// outputName strips the .tmpl suffix and restores leading dots on
// dotfile templates.
func outputName(rel string) string {
	rel = strings.TrimSuffix(rel, ".tmpl")
	dir, base := path.Split(rel)
	if dotted, ok := dotfileNames[base]; ok {
		return dir + dotted
	}
	return rel
}
