// Package compose turns new-project settings into a resolved plan: a
// validated archetype and framework, the dependency-closed addon list, and
// the merged template context handed to every renderer.
package compose

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bakery-labs/bakery/internal/manifest"
	"github.com/bakery-labs/bakery/internal/registry"
	"github.com/bakery-labs/bakery/internal/scaffold"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Settings carries the raw inputs for a new project, collected from flags
// or from the interactive wizard.
type Settings struct {
	ProjectName string
	Archetype   string
	Framework   string            // empty selects the archetype default
	Addons      []string          // addon references, paths or bare names
	Context     map[string]string // key=value overrides from --context flags
	CLIVersion  string
}

// Plan is the fully resolved result of BuildPlan.
type Plan struct {
	ProjectName string
	Archetype   *scaffold.Archetype
	Framework   *scaffold.Framework

	// Addons is the flattened apply order: dependencies first, shared
	// dependencies deduplicated across all requested addons.
	Addons []*registry.ResolvedAddon

	// Context is the merged template context. Later layers win: framework
	// defaults, then project identity, then addon contributions, then
	// explicit overrides.
	Context map[string]any

	// Warnings collects non-fatal issues (compatibility mismatches,
	// unreadable addon manifests).
	Warnings []string
}

// ValidateProjectName enforces the naming rule shared with addons:
// lowercase alphanumerics and hyphens, starting with an alphanumeric.
func ValidateProjectName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must match pattern [a-z0-9][a-z0-9-]*", name)
	}
	return nil
}

// BuildPlan resolves settings against the configured addon sources.
// Unknown archetypes, frameworks, and addon references are fatal;
// compatibility issues are collected as warnings.
func BuildPlan(settings Settings, sources []registry.Source) (*Plan, error) {
	if err := ValidateProjectName(settings.ProjectName); err != nil {
		return nil, err
	}

	arch, ok := scaffold.Lookup(settings.Archetype)
	if !ok {
		return nil, fmt.Errorf("unknown archetype %q (available: %s)",
			settings.Archetype, strings.Join(archetypeNames(), ", "))
	}

	fw := arch.DefaultFramework()
	if settings.Framework != "" {
		f, ok := arch.Framework(settings.Framework)
		if !ok {
			return nil, fmt.Errorf("archetype %q has no framework %q (available: %s)",
				arch.Name, settings.Framework, strings.Join(frameworkNames(arch), ", "))
		}
		fw = f
	}

	plan := &Plan{
		ProjectName: settings.ProjectName,
		Archetype:   arch,
		Framework:   fw,
	}

	// One applied set across all requested addons so a dependency shared
	// between them is planned once.
	applied := make(map[string]bool)
	for _, ref := range settings.Addons {
		ap, err := registry.BuildApplyPlan(ref, sources, applied, false, settings.CLIVersion, arch.Name)
		if err != nil {
			return nil, fmt.Errorf("resolving addon %q: %w", ref, err)
		}
		for _, addon := range ap.Addons {
			applied[addon.Path] = true
			plan.Addons = append(plan.Addons, addon)
		}
		plan.Warnings = append(plan.Warnings, ap.Warnings...)
	}

	plan.Context = plan.mergeContext(settings)
	return plan, nil
}

// mergeContext layers the template context. Later layers override earlier
// ones; --context values stay strings, which templates render unchanged.
func (p *Plan) mergeContext(settings Settings) map[string]any {
	ctx := make(map[string]any)

	for k, v := range p.Framework.Context {
		ctx[k] = v
	}
	for k, v := range scaffold.NewProjectContext(p.ProjectName, p.Archetype.Name, p.Framework.Name) {
		ctx[k] = v
	}
	for _, addon := range p.Addons {
		m, err := manifest.ParseAddon(addon.ManifestPath)
		if err != nil {
			p.Warnings = append(p.Warnings, fmt.Sprintf("addon %s: %v", addon.Path, err))
			continue
		}
		for k, v := range m.Context {
			ctx[k] = v
		}
	}
	for k, v := range settings.Context {
		ctx[k] = v
	}

	return ctx
}

func archetypeNames() []string {
	archs := scaffold.Archetypes()
	names := make([]string, len(archs))
	for i, a := range archs {
		names[i] = a.Name
	}
	return names
}

func frameworkNames(a *scaffold.Archetype) []string {
	names := make([]string, len(a.Frameworks))
	for i, f := range a.Frameworks {
		names[i] = f.Name
	}
	return names
}
