package registry

import (
	"fmt"
	"io"
	"strings"

	"github.com/bakery-labs/bakery/internal/manifest"
)

// BuildApplyPlan builds an apply plan for the given addon reference.
// If noDeps is true, only the named addon is included (no requires
// resolution). applied holds the paths the project has already applied.
// cliVersion and archetype feed the compatibility warnings.
func BuildApplyPlan(ref string, sources []Source, applied map[string]bool, noDeps bool, cliVersion, archetype string) (*ApplyPlan, error) {
	if noDeps {
		return buildNoDepsPlan(ref, sources, applied, cliVersion, archetype)
	}

	root, err := BuildDependencyTree(ref, sources, applied)
	if err != nil {
		return nil, err
	}

	addons := FlattenTree(root)

	return &ApplyPlan{
		Root:      root,
		Addons:    addons,
		SkipCount: countApplied(root),
		Warnings:  compatWarnings(addons, cliVersion, archetype),
	}, nil
}

func buildNoDepsPlan(ref string, sources []Source, applied map[string]bool, cliVersion, archetype string) (*ApplyPlan, error) {
	resolved, err := Resolve(ref, sources)
	if err != nil {
		return nil, err
	}

	node := &DependencyNode{
		Path:     resolved.Path,
		Resolved: resolved,
		Applied:  applied[resolved.Path],
	}

	plan := &ApplyPlan{Root: node}
	if node.Applied {
		plan.SkipCount = 1
	} else {
		plan.Addons = []*ResolvedAddon{resolved}
		plan.Warnings = compatWarnings(plan.Addons, cliVersion, archetype)
	}
	return plan, nil
}

func countApplied(node *DependencyNode) int {
	if node == nil {
		return 0
	}
	count := 0
	if node.Applied {
		count = 1
	}
	for _, child := range node.Children {
		count += countApplied(child)
	}
	return count
}

// compatWarnings collects compat warnings across every addon in the plan.
func compatWarnings(addons []*ResolvedAddon, cliVersion, archetype string) []string {
	var warnings []string
	for _, a := range addons {
		m, err := manifest.ParseAddon(a.ManifestPath)
		if err != nil {
			continue
		}
		warnings = append(warnings, CheckCompat(m, cliVersion, archetype)...)
	}
	return warnings
}

// PrintTree prints the requires tree with box-drawing characters. The root
// node is printed without a connector.
func PrintTree(w io.Writer, node *DependencyNode, prefix string, isLast bool) {
	if node == nil {
		return
	}

	if prefix == "" {
		fmt.Fprintf(w, "  %s\n", nodeLabel(node))
		for i, child := range node.Children {
			PrintTree(w, child, "  ", i == len(node.Children)-1)
		}
		return
	}

	connector := "├── "
	childIndent := "│   "
	if isLast {
		connector = "└── "
		childIndent = "    "
	}

	fmt.Fprintf(w, "%s%s%s\n", prefix, connector, nodeLabel(node))
	for i, child := range node.Children {
		PrintTree(w, child, prefix+childIndent, i == len(node.Children)-1)
	}
}

func nodeLabel(node *DependencyNode) string {
	label := NameFromPath(node.Path)
	if node.Deduped {
		label += " (deduped)"
	} else if node.Applied {
		label += " (already applied)"
	}
	return label
}

// PrintPlan prints the full apply plan summary.
func PrintPlan(w io.Writer, plan *ApplyPlan) {
	fmt.Fprintln(w, "Resolving addons...")
	fmt.Fprintln(w)

	PrintTree(w, plan.Root, "", true)
	fmt.Fprintln(w)

	if len(plan.Addons) > 0 {
		noun := "addon"
		if len(plan.Addons) != 1 {
			noun = "addons"
		}
		fmt.Fprintf(w, "  Apply: %d %s\n", len(plan.Addons), noun)
	}

	if plan.SkipCount > 0 {
		fmt.Fprintf(w, "  (%d already applied, will be skipped)\n", plan.SkipCount)
	}

	for _, warning := range plan.Warnings {
		fmt.Fprintf(w, "\n  Warning: %s\n", warning)
	}

	fmt.Fprintln(w)
}

// NameFromPath extracts the display name from an addon path.
// "addons/auth-jwt" -> "auth-jwt"
// "addons/db/postgres" -> "db/postgres"
func NameFromPath(addonPath string) string {
	parts := strings.SplitN(addonPath, "/", 2)
	if len(parts) < 2 {
		return addonPath
	}
	return parts[1]
}
