package registry

import (
	"fmt"

	"github.com/bakery-labs/bakery/internal/manifest"
)

// BuildDependencyTree resolves an addon and recursively builds its requires
// tree. It marks nodes as Deduped if they appear more than once in the tree,
// and as Applied if the applied set already contains them.
func BuildDependencyTree(ref string, sources []Source, applied map[string]bool) (*DependencyNode, error) {
	seen := make(map[string]bool)
	return buildNode(ref, sources, applied, seen)
}

func buildNode(ref string, sources []Source, applied, seen map[string]bool) (*DependencyNode, error) {
	// Resolve first so bare names and full paths land on the same node path.
	resolved, err := Resolve(ref, sources)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", ref, err)
	}

	node := &DependencyNode{
		Path:     resolved.Path,
		Resolved: resolved,
	}

	// Check if already seen (dedup).
	if seen[resolved.Path] {
		node.Deduped = true
		return node, nil
	}
	seen[resolved.Path] = true

	// Check if the project has already applied this addon.
	if applied[resolved.Path] {
		node.Applied = true
	}

	// Extract requires from the manifest.
	deps, err := extractRequires(resolved.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading requires from %s: %w", resolved.ManifestPath, err)
	}

	// Recursively build children.
	for _, depRef := range deps {
		child, err := buildNode(depRef, sources, applied, seen)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	return node, nil
}

// extractRequires parses an addon manifest and returns its requires list.
func extractRequires(manifestPath string) ([]string, error) {
	m, err := manifest.ParseAddon(manifestPath)
	if err != nil {
		return nil, err
	}
	return m.Requires, nil
}

// FlattenTree returns all resolved addons in application order (dependencies
// first), with duplicates and already-applied addons removed.
func FlattenTree(root *DependencyNode) []*ResolvedAddon {
	seen := make(map[string]bool)
	var result []*ResolvedAddon
	flattenRecursive(root, seen, &result)
	return result
}

func flattenRecursive(node *DependencyNode, seen map[string]bool, result *[]*ResolvedAddon) {
	if node == nil || node.Deduped || node.Applied || seen[node.Path] {
		return
	}

	// Process children first (dependencies before dependents).
	for _, child := range node.Children {
		flattenRecursive(child, seen, result)
	}

	if !seen[node.Path] && node.Resolved != nil {
		seen[node.Path] = true
		*result = append(*result, node.Resolved)
	}
}
