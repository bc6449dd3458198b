package registry

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bakery-labs/bakery/internal/manifest"
)

// Resolve searches for an addon across sources in priority order.
// ref may be a full path ("addons/auth-jwt") or a bare name ("auth-jwt");
// bare names must match exactly one addon across all sources.
// Sources are searched in slice order (first source = highest priority).
func Resolve(ref string, sources []Source) (*ResolvedAddon, error) {
	if strings.Contains(ref, "/") {
		return resolvePath(ref, sources)
	}
	return resolveName(ref, sources)
}

// resolvePath resolves a full registry-relative path.
func resolvePath(addonPath string, sources []Source) (*ResolvedAddon, error) {
	category := categoryFromPath(addonPath)
	if category == "" {
		return nil, fmt.Errorf("cannot determine category from path %q", addonPath)
	}

	manifestName := manifestNameForCategory(category)
	for _, src := range sources {
		dir := filepath.Join(src.BasePath, filepath.FromSlash(addonPath))
		manifestPath := filepath.Join(dir, manifestName)
		if _, err := os.Stat(manifestPath); err != nil {
			continue // not found in this source
		}
		return &ResolvedAddon{
			Path:         addonPath,
			ManifestPath: manifestPath,
			Dir:          dir,
			Source:       src.Name,
			Category:     category,
		}, nil
	}

	return nil, fmt.Errorf("addon %q not found in any source", addonPath)
}

// resolveName resolves a bare addon name by scanning all sources. An
// ambiguous name lists the candidate paths so the caller can disambiguate.
func resolveName(name string, sources []Source) (*ResolvedAddon, error) {
	all, err := DiscoverByCategory(sources, "addon")
	if err != nil {
		return nil, err
	}

	var matches []*ResolvedAddon
	for _, a := range all {
		if path.Base(a.Path) == name {
			matches = append(matches, a)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("addon %q not found in any source", name)
	case 1:
		return matches[0], nil
	default:
		paths := make([]string, len(matches))
		for i, m := range matches {
			paths[i] = m.Path
		}
		sort.Strings(paths)
		return nil, fmt.Errorf("addon name %q is ambiguous: %s", name, strings.Join(paths, ", "))
	}
}

// categoryFromPath extracts the singular category name from an addon path.
// "addons/auth-jwt" -> "addon"
// "archetypes/api" -> "archetype"
func categoryFromPath(addonPath string) string {
	parts := strings.SplitN(addonPath, "/", 2)
	if len(parts) == 0 {
		return ""
	}

	switch parts[0] {
	case "addons":
		return "addon"
	case "archetypes":
		return "archetype"
	default:
		return ""
	}
}

// manifestNameForCategory returns the canonical manifest file name for a
// category.
func manifestNameForCategory(category string) string {
	if category == "archetype" {
		return manifest.ArchetypeFileName
	}
	return manifest.AddonFileName
}
