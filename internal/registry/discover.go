package registry

import (
	"os"
	"path/filepath"

	"github.com/bakery-labs/bakery/internal/manifest"
)

// knownCategories are the top-level registry directories.
var knownCategories = []string{
	"addons",
	"archetypes",
}

// DiscoveredAddon represents an addon found in a source, enriched with
// manifest metadata.
type DiscoveredAddon struct {
	Path        string   // e.g., "addons/auth-jwt"
	Name        string   // display name from manifest
	Version     string   // version from manifest
	Description string   // description from manifest
	Tags        []string // tags from manifest
	Source      string   // which source it was found in
	Archetypes  []string // compatible archetypes from the manifest (empty = any)
	Requires    []string // addon dependencies
}

// DiscoverAll walks all sources and returns every available addon enriched
// with manifest metadata. Addons found in earlier sources take priority
// (later duplicates are skipped).
func DiscoverAll(sources []Source) ([]DiscoveredAddon, error) {
	resolved, err := DiscoverByCategory(sources, "addon")
	if err != nil {
		return nil, err
	}

	var result []DiscoveredAddon
	for _, r := range resolved {
		da := DiscoveredAddon{
			Path:   r.Path,
			Name:   NameFromPath(r.Path),
			Source: r.Source,
		}

		// Enrich with manifest metadata if parseable.
		m, err := manifest.ParseAddon(r.ManifestPath)
		if err == nil {
			if m.Name != "" {
				da.Name = m.Name
			}
			da.Version = m.Version
			da.Description = m.Description
			da.Tags = m.Tags
			da.Requires = m.Requires
			if m.Compat != nil {
				da.Archetypes = m.Compat.Archetypes
			}
		}

		result = append(result, da)
	}

	return result, nil
}

// DiscoverByCategory walks all sources and returns every entry of the given
// category ("addon" or "archetype") that has a manifest. Entries found in
// earlier sources take priority.
func DiscoverByCategory(sources []Source, category string) ([]*ResolvedAddon, error) {
	seen := make(map[string]bool)
	var result []*ResolvedAddon

	for _, src := range sources {
		entries, err := walkSource(src)
		if err != nil {
			continue // skip inaccessible sources
		}
		for _, e := range entries {
			if e.Category != category {
				continue
			}
			if !seen[e.Path] {
				seen[e.Path] = true
				result = append(result, e)
			}
		}
	}

	return result, nil
}

// walkSource walks a single source directory and finds all addons and
// archetypes with manifests at any nesting depth. Only the manifest name
// matching the category directory counts, so an archetype.yaml stranded
// under addons/ is ignored.
func walkSource(source Source) ([]*ResolvedAddon, error) {
	var result []*ResolvedAddon

	for _, cat := range knownCategories {
		catDir := filepath.Join(source.BasePath, cat)
		if _, err := os.Stat(catDir); err != nil {
			continue
		}
		wantManifest := manifestNameForCategory(categoryFromPath(cat))

		err := filepath.WalkDir(catDir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil // skip inaccessible entries
			}
			if d.IsDir() {
				return nil
			}
			if d.Name() != wantManifest {
				return nil
			}

			// Build the addon path from the directory relative to source root.
			dir := filepath.Dir(path)
			relDir, err := filepath.Rel(source.BasePath, dir)
			if err != nil {
				return nil
			}
			addonPath := filepath.ToSlash(relDir)

			result = append(result, &ResolvedAddon{
				Path:         addonPath,
				ManifestPath: path,
				Dir:          dir,
				Source:       source.Name,
				Category:     categoryFromPath(addonPath),
			})

			return nil
		})
		if err != nil {
			continue
		}
	}

	return result, nil
}
