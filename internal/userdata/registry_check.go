package userdata

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bakery-labs/bakery/internal/manifest"
)

// ManifestReport captures the validation outcome for a single manifest file.
type ManifestReport struct {
	Path   string
	Kind   string
	Valid  bool
	Issues []string
}

// CheckManifests validates every addon and archetype manifest under root and
// prints a line per manifest. It returns the number of invalid manifests.
func CheckManifests(w io.Writer, root string) (int, error) {
	fmt.Fprintln(w, "Manifest check:")

	if _, err := os.Stat(root); os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", root)
		return 0, nil
	}

	reports, err := ValidateTree(root)
	if err != nil {
		return 0, fmt.Errorf("scanning %s: %w", root, err)
	}

	if len(reports) == 0 {
		fmt.Fprintln(w, "  [ OK ] No manifests found")
		return 0, nil
	}

	invalid := 0
	for _, r := range reports {
		rel, relErr := filepath.Rel(root, r.Path)
		if relErr != nil {
			rel = r.Path
		}
		if r.Valid {
			fmt.Fprintf(w, "  [ OK ] %s (%s)\n", rel, r.Kind)
			continue
		}
		invalid++
		fmt.Fprintf(w, "  [FAIL] %s\n", rel)
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "         %s\n", issue)
		}
	}

	if invalid > 0 {
		fmt.Fprintf(w, "\n  %d invalid manifest(s) found\n", invalid)
	}
	return invalid, nil
}

// ValidateTree walks root and validates every manifest file it finds.
func ValidateTree(root string) ([]ManifestReport, error) {
	paths, err := discoverManifests(root)
	if err != nil {
		return nil, err
	}

	var reports []ManifestReport
	for _, p := range paths {
		reports = append(reports, validateOne(p))
	}
	return reports, nil
}

// discoverManifests walks root and collects addon.yaml and archetype.yaml
// paths in walk order.
func discoverManifests(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if name != manifest.AddonFileName && name != manifest.ArchetypeFileName {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	return paths, err
}

// validateOne runs schema validation and a typed parse for one manifest file.
func validateOne(path string) ManifestReport {
	report := ManifestReport{Path: path}

	result, err := manifest.ValidateFile(path)
	if err != nil {
		report.Issues = []string{err.Error()}
		return report
	}
	if !result.Valid {
		for _, issue := range result.Issues {
			if issue.Path != "" {
				report.Issues = append(report.Issues, issue.Path+": "+issue.Message)
			} else {
				report.Issues = append(report.Issues, issue.Message)
			}
		}
		return report
	}

	// Schema passed; a typed parse surfaces the kind and any invariant the
	// schema cannot express.
	parsed, err := manifest.ParseFile(path)
	if err != nil {
		report.Issues = []string{err.Error()}
		return report
	}
	switch m := parsed.(type) {
	case *manifest.AddonManifest:
		report.Kind = manifest.KindAddon
		for i, def := range m.Inject {
			if vErr := def.Validate(); vErr != nil {
				report.Issues = append(report.Issues, fmt.Sprintf("inject[%d]: %v", i, vErr))
			}
		}
	case *manifest.ArchetypeManifest:
		report.Kind = manifest.KindArchetype
	}

	report.Valid = len(report.Issues) == 0
	return report
}
