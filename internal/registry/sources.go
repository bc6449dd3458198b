package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bakery-labs/bakery/internal/branding"
	"github.com/bakery-labs/bakery/internal/userdata"
)

// BuildSources constructs the resolution sources from the current
// environment. userDirs are source directories the user registered with
// 'sources add'; they come last in priority.
//
// Resolution order:
//  1. BAKERY_HOME registry (contributor mode, catalog checkout)
//  2. Binary-relative ../registry (bundled releases)
//  3. ~/.bakery/catalog-repo/registry (end-user mode)
//  4. User-registered source directories
func BuildSources(userDirs []string) ([]Source, error) {
	var sources []Source

	// 1. Contributor mode: the registry inside a catalog checkout.
	if checkoutRegistry, ok := userdata.GetContributorRegistryRoot(); ok {
		if info, err := os.Stat(checkoutRegistry); err == nil && info.IsDir() {
			sources = append(sources, Source{Name: "checkout", BasePath: checkoutRegistry})
		}
		if len(sources) > 0 {
			return appendUserSources(sources, userDirs), nil
		}
	}

	// 2. Try to find a registry relative to the executable (bundled release).
	exe, err := os.Executable()
	if err == nil {
		exeRegistry := filepath.Join(filepath.Dir(exe), "..", userdata.RegistryDir)
		if info, err := os.Stat(exeRegistry); err == nil && info.IsDir() {
			sources = append(sources, Source{Name: "bundled", BasePath: exeRegistry})
		}
	}

	// 3. End-user mode: the fetched catalog registry.
	catalogRegistry, err := userdata.GetCatalogRegistryRoot()
	if err == nil {
		if info, statErr := os.Stat(catalogRegistry); statErr == nil && info.IsDir() {
			sources = append(sources, Source{Name: "catalog", BasePath: catalogRegistry})
		}
	}

	sources = appendUserSources(sources, userDirs)

	if len(sources) == 0 {
		return nil, fmt.Errorf("no addon sources found. Run '%s catalog update' to fetch the community catalog", branding.CLIName())
	}

	return sources, nil
}

// appendUserSources appends each registered directory as a source named
// after its base name.
func appendUserSources(sources []Source, userDirs []string) []Source {
	for _, dir := range userDirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		sources = append(sources, Source{
			Name:     filepath.Base(dir),
			BasePath: dir,
		})
	}
	return sources
}
