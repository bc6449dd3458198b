package userdata

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bakery-labs/bakery/internal/branding"
	"github.com/bakery-labs/bakery/internal/manifest"
)

// CheckHome validates the home directory structure.
// When fix is true, it attempts to repair issues.
func CheckHome(w io.Writer, fix bool) error {
	root, err := GetHomeRoot()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Home check:")

	// Check root exists.
	if _, statErr := os.Stat(root); os.IsNotExist(statErr) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", root)
		if fix {
			fmt.Fprintln(w, "  [FIX ] Running init --global...")
			if initErr := InitGlobal(w); initErr != nil {
				return fmt.Errorf("auto-fix init: %w", initErr)
			}
		} else {
			fmt.Fprintf(w, "         Run '%s init --global' to create\n", branding.CLIName())
		}
		return nil
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", root)

	// Check config.yaml.
	checkSeedFile(w, filepath.Join(root, ConfigFile), defaultConfigContent, fix)

	// Check sources.yaml.
	checkSeedFile(w, filepath.Join(root, SourcesFile), defaultSourcesContent, fix)

	// Check the catalog registry.
	checkCatalog(w)

	return nil
}

// CheckSources reports the health of registered addon source directories.
// Each directory must exist and hold at least one addon manifest.
func CheckSources(w io.Writer, dirs []string) {
	fmt.Fprintln(w, "Sources check:")

	if len(dirs) == 0 {
		fmt.Fprintln(w, "  [ OK ] No sources registered")
		return
	}

	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			fmt.Fprintf(w, "  [MISS] %s does not exist\n", dir)
			continue
		}
		if err != nil {
			fmt.Fprintf(w, "  [FAIL] %s: %v\n", dir, err)
			continue
		}
		if !info.IsDir() {
			fmt.Fprintf(w, "  [WARN] %s is not a directory\n", dir)
			continue
		}
		if !ContainsManifest(dir) {
			fmt.Fprintf(w, "  [WARN] %s holds no %s\n", dir, manifest.AddonFileName)
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s\n", dir)
	}
}

// ContainsManifest reports whether dir holds at least one addon manifest,
// at any depth.
func ContainsManifest(dir string) bool {
	found := false
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && d.Name() == manifest.AddonFileName {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// checkSeedFile verifies a home file exists, creating it from the seed
// content when fix is set.
func checkSeedFile(w io.Writer, path, seed string, fix bool) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", path)
		if fix {
			if writeErr := os.WriteFile(path, []byte(seed), FilePermNormal); writeErr != nil {
				fmt.Fprintf(w, "  [FAIL] Could not create %s: %v\n", path, writeErr)
				return
			}
			fmt.Fprintf(w, "  [FIX ] Created %s\n", path)
		}
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", path)
}

// checkCatalog reports whether the community catalog has been fetched.
func checkCatalog(w io.Writer) {
	registryRoot, err := GetCatalogRegistryRoot()
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] catalog: %v\n", err)
		return
	}

	exists, err := CatalogExists()
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", registryRoot, err)
		return
	}
	if !exists {
		fmt.Fprintf(w, "  [MISS] %s has no catalog entries\n", registryRoot)
		fmt.Fprintf(w, "         Run '%s catalog update' to fetch the community catalog\n", branding.CLIName())
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", registryRoot)
}
