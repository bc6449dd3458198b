package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bakery-labs/bakery/internal/branding"
)

// Directory and file name constants under the home directory (~/.bakery).
const (
	CatalogRepoDir  = "catalog-repo"
	RegistryDir     = "registry"
	ConfigFile      = "config.yaml"
	SourcesFile     = "sources.yaml"
	AddonCacheFile  = "addon-cache.json"
	UpdateCacheFile = "update-check.json"
)

// Permission constants.
const (
	DirPermNormal  os.FileMode = 0755
	FilePermNormal os.FileMode = 0644
)

// GetHomeRoot returns the path to the home directory.
// It checks the BAKERY_DATA environment variable first,
// then falls back to ~/.bakery.
func GetHomeRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("DATA")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir()), nil
}

// GetCatalogRepoRoot returns the path to the catalog git repo directory.
// Checks BAKERY_CATALOG env override first, then falls back to ~/.bakery/catalog-repo.
func GetCatalogRepoRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("CATALOG")); v != "" {
		return v, nil
	}
	root, err := GetHomeRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, CatalogRepoDir), nil
}

// GetCatalogRegistryRoot returns the path to the registry/ subdirectory within
// the catalog repo. This is where addon and archetype directories live.
func GetCatalogRegistryRoot() (string, error) {
	repoRoot, err := GetCatalogRepoRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(repoRoot, RegistryDir), nil
}

// GetContributorRegistryRoot returns the registry directory inside a catalog
// checkout named by BAKERY_HOME. The second return is false when BAKERY_HOME
// is unset (end-user mode).
func GetContributorRegistryRoot() (string, bool) {
	v := os.Getenv(branding.EnvVar("HOME"))
	if v == "" {
		return "", false
	}
	return filepath.Join(v, RegistryDir), true
}

// GetConfigPath returns the path to config.yaml within the home directory.
func GetConfigPath() (string, error) {
	root, err := GetHomeRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ConfigFile), nil
}

// GetSourcesPath returns the path to sources.yaml within the home directory.
func GetSourcesPath() (string, error) {
	root, err := GetHomeRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, SourcesFile), nil
}

// GetAddonCachePath returns the path to the addon discovery cache file.
func GetAddonCachePath() (string, error) {
	root, err := GetHomeRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, AddonCacheFile), nil
}

// GetUpdateCachePath returns the path to the release check cache file.
func GetUpdateCachePath() (string, error) {
	root, err := GetHomeRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, UpdateCacheFile), nil
}

// CatalogExists checks if the catalog registry has at least one subdirectory.
func CatalogExists() (bool, error) {
	registryRoot, err := GetCatalogRegistryRoot()
	if err != nil {
		return false, err
	}
	entries, err := os.ReadDir(registryRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading catalog registry: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			return true, nil
		}
	}
	return false, nil
}
