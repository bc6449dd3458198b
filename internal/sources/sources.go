// Package sources manages the local addon source directories a user has
// registered, persisted in ~/.bakery/sources.yaml. Registered directories
// are appended to the resolution order after the catalog.
package sources

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/bakery-labs/bakery/internal/userdata"
)

// File represents the sources.yaml file.
type File struct {
	Sources []string `yaml:"sources"`
}

// Load reads and parses a sources.yaml file. A missing file is treated
// as an empty registration list.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("reading sources %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing sources %s: %w", path, err)
	}

	return &f, nil
}

// Save writes the registration list back to a sources.yaml file.
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling sources: %w", err)
	}

	if err := os.WriteFile(path, data, userdata.FilePermNormal); err != nil {
		return fmt.Errorf("writing sources %s: %w", path, err)
	}

	return nil
}

// Contains reports whether dir is already registered. Paths are compared
// in absolute form.
func (f *File) Contains(dir string) bool {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	for _, s := range f.Sources {
		if s == abs {
			return true
		}
	}
	return false
}

// Add validates and registers a source directory in the file at path.
// The directory must exist and hold at least one addon manifest.
func Add(path, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving source path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("source directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source path %s is not a directory", abs)
	}
	if !userdata.ContainsManifest(abs) {
		return fmt.Errorf("no addon manifests found under %s (expected addons/<name>/addon.yaml)", abs)
	}

	f, err := Load(path)
	if err != nil {
		return err
	}
	if f.Contains(abs) {
		return fmt.Errorf("source %s is already registered", abs)
	}

	f.Sources = append(f.Sources, abs)
	return Save(path, f)
}

// Remove unregisters a source directory from the file at path.
func Remove(path, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving source path: %w", err)
	}

	f, err := Load(path)
	if err != nil {
		return err
	}

	for i, s := range f.Sources {
		if s == abs {
			f.Sources = append(f.Sources[:i], f.Sources[i+1:]...)
			return Save(path, f)
		}
	}

	return fmt.Errorf("source %s is not registered", abs)
}

// List returns the registered source directories in registration order.
func List(path string) ([]string, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return f.Sources, nil
}
