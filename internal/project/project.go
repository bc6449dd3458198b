package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

const (
	stateDir  = ".bakery"
	stateFile = "project.yaml"
)

// Config represents the .bakery/project.yaml structure.
type Config struct {
	Archetype string                 `yaml:"archetype"`
	Framework string                 `yaml:"framework,omitempty"`
	Context   map[string]interface{} `yaml:"context,omitempty"`
	Addons    []AppliedAddon         `yaml:"addons,omitempty"`
}

// AppliedAddon records one addon application.
type AppliedAddon struct {
	Path    string    `yaml:"path"`
	Version string    `yaml:"version"`
	Applied time.Time `yaml:"applied"`
}

// ConfigPath returns the full path to .bakery/project.yaml for a project.
func ConfigPath(projectDir string) string {
	return filepath.Join(projectDir, stateDir, stateFile)
}

// Exists reports whether projectDir holds an initialized project.
func Exists(projectDir string) bool {
	_, err := os.Stat(ConfigPath(projectDir))
	return err == nil
}

// Load reads and parses .bakery/project.yaml from the given project directory.
func Load(projectDir string) (*Config, error) {
	path := ConfigPath(projectDir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project state: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing project state: %w", err)
	}

	return &config, nil
}

// Save writes the project state to .bakery/project.yaml.
func Save(projectDir string, config *Config) error {
	path := ConfigPath(projectDir)

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling project state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing project state: %w", err)
	}

	return nil
}

// Init creates the .bakery/ directory with a fresh project.yaml.
func Init(projectDir, archetype, framework string, context map[string]interface{}) error {
	dir := filepath.Join(projectDir, stateDir)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s directory: %w", stateDir, err)
	}

	config := &Config{
		Archetype: archetype,
		Framework: framework,
		Context:   context,
	}

	return Save(projectDir, config)
}

// HasAddon reports whether the addon at path has already been applied.
func (c *Config) HasAddon(path string) bool {
	for _, a := range c.Addons {
		if a.Path == path {
			return true
		}
	}
	return false
}

// Record notes an addon application. A repeat application of the same path
// updates the recorded version and time in place.
func (c *Config) Record(path, version string, applied time.Time) {
	for i, a := range c.Addons {
		if a.Path == path {
			c.Addons[i].Version = version
			c.Addons[i].Applied = applied
			return
		}
	}
	c.Addons = append(c.Addons, AppliedAddon{Path: path, Version: version, Applied: applied})
}
