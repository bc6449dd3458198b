package manifest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Parse reads a manifest file and returns only the base fields. Useful
// for quick kind detection and listings without full parsing.
func Parse(path string) (*Base, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var base Base
	if err := yaml.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	return &base, nil
}

// ParseFile reads a manifest file, detects its kind, and returns the
// fully typed manifest. The returned value is either *AddonManifest or
// *ArchetypeManifest.
func ParseFile(path string) (interface{}, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	kind, err := detectKind(data)
	if err != nil {
		return nil, fmt.Errorf("detecting manifest kind in %s: %w", path, err)
	}

	switch kind {
	case KindAddon:
		return parseTyped[AddonManifest](data, path)
	case KindArchetype:
		return parseTyped[ArchetypeManifest](data, path)
	default:
		return nil, fmt.Errorf("unknown manifest kind %q in %s", kind, path)
	}
}

// ParseAddon reads a manifest file and parses it as an AddonManifest.
func ParseAddon(path string) (*AddonManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return parseTyped[AddonManifest](data, path)
}

// ParseAddonBytes parses addon manifest content that is already in
// memory, e.g. read through an overlay filesystem.
func ParseAddonBytes(data []byte, path string) (*AddonManifest, error) {
	return parseTyped[AddonManifest](data, path)
}

// ParseArchetype reads a manifest file and parses it as an
// ArchetypeManifest.
func ParseArchetype(path string) (*ArchetypeManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return parseTyped[ArchetypeManifest](data, path)
}

// ParseArchetypeBytes parses archetype manifest content already in
// memory, e.g. read from the embedded template FS.
func ParseArchetypeBytes(data []byte, path string) (*ArchetypeManifest, error) {
	return parseTyped[ArchetypeManifest](data, path)
}

// parseTyped unmarshals YAML data into a typed manifest struct.
func parseTyped[T any](data []byte, path string) (*T, error) {
	var m T
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// detectKind unmarshals YAML data into a generic map and extracts the
// kind field.
func detectKind(data []byte) (string, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return "", fmt.Errorf("unmarshaling YAML: %w", err)
	}

	kindVal, ok := raw["kind"]
	if !ok {
		return "", fmt.Errorf("manifest missing required 'kind' field")
	}

	kind, ok := kindVal.(string)
	if !ok {
		return "", fmt.Errorf("manifest 'kind' field is not a string")
	}

	return kind, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
