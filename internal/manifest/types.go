package manifest

import (
	"github.com/bakery-labs/bakery/internal/inject"
)

// Base contains fields shared by addon and archetype manifests.
type Base struct {
	Kind        string   `yaml:"kind" json:"kind"`
	Name        string   `yaml:"name" json:"name"`
	Version     string   `yaml:"version" json:"version"`
	Description string   `yaml:"description" json:"description"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Author      string   `yaml:"author,omitempty" json:"author,omitempty"`
}

// AddonManifest describes an installable addon: files it copies into a
// project and injections it applies to files the archetype put there.
type AddonManifest struct {
	Base     `yaml:",inline"`
	Compat   *Compat             `yaml:"compat,omitempty" json:"compat,omitempty"`
	Requires []string            `yaml:"requires,omitempty" json:"requires,omitempty"`
	Files    []FileCopy          `yaml:"files,omitempty" json:"files,omitempty"`
	Inject   []inject.Definition `yaml:"inject,omitempty" json:"inject,omitempty"`
	Context  map[string]any      `yaml:"context,omitempty" json:"context,omitempty"`
}

// Compat restricts where an addon may be applied.
type Compat struct {
	// Bakery is a semver constraint on the CLI version, e.g. ">= 0.3.0".
	Bakery string `yaml:"bakery,omitempty" json:"bakery,omitempty"`
	// Archetypes lists compatible archetype names; empty means any.
	Archetypes []string `yaml:"archetypes,omitempty" json:"archetypes,omitempty"`
}

// FileCopy is a whole file the addon contributes to the project. Src is
// relative to the addon directory, Dest to the project root. Src files
// ending in .tmpl are rendered; everything else is copied verbatim.
type FileCopy struct {
	Src  string `yaml:"src" json:"src"`
	Dest string `yaml:"dest" json:"dest"`
}

// ArchetypeManifest describes one embedded project template set.
type ArchetypeManifest struct {
	Base       `yaml:",inline"`
	Frameworks []Framework    `yaml:"frameworks,omitempty" json:"frameworks,omitempty"`
	Context    map[string]any `yaml:"context,omitempty" json:"context,omitempty"`
	Markers    []MarkerDoc    `yaml:"markers,omitempty" json:"markers,omitempty"`
}

// Framework is one selectable variant of an archetype.
type Framework struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Default     bool   `yaml:"default,omitempty" json:"default,omitempty"`
}

// MarkerDoc documents an injection marker the archetype's files carry,
// so addon authors know what they can target.
type MarkerDoc struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Kind constants for the kind discriminator field.
const (
	KindAddon     = "addon"
	KindArchetype = "archetype"
)

// ValidKinds contains all valid manifest kind values.
var ValidKinds = []string{KindAddon, KindArchetype}

// File names manifests are discovered under.
const (
	AddonFileName     = "addon.yaml"
	ArchetypeFileName = "archetype.yaml"
)
