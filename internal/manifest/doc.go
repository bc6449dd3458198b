// Package manifest handles parsing and validation of bakery manifests.
// It supports the two manifest kinds (addon, archetype) and provides
// JSON Schema validation against the embedded manifest schema.
package manifest
