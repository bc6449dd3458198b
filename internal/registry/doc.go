// Package registry handles addon discovery, indexing, dependency resolution,
// and apply planning. It scans source directories (catalog checkout, bundled
// registry, user sources) for manifests, builds requires trees, checks
// compatibility, and materializes addon file copies into projects.
package registry
