// Package updater checks GitHub Releases for newer versions. A
// daily-cached version check powers the startup banner; the update
// command performs an explicit check and points at the release page.
package updater
