// Package integrations runs post-generation tool steps against a freshly
// scaffolded project: git init, a package manager install, and go mod tidy.
// Each step checks whether it applies to the project before running, and
// missing binaries or failed commands degrade to warnings because the
// project itself is already on disk.
package integrations
