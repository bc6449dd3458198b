package detect

import (
	"os"
	"os/exec"
	"path/filepath"
)

// PackageManager identifies a Node package manager.
type PackageManager string

const (
	Pnpm PackageManager = "pnpm"
	Yarn PackageManager = "yarn"
	Npm  PackageManager = "npm"
)

// lockfiles in probe order; the first hit wins.
var lockfiles = []struct {
	name string
	pm   PackageManager
}{
	{"pnpm-lock.yaml", Pnpm},
	{"yarn.lock", Yarn},
	{"package-lock.json", Npm},
}

// DetectPackageManager returns the package manager implied by the lockfile
// in dir. Projects without a lockfile get npm.
func DetectPackageManager(dir string) PackageManager {
	for _, lf := range lockfiles {
		if _, err := os.Stat(filepath.Join(dir, lf.name)); err == nil {
			return lf.pm
		}
	}
	return Npm
}

// Valid reports whether name is a recognized package manager.
func Valid(name string) bool {
	switch PackageManager(name) {
	case Pnpm, Yarn, Npm:
		return true
	}
	return false
}

// Probe reports whether one binary resolved on PATH.
type Probe struct {
	Name      string
	Available bool
	Path      string
}

// ProbeTools resolves each named binary with exec.LookPath.
func ProbeTools(names ...string) []Probe {
	probes := make([]Probe, 0, len(names))
	for _, name := range names {
		p := Probe{Name: name}
		if path, err := exec.LookPath(name); err == nil {
			p.Available = true
			p.Path = path
		}
		probes = append(probes, p)
	}
	return probes
}

// Have reports whether a binary is on PATH.
func Have(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
