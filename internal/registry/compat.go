package registry

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/bakery-labs/bakery/internal/manifest"
)

// CheckCompat evaluates an addon's compat block against the running CLI
// version and the project's archetype. It returns human-readable warnings;
// compatibility problems never block an apply, the user decides.
func CheckCompat(m *manifest.AddonManifest, cliVersion, archetype string) []string {
	if m.Compat == nil {
		return nil
	}

	var warnings []string

	if m.Compat.Bakery != "" {
		if w := checkVersionConstraint(m.Name, m.Compat.Bakery, cliVersion); w != "" {
			warnings = append(warnings, w)
		}
	}

	if len(m.Compat.Archetypes) > 0 && archetype != "" {
		matched := false
		for _, a := range m.Compat.Archetypes {
			if a == archetype {
				matched = true
				break
			}
		}
		if !matched {
			warnings = append(warnings, fmt.Sprintf(
				"%s targets archetypes %v, project uses %q", m.Name, m.Compat.Archetypes, archetype))
		}
	}

	return warnings
}

// checkVersionConstraint compares the CLI version against a semver
// constraint. Dev builds and unparseable versions skip the check.
func checkVersionConstraint(addonName, constraint, cliVersion string) string {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Sprintf("%s has an invalid version constraint %q", addonName, constraint)
	}

	v, err := semver.NewVersion(cliVersion)
	if err != nil {
		return "" // dev build, nothing to compare
	}

	if !c.Check(v) {
		return fmt.Sprintf("%s requires CLI version %s, running %s", addonName, constraint, cliVersion)
	}
	return ""
}
