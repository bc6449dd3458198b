package compose

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bakery-labs/bakery/internal/registry"
	"github.com/bakery-labs/bakery/internal/scaffold"
)

// RunInteractive walks the user through archetype, framework, addon, and
// project name selection using numbered menus on r/w. A non-empty
// presetName skips the name prompt. The returned Settings feed straight
// into BuildPlan.
func RunInteractive(sources []registry.Source, presetName string, r io.Reader, w io.Writer) (*Settings, error) {
	if presetName != "" {
		if err := ValidateProjectName(presetName); err != nil {
			return nil, err
		}
	}

	reader := bufio.NewReader(r)
	settings := &Settings{Context: map[string]string{}}

	// Step 1: select archetype.
	archs := scaffold.Archetypes()
	archIdx, err := selectFromList(reader, w, "Select archetype:", archetypeLabels(archs))
	if err != nil {
		return nil, err
	}
	arch := &archs[archIdx]
	settings.Archetype = arch.Name

	// Step 2: select framework. Skipped when the archetype has only one.
	fw := arch.DefaultFramework()
	if len(arch.Frameworks) > 1 {
		fwIdx, err := selectFromList(reader, w, "Select framework:", frameworkLabels(arch))
		if err != nil {
			return nil, err
		}
		fw = &arch.Frameworks[fwIdx]
	}
	settings.Framework = fw.Name

	// Step 3: select addons. Optional, so discovery problems and empty
	// catalogs skip the step instead of aborting the wizard.
	addons := compatibleAddons(sources, arch.Name, w)
	if len(addons) > 0 {
		picks, err := selectMultiFromList(reader, w, "Select addons:", addonLabels(addons))
		if err != nil {
			return nil, err
		}
		for _, i := range picks {
			settings.Addons = append(settings.Addons, addons[i].Path)
		}
	}

	// Step 4: project name.
	if presetName != "" {
		settings.ProjectName = presetName
		return settings, nil
	}
	fmt.Fprintf(w, "\nProject name: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("reading project name: %w", err)
	}
	name := strings.TrimSpace(line)
	if err := ValidateProjectName(name); err != nil {
		return nil, err
	}
	settings.ProjectName = name

	return settings, nil
}

// selectFromList presents a numbered list and returns the selected index.
func selectFromList(reader *bufio.Reader, w io.Writer, prompt string, items []string) (int, error) {
	fmt.Fprintf(w, "\n%s\n", prompt)
	for i, item := range items {
		fmt.Fprintf(w, "  %d) %s\n", i+1, item)
	}
	fmt.Fprintf(w, "Enter number [1-%d]: ", len(items))

	line, err := reader.ReadString('\n')
	if err != nil {
		return 0, fmt.Errorf("reading selection: %w", err)
	}

	num, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || num < 1 || num > len(items) {
		return 0, fmt.Errorf("invalid selection %q: choose 1-%d", strings.TrimSpace(line), len(items))
	}

	return num - 1, nil
}

// selectMultiFromList presents a numbered list and returns the selected
// indexes. Empty input selects nothing.
func selectMultiFromList(reader *bufio.Reader, w io.Writer, prompt string, items []string) ([]int, error) {
	fmt.Fprintf(w, "\n%s\n", prompt)
	for i, item := range items {
		fmt.Fprintf(w, "  %d) %s\n", i+1, item)
	}
	fmt.Fprintf(w, "Enter numbers separated by commas (empty for none): ")

	line, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("reading selection: %w", err)
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, nil
	}

	var picks []int
	seen := make(map[int]bool)
	for _, tok := range strings.Split(trimmed, ",") {
		num, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || num < 1 || num > len(items) {
			return nil, fmt.Errorf("invalid selection %q: choose numbers 1-%d", strings.TrimSpace(tok), len(items))
		}
		if !seen[num] {
			seen[num] = true
			picks = append(picks, num-1)
		}
	}

	return picks, nil
}

// compatibleAddons discovers addons usable with the chosen archetype.
func compatibleAddons(sources []registry.Source, archetype string, w io.Writer) []registry.DiscoveredAddon {
	if len(sources) == 0 {
		return nil
	}

	all, err := registry.DiscoverAll(sources)
	if err != nil {
		fmt.Fprintf(w, "\nSkipping addon selection: %v\n", err)
		return nil
	}

	var compatible []registry.DiscoveredAddon
	for _, da := range all {
		if matchesArchetype(da, archetype) {
			compatible = append(compatible, da)
		}
	}
	return compatible
}

// matchesArchetype reports whether an addon targets the archetype. An
// addon with no archetype list targets all of them.
func matchesArchetype(da registry.DiscoveredAddon, archetype string) bool {
	if len(da.Archetypes) == 0 {
		return true
	}
	for _, a := range da.Archetypes {
		if a == archetype {
			return true
		}
	}
	return false
}

func archetypeLabels(archs []scaffold.Archetype) []string {
	labels := make([]string, len(archs))
	for i, a := range archs {
		labels[i] = fmt.Sprintf("%s - %s", a.Name, a.Description)
	}
	return labels
}

func frameworkLabels(a *scaffold.Archetype) []string {
	labels := make([]string, len(a.Frameworks))
	for i, f := range a.Frameworks {
		label := fmt.Sprintf("%s - %s", f.Name, f.Description)
		if f.Default {
			label += " (default)"
		}
		labels[i] = label
	}
	return labels
}

func addonLabels(addons []registry.DiscoveredAddon) []string {
	labels := make([]string, len(addons))
	for i, da := range addons {
		if da.Description != "" {
			labels[i] = fmt.Sprintf("%s - %s", da.Name, da.Description)
		} else {
			labels[i] = da.Name
		}
	}
	return labels
}
