package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bakery-labs/bakery/internal/branding"
	"github.com/bakery-labs/bakery/internal/project"
	"github.com/bakery-labs/bakery/internal/registry"
	"github.com/spf13/cobra"
)

var (
	addonsAvailable bool
	addonsJSON      bool
)

var addonsCmd = &cobra.Command{
	Use:   "addons",
	Short: "List addons applied to the current project",
	Long: `List the addons recorded in the current project's .` + branding.CLIName() + `/project.yaml.

With --available, list every addon discoverable from the registered
sources instead, marking the ones this project already has.`,
	RunE: runAddons,
}

func init() {
	addonsCmd.Flags().BoolVar(&addonsAvailable, "available", false, "List addons available from sources instead of applied ones")
	addonsCmd.Flags().BoolVar(&addonsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(addonsCmd)
}

// addonsEntry represents one addon row for display.
type addonsEntry struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Applied string `json:"applied,omitempty"`
	Source  string `json:"source,omitempty"`
}

func runAddons(cmd *cobra.Command, args []string) error {
	if addonsAvailable {
		return runAddonsAvailable(cmd)
	}

	projectDir, err := os.Getwd()
	if err != nil {
		return err
	}
	if !project.Exists(projectDir) {
		return fmt.Errorf("not a %s project (run '%s init' first, or use --available)", branding.DisplayName(), branding.CLIName())
	}
	cfg, err := project.Load(projectDir)
	if err != nil {
		return fmt.Errorf("loading project state: %w", err)
	}

	if len(cfg.Addons) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No addons applied yet.")
		fmt.Fprintf(cmd.OutOrStdout(), "Run '%s search' to find addons, then '%s add <addon>'.\n", branding.CLIName(), branding.CLIName())
		return nil
	}

	var entries []addonsEntry
	for _, a := range cfg.Addons {
		entries = append(entries, addonsEntry{
			Path:    a.Path,
			Name:    registry.NameFromPath(a.Path),
			Version: a.Version,
			Applied: a.Applied.Format("2006-01-02"),
		})
	}

	if addonsJSON {
		return printAddonsJSON(cmd, entries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PATH\tVERSION\tAPPLIED")
	for _, e := range entries {
		version := e.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Path, version, e.Applied)
	}
	return w.Flush()
}

func runAddonsAvailable(cmd *cobra.Command) error {
	srcs, err := resolveSources()
	if err != nil {
		return err
	}
	if len(srcs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sources registered.")
		fmt.Fprintf(cmd.OutOrStdout(), "Run '%s init --global' or '%s sources add <dir>' first.\n", branding.CLIName(), branding.CLIName())
		return nil
	}

	cachePath, _ := registry.DefaultCachePath()
	discovered, err := registry.DiscoverAllCached(srcs, cachePath)
	if err != nil {
		return fmt.Errorf("discovering addons: %w", err)
	}

	// Mark addons the current project already has, when inside one.
	applied := map[string]bool{}
	if cwd, cwdErr := os.Getwd(); cwdErr == nil && project.Exists(cwd) {
		if cfg, loadErr := project.Load(cwd); loadErr == nil {
			for _, a := range cfg.Addons {
				applied[a.Path] = true
			}
		}
	}

	var entries []addonsEntry
	for _, da := range discovered {
		e := addonsEntry{
			Path:    da.Path,
			Name:    da.Name,
			Version: da.Version,
			Source:  da.Source,
		}
		if applied[da.Path] {
			e.Applied = "yes"
		}
		entries = append(entries, e)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No addons found in the registered sources.")
		return nil
	}

	if addonsJSON {
		return printAddonsJSON(cmd, entries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PATH\tVERSION\tSOURCE\tAPPLIED")
	for _, e := range entries {
		version := e.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Path, version, e.Source, e.Applied)
	}
	return w.Flush()
}

func printAddonsJSON(cmd *cobra.Command, entries []addonsEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
