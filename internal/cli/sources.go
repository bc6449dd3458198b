package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/bakery-labs/bakery/internal/branding"
	"github.com/bakery-labs/bakery/internal/registry"
	"github.com/bakery-labs/bakery/internal/sources"
	"github.com/bakery-labs/bakery/internal/userdata"
	"github.com/spf13/cobra"
)

func init() {
	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesRemoveCmd)
	sourcesCmd.AddCommand(sourcesListCmd)
	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage local addon source directories",
	Long: `Manage local directories registered as addon sources.

A source is any directory with an addons/ tree of addon manifests, typically
a registry checkout or a directory of addons under development. Registered
sources are searched after the catalog when resolving addon names.`,
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add <dir>",
	Short: "Register a local directory as an addon source",
	Long: `Register a local directory as an addon source.

The directory must contain at least one addon manifest under
addons/<name>/addon.yaml.

Example:
  ` + branding.CLIName() + ` sources add ~/code/acme-addons`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := userdata.GetSourcesPath()
		if err != nil {
			return fmt.Errorf("resolving sources file: %w", err)
		}

		if err := sources.Add(path, args[0]); err != nil {
			return err
		}

		abs, _ := filepath.Abs(args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "Registered source %s (%s)\n", filepath.Base(abs), abs)
		return nil
	},
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove <dir>",
	Short: "Unregister an addon source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := userdata.GetSourcesPath()
		if err != nil {
			return fmt.Errorf("resolving sources file: %w", err)
		}

		if err := sources.Remove(path, args[0]); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed source %s\n", args[0])
		return nil
	},
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered addon sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := userdata.GetSourcesPath()
		if err != nil {
			return fmt.Errorf("resolving sources file: %w", err)
		}

		dirs, err := sources.List(path)
		if err != nil {
			return err
		}

		if len(dirs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sources registered.")
			fmt.Fprintf(cmd.OutOrStdout(), "Use '%s sources add <dir>' to register one.\n", branding.CLIName())
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tPATH")
		for _, dir := range dirs {
			fmt.Fprintf(w, "%s\t%s\n", filepath.Base(dir), dir)
		}
		return w.Flush()
	},
}

// resolveSources builds the addon resolution sources: registry checkout or
// bundled registry or cloned catalog, then user-registered directories.
func resolveSources() ([]registry.Source, error) {
	path, err := userdata.GetSourcesPath()
	if err != nil {
		return nil, fmt.Errorf("resolving sources file: %w", err)
	}

	userDirs, err := sources.List(path)
	if err != nil {
		return nil, err
	}

	return registry.BuildSources(userDirs)
}
