package cli

import (
	"fmt"
	"time"

	"github.com/bakery-labs/bakery/internal/branding"
	"github.com/bakery-labs/bakery/internal/catalog"
	"github.com/bakery-labs/bakery/internal/userdata"
	"github.com/spf13/cobra"
)

func init() {
	catalogCmd.AddCommand(catalogUpdateCmd)
	catalogCmd.AddCommand(catalogStatusCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the community addon catalog",
	Long: `Manage the catalog of community archetypes and addons.

In end-user mode, the catalog is a shallow clone of the community repository's
registry/ directory, stored at ~/` + branding.HomeDir() + `/catalog-repo/.

In contributor mode (` + branding.EnvVar("HOME") + ` set), the registry is part of the
checkout and should be updated via git pull.`,
}

var catalogUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the catalog to the latest version",
	Long: `Pull the latest addons from the remote catalog repository.

In end-user mode, this runs git pull in ~/` + branding.HomeDir() + `/catalog-repo/.
If the catalog hasn't been cloned yet, it will be cloned first.

In contributor mode, this prints a message directing you to use
git pull in the checkout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if userdata.DetectMode() == userdata.ModeContributor {
			fmt.Fprintln(cmd.OutOrStdout(), "Catalog is managed by your checkout.")
			fmt.Fprintf(cmd.OutOrStdout(), "Run 'git pull' in $%s to update.\n", branding.EnvVar("HOME"))
			return nil
		}

		catalogRepoRoot, err := userdata.GetCatalogRepoRoot()
		if err != nil {
			return fmt.Errorf("resolving catalog path: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Updating catalog at %s...\n", catalogRepoRoot)

		if err := catalog.Update(catalogRepoRoot); err != nil {
			return fmt.Errorf("updating catalog: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Catalog updated successfully.")
		return nil
	},
}

var catalogStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog status and location",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := userdata.DetectMode()
		fmt.Fprintf(cmd.OutOrStdout(), "Mode:         %s\n", mode)

		if mode == userdata.ModeContributor {
			home := fmt.Sprintf("$%s/registry/", branding.EnvVar("HOME"))
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog path: %s\n", home)
			fmt.Fprintln(cmd.OutOrStdout(), "Managed by:   git checkout")
			return nil
		}

		registryRoot, err := userdata.GetCatalogRegistryRoot()
		if err != nil {
			return fmt.Errorf("resolving catalog path: %w", err)
		}
		catalogRepoRoot, err := userdata.GetCatalogRepoRoot()
		if err != nil {
			return fmt.Errorf("resolving catalog repo path: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Catalog path: %s\n", registryRoot)
		fmt.Fprintf(cmd.OutOrStdout(), "Repo URL:     %s\n", catalog.RepoURL())

		exists, _ := userdata.CatalogExists()
		if !exists {
			fmt.Fprintln(cmd.OutOrStdout(), "Status:       not installed")
			fmt.Fprintf(cmd.OutOrStdout(), "\nRun '%s catalog update' or '%s init --global' to install.\n", branding.CLIName(), branding.CLIName())
			return nil
		}

		lastUpdated := catalog.ReadFreshnessMarker(catalogRepoRoot)
		if lastUpdated.IsZero() {
			fmt.Fprintln(cmd.OutOrStdout(), "Last updated: unknown")
		} else {
			age := time.Since(lastUpdated).Truncate(time.Minute)
			fmt.Fprintf(cmd.OutOrStdout(), "Last updated: %s (%s ago)\n", lastUpdated.Format(time.RFC3339), age)
		}

		if catalog.IsStale(catalogRepoRoot, catalog.DefaultMaxAge) {
			fmt.Fprintf(cmd.OutOrStdout(), "Status:       stale (run '%s catalog update')\n", branding.CLIName())
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Status:       up to date")
		}

		return nil
	},
}
