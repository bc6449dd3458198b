package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/bakery-labs/bakery/internal/branding"
	"github.com/bakery-labs/bakery/internal/config"
	"github.com/bakery-labs/bakery/internal/updater"
	"github.com/spf13/cobra"
)

var updateVersion string

func init() {
	updateCmd.Flags().StringVar(&updateVersion, "version", "", "Check a specific version (e.g., 1.2.0)")

	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for a newer " + branding.CLIName() + " release",
	Long: `Check GitHub releases for a newer version of ` + branding.CLIName() + `.

  ` + branding.CLIName() + ` update                  # compare against the latest release
  ` + branding.CLIName() + ` update --version 1.2.0  # look up a specific release`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := updater.New(buildVersion)

		var release *updater.Release
		var err error
		if updateVersion != "" {
			fmt.Fprintf(os.Stderr, "Checking for version %s...\n", updateVersion)
			release, err = u.CheckSpecificVersion(updateVersion)
		} else {
			fmt.Fprintln(os.Stderr, "Checking for updates...")
			release, err = u.CheckLatestVersion()
		}
		if err != nil {
			return fmt.Errorf("checking for updates: %w", err)
		}

		available, err := updater.IsUpdateAvailable(buildVersion, release.Version)
		if err != nil {
			// A dev build has no comparable version; always report the release.
			if buildVersion == "dev" {
				available = true
			} else {
				return fmt.Errorf("comparing versions: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		switch {
		case available:
			fmt.Fprintf(out, "Update available: %s -> %s\n", buildVersion, release.Version)
		case updateVersion != "":
			fmt.Fprintf(out, "Version %s is not newer than the current version (%s)\n", release.Version, buildVersion)
		default:
			fmt.Fprintf(out, "You are on the latest version (%s)\n", buildVersion)
		}
		if !release.Published.IsZero() {
			fmt.Fprintf(out, "  Published: %s\n", release.Published.Format("2006-01-02"))
		}
		if release.HTMLURL != "" {
			fmt.Fprintf(out, "  Release page: %s\n", release.HTMLURL)
		}
		if available {
			fmt.Fprintf(out, "\nDownload it from the release page or reinstall via your package\nmanager, then run '%s version' to confirm.\n", branding.CLIName())
		}

		// Refresh the version cache used by the startup banner.
		if updateVersion == "" {
			cache := &updater.VersionCache{
				LatestVersion:   release.Version,
				CurrentVersion:  buildVersion,
				CheckedAt:       time.Now(),
				UpdateAvailable: available,
			}
			_ = updater.SaveCache(config.Dir(), cache)
		}

		return nil
	},
}
