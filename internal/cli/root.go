package cli

import (
	"fmt"
	"os"

	"github.com/bakery-labs/bakery/internal/branding"
	"github.com/bakery-labs/bakery/internal/catalog"
	"github.com/bakery-labs/bakery/internal/config"
	"github.com/bakery-labs/bakery/internal/logging"
	"github.com/bakery-labs/bakery/internal/report"
	"github.com/bakery-labs/bakery/internal/updater"
	"github.com/bakery-labs/bakery/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	rootVerbose bool
	rootColor   string

	// styles is initialized in PersistentPreRun, before any RunE fires.
	styles = report.NewStyles(false)
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds new projects from archetypes and composes addons into
them. Addons copy files and inject code at marker comments, so generated
projects stay editable after the fact.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()

		if rootVerbose || config.GetBool("verbose") {
			logging.SetLevel("debug")
		}

		colorMode := rootColor
		if !cmd.Flags().Changed("color") && config.Get("color") == "false" {
			colorMode = "never"
		}
		styles = report.NewStyles(report.IsColorEnabled(colorMode, os.Stdout))

		// Skip banners for commands that manage their own state.
		name := cmd.Name()
		if name == "update" || name == "catalog" || name == "init" || name == "version" {
			return
		}

		// Non-blocking banner from cached version check.
		if config.Get("update_check") != "false" {
			u := updater.New(buildVersion)
			u.CheckAndPrintBanner(os.Stderr, config.Dir())
		}

		// Catalog freshness check (end-user mode only, no network).
		if userdata.DetectMode() == userdata.ModeEndUser {
			catalogRepoRoot, err := userdata.GetCatalogRepoRoot()
			if err == nil && catalog.IsStale(catalogRepoRoot, catalog.DefaultMaxAge) {
				exists, _ := userdata.CatalogExists()
				if exists {
					fmt.Fprintf(os.Stderr, "Catalog is more than 7 days old. Run '%s catalog update'.\n", branding.CLIName())
				}
			}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootColor, "color", "auto", "Colorize output: auto, always, never")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
