package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/bakery-labs/bakery/internal/branding"
	"github.com/bakery-labs/bakery/internal/platform"
	"github.com/bakery-labs/bakery/internal/scaffold"
	"github.com/bakery-labs/bakery/internal/userdata"
	"github.com/spf13/cobra"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Shared flag for all create subcommands.
var createOutputDir string

func init() {
	// Parent create command.
	createCmd.PersistentFlags().StringVar(&createOutputDir, "output-dir", "", "Output directory (default: ./<name>)")
	rootCmd.AddCommand(createCmd)

	// Subcommands.
	createCmd.AddCommand(createAddonCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Scaffold a new addon from a template",
	Long:  `Create a new addon skeleton for publishing to the catalog or a local source.`,
}

// ─── create addon ──────────────────────────────────────────────────

var (
	addonDescription string
	addonLink        bool
)

var createAddonCmd = &cobra.Command{
	Use:   "addon <name>",
	Short: "Scaffold a new addon",
	Long: `Scaffold a new addon skeleton: a manifest, a files/ directory, and a README.

Examples:
  ` + branding.CLIName() + ` create addon auth-jwt --description "JWT authentication"
  ` + branding.CLIName() + ` create addon auth-jwt --link`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := validateName(name); err != nil {
			return err
		}

		ctx := scaffold.NewAddonContext(name)
		if addonDescription != "" {
			ctx["description"] = addonDescription
		}

		outDir := resolveOutputDir(name)

		result, err := scaffold.GenerateAddonSkeleton(ctx, outDir)
		if err != nil {
			return err
		}

		printResult("addon", result)

		if addonLink {
			if err := linkIntoRegistry(name, outDir); err != nil {
				return err
			}
		}

		// Next steps guidance.
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Edit addon.yaml to declare file copies and injections")
		fmt.Println("  2. Put whole files to copy under files/")
		if addonLink {
			fmt.Printf("  3. Test with '%s add %s' in a generated project\n", branding.CLIName(), name)
		} else {
			fmt.Printf("  3. Register a source containing it, then test with '%s add %s'\n", branding.CLIName(), name)
		}
		return nil
	},
}

func init() {
	createAddonCmd.Flags().StringVar(&addonDescription, "description", "", "Addon description for the manifest")
	createAddonCmd.Flags().BoolVar(&addonLink, "link", false, "Symlink the skeleton into the registry checkout ("+branding.EnvVar("HOME")+")")
}

// linkIntoRegistry symlinks a freshly generated addon into the contributor
// registry checkout so it resolves without registering a source.
func linkIntoRegistry(name, outDir string) error {
	registryRoot, ok := userdata.GetContributorRegistryRoot()
	if !ok {
		return fmt.Errorf("--link requires %s to point at a registry checkout", branding.EnvVar("HOME"))
	}

	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolving output directory: %w", err)
	}

	linkPath := filepath.Join(registryRoot, "addons", name)
	if _, err := os.Lstat(linkPath); err == nil {
		return fmt.Errorf("registry entry already exists: %s", linkPath)
	}
	if err := os.MkdirAll(filepath.Dir(linkPath), 0755); err != nil {
		return fmt.Errorf("creating registry addons directory: %w", err)
	}

	if err := platform.CreateSymlink(absOut, linkPath); err != nil {
		return fmt.Errorf("linking into registry: %w", err)
	}

	fmt.Printf("Linked into registry: %s -> %s\n", linkPath, absOut)
	return nil
}

// ─── Helpers ───────────────────────────────────────────────────────

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid name %q: must match pattern [a-z0-9][a-z0-9-]*", name)
	}
	return nil
}

func resolveOutputDir(name string) string {
	if createOutputDir != "" {
		return createOutputDir
	}
	return filepath.Join(".", name)
}

func printResult(kind string, result *scaffold.Result) {
	fmt.Printf("Created %s at %s/\n", kind, result.OutputDir)
	for _, f := range result.Files {
		fmt.Printf("  %s\n", f)
	}
	if len(result.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}
