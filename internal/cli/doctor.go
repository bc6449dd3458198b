package cli

import (
	"fmt"
	"os"

	"github.com/bakery-labs/bakery/internal/detect"
	"github.com/bakery-labs/bakery/internal/manifest"
	"github.com/bakery-labs/bakery/internal/project"
	"github.com/bakery-labs/bakery/internal/sources"
	"github.com/bakery-labs/bakery/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	doctorFix      bool
	checkManifest  string
	checkManifests bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create missing home directories and seed files")
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a manifest file at the given path")
	doctorCmd.Flags().BoolVar(&checkManifests, "check-sources", false, "Validate every manifest in registered sources")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the CLI and its data",
	Long:  `Run diagnostic checks on the installation, home directory, and addon sources.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkManifest != "" {
			return runManifestCheck(checkManifest)
		}
		if checkManifests {
			return runSourcesManifestCheck()
		}

		runToolsCheck()

		if err := userdata.CheckHome(os.Stdout, doctorFix); err != nil {
			fmt.Printf("[WARN] Home check failed: %v\n", err)
		}

		runSourcesCheck()
		runProjectCheck()
		return nil
	},
}

func runToolsCheck() {
	fmt.Println("Tools check:")
	for _, p := range detect.ProbeTools("git", "node", "npm", "go") {
		if p.Available {
			fmt.Printf("  [ OK ] %s found at %s\n", p.Name, p.Path)
		} else {
			fmt.Printf("  [MISS] %s not found\n", p.Name)
		}
	}
}

func runSourcesCheck() {
	path, err := userdata.GetSourcesPath()
	if err != nil {
		fmt.Printf("[WARN] Cannot resolve sources file: %v\n", err)
		return
	}
	dirs, err := sources.List(path)
	if err != nil {
		fmt.Printf("[WARN] Cannot read sources file: %v\n", err)
		return
	}
	userdata.CheckSources(os.Stdout, dirs)
}

func runProjectCheck() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	if !project.Exists(cwd) {
		return
	}

	fmt.Println("Project check:")
	cfg, err := project.Load(cwd)
	if err != nil {
		fmt.Printf("  [FAIL] Cannot parse %s: %v\n", project.ConfigPath(cwd), err)
		return
	}
	fmt.Printf("  [ OK ] %s is valid\n", project.ConfigPath(cwd))
	fmt.Printf("  [INFO] Archetype: %s", cfg.Archetype)
	if cfg.Framework != "" {
		fmt.Printf(" (%s)", cfg.Framework)
	}
	fmt.Println()
	fmt.Printf("  [INFO] Applied addons: %d\n", len(cfg.Addons))
}

// runSourcesManifestCheck validates every addon manifest reachable through
// the registered sources, plus the contributor registry when present.
func runSourcesManifestCheck() error {
	roots := make([]string, 0, 4)

	if registryRoot, ok := userdata.GetContributorRegistryRoot(); ok {
		roots = append(roots, registryRoot)
	}

	path, err := userdata.GetSourcesPath()
	if err == nil {
		if dirs, listErr := sources.List(path); listErr == nil {
			roots = append(roots, dirs...)
		}
	}

	if len(roots) == 0 {
		fmt.Println("No sources to check.")
		return nil
	}

	invalid := 0
	for _, root := range roots {
		n, err := userdata.CheckManifests(os.Stdout, root)
		if err != nil {
			return err
		}
		invalid += n
	}

	if invalid > 0 {
		return fmt.Errorf("%d manifest(s) failed validation", invalid)
	}
	return nil
}

func runManifestCheck(path string) error {
	fmt.Printf("Manifest validation: %s\n", path)

	// Validate against JSON Schema.
	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Printf("  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		// Parse to get kind and name for the success message.
		base, err := manifest.Parse(path)
		if err != nil {
			fmt.Printf("  [ OK ] Valid manifest\n")
			return nil
		}
		fmt.Printf("  [ OK ] Valid %s manifest: %s (v%s)\n", base.Kind, base.Name, base.Version)
		return nil
	}

	// Report validation issues.
	fmt.Printf("  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Printf("    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Printf("    - %s\n", issue.Message)
		}
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(result.Issues))
}
