package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/bakery-labs/bakery/internal/branding"
	"github.com/bakery-labs/bakery/internal/catalog"
	"github.com/bakery-labs/bakery/internal/project"
	"github.com/bakery-labs/bakery/internal/scaffold"
	"github.com/bakery-labs/bakery/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	initGlobal    bool
	initArchetype string
	initFramework string
)

func init() {
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "Initialize the home directory (~/"+branding.HomeDir()+"/)")
	initCmd.Flags().StringVar(&initArchetype, "archetype", "", "Archetype of the existing project (required without --global)")
	initCmd.Flags().StringVar(&initFramework, "framework", "", "Framework of the existing project (default: archetype default)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize " + branding.DisplayName() + " configuration",
	Long: `Initialize the ` + branding.DisplayName() + ` configuration.

Without flags, marks the current directory as a ` + branding.DisplayName() + ` project by creating
.` + branding.CLIName() + `/project.yaml, so addons can be applied to a project that was not
generated by '` + branding.CLIName() + ` new'.

With --global, initializes the home directory (~/` + branding.HomeDir() + `/) and clones
the community catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if initGlobal {
			return runGlobalInit()
		}
		return runProjectInit()
	},
}

func runGlobalInit() error {
	root, err := userdata.GetHomeRoot()
	if err != nil {
		return err
	}
	fmt.Printf("Initializing %s home at %s\n", branding.DisplayName(), root)

	if err := userdata.InitGlobal(os.Stdout); err != nil {
		return fmt.Errorf("initializing home directory: %w", err)
	}

	fmt.Println("\nHome directory initialized successfully.")

	// Clone the catalog if not already present (end-user mode only).
	if userdata.DetectMode() == userdata.ModeEndUser {
		exists, _ := userdata.CatalogExists()
		if !exists {
			catalogRepoRoot, err := userdata.GetCatalogRepoRoot()
			if err != nil {
				fmt.Printf("\nWarning: could not determine catalog path: %v\n", err)
				fmt.Printf("Run '%s catalog update' later to fetch the catalog.\n", branding.CLIName())
				return nil
			}

			fmt.Printf("\nCloning catalog to %s...\n", catalogRepoRoot)
			if err := catalog.Clone(catalogRepoRoot); err != nil {
				fmt.Printf("Warning: catalog clone failed: %v\n", err)
				fmt.Printf("Run '%s catalog update' later to retry.\n", branding.CLIName())
				return nil // Non-fatal: home init still succeeded.
			}
			fmt.Println("Catalog cloned successfully.")
		}
	}

	return nil
}

func runProjectInit() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if project.Exists(cwd) {
		return fmt.Errorf("project already initialized: %s exists", project.ConfigPath(cwd))
	}

	if initArchetype == "" {
		return fmt.Errorf("--archetype is required (available: %s)", strings.Join(archetypeList(), ", "))
	}

	arch, ok := scaffold.Lookup(initArchetype)
	if !ok {
		return fmt.Errorf("unknown archetype %q (available: %s)", initArchetype, strings.Join(archetypeList(), ", "))
	}

	fw := arch.DefaultFramework()
	if initFramework != "" {
		fw, ok = arch.Framework(initFramework)
		if !ok {
			return fmt.Errorf("archetype %q has no framework %q", arch.Name, initFramework)
		}
	}

	fmt.Printf("Initializing %s project in %s\n", branding.DisplayName(), cwd)
	fmt.Printf("Archetype: %s (%s)\n", arch.Name, fw.Name)

	if err := project.Init(cwd, arch.Name, fw.Name, nil); err != nil {
		return fmt.Errorf("initializing project: %w", err)
	}

	fmt.Printf("\nProject initialized. Created %s\n", project.ConfigPath(cwd))
	fmt.Printf("Use '%s add <addon>' to apply addons to this project.\n", branding.CLIName())
	return nil
}

func archetypeList() []string {
	archetypes := scaffold.Archetypes()
	names := make([]string, 0, len(archetypes))
	for _, a := range archetypes {
		names = append(names, a.Name)
	}
	return names
}
