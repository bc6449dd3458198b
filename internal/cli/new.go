package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bakery-labs/bakery/internal/branding"
	"github.com/bakery-labs/bakery/internal/compose"
	"github.com/bakery-labs/bakery/internal/detect"
	"github.com/bakery-labs/bakery/internal/integrations"
	"github.com/bakery-labs/bakery/internal/logging"
	"github.com/bakery-labs/bakery/internal/project"
	"github.com/bakery-labs/bakery/internal/scaffold"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	newArchetype      string
	newFramework      string
	newAddons         []string
	newContext        []string
	newOutputDir      string
	newSkipInstall    bool
	newPackageManager string
)

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new project from an archetype",
	Long: `Create a new project from an archetype, optionally applying addons.

With --archetype, the project is created non-interactively. Without it, an
interactive wizard walks through archetype, framework, addon, and name
selection (requires a terminal).

Examples:
  ` + branding.CLIName() + ` new                                   # wizard
  ` + branding.CLIName() + ` new orders-api --archetype api
  ` + branding.CLIName() + ` new orders-api --archetype api --framework fastify --addon auth-jwt
  ` + branding.CLIName() + ` new my-site --archetype web --context author=me --skip-install`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVar(&newArchetype, "archetype", "", "Project archetype (omit to run the wizard)")
	newCmd.Flags().StringVar(&newFramework, "framework", "", "Framework within the archetype (default: archetype default)")
	newCmd.Flags().StringArrayVar(&newAddons, "addon", nil, "Addon to apply after generation (repeatable)")
	newCmd.Flags().StringArrayVar(&newContext, "context", nil, "Template context override as key=value (repeatable)")
	newCmd.Flags().StringVar(&newOutputDir, "output-dir", "", "Output directory (default: ./<name>)")
	newCmd.Flags().BoolVar(&newSkipInstall, "skip-install", false, "Skip git init and dependency installation")
	newCmd.Flags().StringVar(&newPackageManager, "package-manager", "", "Package manager for installs (default: detect from lockfile)")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	log := logging.Named("new")

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	ctxOverrides, err := parseContextFlags(newContext)
	if err != nil {
		return err
	}

	if newPackageManager != "" && !detect.Valid(newPackageManager) {
		return fmt.Errorf("unsupported package manager %q (npm, pnpm, yarn, bun)", newPackageManager)
	}

	// Sources are only needed for addons, so resolution failures are
	// fatal only when addons are in play.
	srcs, srcErr := resolveSources()
	if srcErr != nil {
		if len(newAddons) > 0 {
			return srcErr
		}
		srcs = nil
	}
	log.Debug("resolved sources", "count", len(srcs))

	var settings *compose.Settings
	if newArchetype == "" {
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return fmt.Errorf("no archetype given and stdin is not a terminal: pass --archetype (available: %s)", strings.Join(archetypeList(), ", "))
		}
		settings, err = compose.RunInteractive(srcs, name, os.Stdin, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		for k, v := range ctxOverrides {
			settings.Context[k] = v
		}
	} else {
		if name == "" {
			return fmt.Errorf("project name required (usage: %s new <name> --archetype %s)", branding.CLIName(), newArchetype)
		}
		settings = &compose.Settings{
			ProjectName: name,
			Archetype:   newArchetype,
			Framework:   newFramework,
			Addons:      newAddons,
			Context:     ctxOverrides,
		}
	}
	settings.CLIVersion = buildVersion

	plan, err := compose.BuildPlan(*settings, srcs)
	if err != nil {
		return err
	}

	for _, w := range plan.Warnings {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles.Warning.Render("Warning:"), w)
	}

	outputDir := newOutputDir
	if outputDir == "" {
		outputDir = filepath.Join(".", plan.ProjectName)
	}
	if err := ensureEmptyDir(outputDir); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nCreating %s project %s (%s)\n",
		plan.Archetype.Name, styles.AddonName.Render(plan.ProjectName), plan.Framework.Name)

	result, err := scaffold.Generate(plan.Archetype.Name, plan.Framework.Name, plan.Context, outputDir)
	if err != nil {
		return err
	}
	for _, f := range result.Files {
		fmt.Fprintf(cmd.OutOrStdout(), "  + %s\n", f)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", styles.Warning.Render("!"), w)
	}

	if err := project.Init(outputDir, plan.Archetype.Name, plan.Framework.Name, plan.Context); err != nil {
		return fmt.Errorf("recording project state: %w", err)
	}

	failed := 0
	if len(plan.Addons) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nApplying addons:")
		failed, err = applyAddonSet(cmd.OutOrStdout(), outputDir, plan.Addons, plan.Context)
		if err != nil {
			return err
		}
	}

	if !newSkipInstall {
		fmt.Fprintln(cmd.OutOrStdout())
		runIntegrations(cmd, outputDir)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%s Created %s at %s\n", styles.Success.Render("✓"), plan.ProjectName, outputDir)
	if failed > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d injection(s) failed; review the output above.\n", styles.Warning.Render("!"), failed)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintf(cmd.OutOrStdout(), "  cd %s\n", outputDir)
	if newSkipInstall {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s install\n", installCommandName(outputDir))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %s add <addon>   # apply more addons later\n", branding.CLIName())
	return nil
}

// runIntegrations dispatches the post-generation tool steps and prints
// one line per tool.
func runIntegrations(cmd *cobra.Command, projectDir string) {
	pm := detect.PackageManager(newPackageManager)
	for _, res := range integrations.Dispatch(projectDir, integrations.AllTools(), pm) {
		switch res.Status {
		case integrations.StatusOK:
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles.Success.Render("✓"), res.Detail)
		case integrations.StatusSkipped:
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", styles.Dim.Render(fmt.Sprintf("- %s: %s", res.Tool, res.Detail)))
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles.Warning.Render("!"), res.Detail)
		}
	}
}

// parseContextFlags turns repeated key=value flags into a map.
func parseContextFlags(pairs []string) (map[string]string, error) {
	ctx := map[string]string{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --context %q: expected key=value", pair)
		}
		ctx[key] = value
	}
	return ctx, nil
}

// ensureEmptyDir allows a missing or empty output directory and rejects
// anything with content.
func ensureEmptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking output directory: %w", err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("output directory %s already exists and is not empty", dir)
	}
	return nil
}

// installCommandName picks the package manager name for next-step hints.
func installCommandName(projectDir string) string {
	if newPackageManager != "" {
		return newPackageManager
	}
	return string(detect.DetectPackageManager(projectDir))
}
