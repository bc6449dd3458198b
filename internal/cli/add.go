package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bakery-labs/bakery/internal/branding"
	"github.com/bakery-labs/bakery/internal/diff"
	"github.com/bakery-labs/bakery/internal/inject"
	"github.com/bakery-labs/bakery/internal/manifest"
	"github.com/bakery-labs/bakery/internal/project"
	"github.com/bakery-labs/bakery/internal/registry"
	"github.com/bakery-labs/bakery/internal/render"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	addDryRun bool
	addNoDeps bool
	addYes    bool
)

var addCmd = &cobra.Command{
	Use:   "add <addon-ref>",
	Short: "Apply an addon to the current project",
	Long: `Apply an addon to the current project.

The addon reference can be a full registry path (category/name) or a bare
name, which is resolved against all registered sources. Dependencies are
applied first unless --no-deps is given. Already-applied addons are skipped.

Use --dry-run to preview the file copies and code injections as unified
diffs without touching the project.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "preview changes without writing anything")
	addCmd.Flags().BoolVar(&addNoDeps, "no-deps", false, "skip the addon's dependencies")
	addCmd.Flags().BoolVarP(&addYes, "yes", "y", false, "apply without confirmation")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	projectDir, err := os.Getwd()
	if err != nil {
		return err
	}
	if !project.Exists(projectDir) {
		return fmt.Errorf("not a %s project (run '%s init' first)", branding.DisplayName(), branding.CLIName())
	}
	cfg, err := project.Load(projectDir)
	if err != nil {
		return fmt.Errorf("loading project state: %w", err)
	}

	applied := make(map[string]bool, len(cfg.Addons))
	for _, a := range cfg.Addons {
		applied[a.Path] = true
	}

	srcs, err := resolveSources()
	if err != nil {
		return err
	}

	plan, err := registry.BuildApplyPlan(args[0], srcs, applied, addNoDeps, buildVersion, cfg.Archetype)
	if err != nil {
		return err
	}
	if len(plan.Addons) == 0 {
		fmt.Fprintln(out, "Nothing to apply — all addons are already applied.")
		return nil
	}

	registry.PrintPlan(out, plan)

	if addDryRun {
		return runAddDryRun(out, projectDir, plan.Addons, cfg)
	}

	if !addYes {
		fmt.Fprint(out, "? Apply these addons? (Y/n) ")
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
			if answer != "" && answer != "y" && answer != "yes" {
				fmt.Fprintln(out, "Apply cancelled.")
				return nil
			}
		}
	}

	fmt.Fprintln(out, "Applying addons:")
	failed, err := applyAddonSet(out, projectDir, plan.Addons, projectContext(cfg))
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d injection(s) failed", failed)
	}

	fmt.Fprintf(out, "\n%s Applied %d addon(s).\n", styles.Success.Render("✓"), len(plan.Addons))
	return nil
}

// applyAddonSet copies files and runs injections for each resolved addon in
// order, recording successfully applied addons in the project state. Addons
// with failed injections are reported but not recorded, so a rerun retries
// them. Returns the total number of failed injections.
func applyAddonSet(w io.Writer, projectDir string, addons []*registry.ResolvedAddon, baseCtx map[string]interface{}) (failed int, err error) {
	cfg, err := project.Load(projectDir)
	if err != nil {
		return 0, fmt.Errorf("loading project state: %w", err)
	}
	proc := inject.NewProcessor(afero.NewOsFs(), render.Render)

	for _, resolved := range addons {
		name := registry.NameFromPath(resolved.Path)
		m, parseErr := manifest.ParseAddon(resolved.ManifestPath)
		if parseErr != nil {
			return failed, fmt.Errorf("parsing addon %s: %w", name, parseErr)
		}
		ctx := overlayContext(baseCtx, m.Context)

		created, warnings, copyErr := registry.CopyAddonFiles(resolved.Dir, m.Files, projectDir, ctx)
		if copyErr != nil {
			return failed, fmt.Errorf("copying files for %s: %w", name, copyErr)
		}

		results := proc.Process(inject.Request{
			ProjectDir:       projectDir,
			Injections:       m.Inject,
			Addon:            name,
			Context:          ctx,
			TemplateBasePath: resolved.Dir,
		})

		addonFailed := 0
		for _, res := range results {
			if !res.Success {
				addonFailed++
			}
		}

		if addonFailed == 0 {
			fmt.Fprintf(w, "  %s %s (v%s)\n", styles.Success.Render("✓"), styles.AddonName.Render(name), m.Version)
		} else {
			fmt.Fprintf(w, "  %s %s: %d injection(s) failed\n", styles.Error.Render("✗"), name, addonFailed)
		}
		for _, f := range created {
			rel, relErr := filepath.Rel(projectDir, f)
			if relErr != nil {
				rel = f
			}
			fmt.Fprintf(w, "    + %s\n", rel)
		}
		for _, res := range results {
			if res.Success {
				fmt.Fprintf(w, "    ~ %s @ %s (%+d lines)\n", res.File, res.Marker, res.LinesAdded)
			} else {
				fmt.Fprintf(w, "    %s %s: %s\n", styles.Error.Render("✗"), res.File, res.Error)
			}
		}
		for _, warning := range warnings {
			fmt.Fprintf(w, "    %s %s\n", styles.Warning.Render("!"), warning)
		}

		failed += addonFailed
		if addonFailed == 0 {
			cfg.Record(resolved.Path, m.Version, time.Now())
		}
	}

	if saveErr := project.Save(projectDir, cfg); saveErr != nil {
		return failed, fmt.Errorf("saving project state: %w", saveErr)
	}
	return failed, nil
}

// runAddDryRun previews what applyAddonSet would change. Injections run
// against a copy-on-write overlay of the real filesystem and are shown as
// unified diffs; file copies are previewed from the manifest without
// writing anything.
func runAddDryRun(w io.Writer, projectDir string, addons []*registry.ResolvedAddon, cfg *project.Config) error {
	base := afero.NewReadOnlyFs(afero.NewOsFs())
	overlay := afero.NewCopyOnWriteFs(base, afero.NewMemMapFs())
	proc := inject.NewProcessor(overlay, render.Render)
	opts := diff.Options{MaxBytes: 1 << 20}
	baseCtx := projectContext(cfg)

	fmt.Fprintln(w, "Dry run: previewing changes")
	for _, resolved := range addons {
		name := registry.NameFromPath(resolved.Path)
		m, err := manifest.ParseAddon(resolved.ManifestPath)
		if err != nil {
			return fmt.Errorf("parsing addon %s: %w", name, err)
		}
		ctx := overlayContext(baseCtx, m.Context)

		fmt.Fprintf(w, "\n%s (v%s)\n", styles.AddonName.Render(name), m.Version)

		if err := previewFileCopies(w, resolved.Dir, m.Files, projectDir, ctx, opts); err != nil {
			return err
		}

		results := proc.Process(inject.Request{
			ProjectDir:       projectDir,
			Injections:       m.Inject,
			Addon:            name,
			Context:          ctx,
			TemplateBasePath: resolved.Dir,
		})
		if err := previewInjections(w, projectDir, overlay, results, opts); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "\nDry run: no files were changed.")
	return nil
}

// previewFileCopies mirrors the copy rules of registry.CopyAddonFiles:
// .tmpl sources are rendered and lose the suffix, existing destinations
// are skipped, directories are summarized rather than diffed.
func previewFileCopies(w io.Writer, addonDir string, copies []manifest.FileCopy, projectDir string, ctx map[string]interface{}, opts diff.Options) error {
	for _, fc := range copies {
		src := filepath.Join(addonDir, filepath.FromSlash(fc.Src))
		dest := fc.Dest
		if dest == "" {
			dest = strings.TrimSuffix(fc.Src, ".tmpl")
		}
		dst := filepath.Join(projectDir, filepath.FromSlash(dest))

		info, err := os.Stat(src)
		if err != nil {
			return fmt.Errorf("addon file %s: %w", fc.Src, err)
		}
		if info.IsDir() {
			fmt.Fprintf(w, "  + would copy directory %s/ -> %s/\n", fc.Src, dest)
			continue
		}
		if _, err := os.Stat(dst); err == nil {
			fmt.Fprintf(w, "  %s %s already exists, would skip\n", styles.Warning.Render("!"), dest)
			continue
		}

		data, err := os.ReadFile(src)
		if err != nil {
			return err
		}
		content := data
		if strings.HasSuffix(src, ".tmpl") {
			rendered, renderErr := render.Render(string(data), ctx)
			if renderErr != nil {
				return fmt.Errorf("rendering %s: %w", fc.Src, renderErr)
			}
			content = []byte(rendered)
		}

		body, _ := diff.Added("b/"+dest, content, opts)
		fmt.Fprintln(w, styles.ColorizeDiff(body))
	}
	return nil
}

// previewInjections diffs every file a successful injection touched,
// comparing the real file against the overlay copy. Multiple injections
// into the same file collapse into one diff.
func previewInjections(w io.Writer, projectDir string, overlay afero.Fs, results []inject.Result, opts diff.Options) error {
	var files []string
	seen := make(map[string]bool)
	for _, res := range results {
		if !res.Success {
			fmt.Fprintf(w, "  %s %s: %s\n", styles.Error.Render("✗"), res.File, res.Error)
			continue
		}
		if !seen[res.File] {
			seen[res.File] = true
			files = append(files, res.File)
		}
	}

	for _, rel := range files {
		abs := filepath.Join(projectDir, rel)
		before, err := os.ReadFile(abs)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		after, err := afero.ReadFile(overlay, abs)
		if err != nil {
			return err
		}
		if bytes.Equal(before, after) {
			continue
		}
		body, _ := diff.Unified("a/"+rel, "b/"+rel, before, after, opts)
		fmt.Fprintln(w, styles.ColorizeDiff(body))
	}
	return nil
}

// ─── Context Helpers ─────────────────────────────────────────────────────────

// projectContext returns the template context stored in the project state,
// never nil.
func projectContext(cfg *project.Config) map[string]interface{} {
	if cfg.Context == nil {
		return map[string]interface{}{}
	}
	return cfg.Context
}

// overlayContext clones base and fills in addon defaults for keys the
// project has not set. Project values always win over addon defaults.
func overlayContext(base map[string]interface{}, defaults map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(defaults))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range defaults {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return merged
}
