package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/bakery-labs/bakery/internal/marker"
	"github.com/spf13/cobra"
)

var (
	markersJSON   bool
	markersStrict bool
)

// Directories never scanned for markers.
var markersSkipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"vendor":       true,
}

// markersMaxFileSize caps the per-file read; marker files are source files,
// anything bigger is generated output.
const markersMaxFileSize = 1 << 20

func init() {
	markersCmd.Flags().BoolVar(&markersJSON, "json", false, "Output in JSON format")
	markersCmd.Flags().BoolVar(&markersStrict, "strict", false, "Fail when any file has malformed marker pairs")
	rootCmd.AddCommand(markersCmd)
}

var markersCmd = &cobra.Command{
	Use:   "markers [path]",
	Short: "List injection markers in a project",
	Long: `Scan a project tree (or a single file) for injection marker pairs and
print each region with its location and comment style.

Malformed pairs (unmatched, misnested, or duplicate markers) are reported
as issues. With --strict, any issue makes the command fail, which makes it
usable as a CI check for archetype and addon authors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMarkers,
}

// markerEntry is one well-formed region for display.
type markerEntry struct {
	File      string `json:"file"`
	Marker    string `json:"marker"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Style     string `json:"style"`
}

// markerIssue is one file whose markers failed structural validation.
type markerIssue struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

func runMarkers(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", root, err)
	}

	var entries []markerEntry
	var issues []markerIssue

	if info.IsDir() {
		entries, issues, err = scanTree(root)
	} else {
		entries, issues, err = scanOne(root, filepath.Base(root))
	}
	if err != nil {
		return err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].File != entries[j].File {
			return entries[i].File < entries[j].File
		}
		return entries[i].StartLine < entries[j].StartLine
	})

	if markersJSON {
		if err := printMarkersJSON(cmd, entries, issues); err != nil {
			return err
		}
	} else {
		printMarkersTable(cmd, entries, issues)
	}

	if markersStrict && len(issues) > 0 {
		return fmt.Errorf("%d file(s) with malformed markers", len(issues))
	}
	return nil
}

// scanTree walks root and collects marker regions from every text file.
func scanTree(root string) ([]markerEntry, []markerIssue, error) {
	var entries []markerEntry
	var issues []markerIssue

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if markersSkipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		fileEntries, fileIssues, scanErr := scanOne(path, filepath.ToSlash(rel))
		if scanErr != nil {
			return scanErr
		}
		entries = append(entries, fileEntries...)
		issues = append(issues, fileIssues...)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	return entries, issues, nil
}

// scanOne parses a single file for marker regions. Binary and oversized
// files are silently skipped.
func scanOne(path, display string) ([]markerEntry, []markerIssue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if info.Size() > markersMaxFileSize {
		return nil, nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, nil, nil
	}

	regions, err := marker.Parse(string(data), display)
	if err != nil {
		return nil, []markerIssue{{File: display, Error: err.Error()}}, nil
	}

	entries := make([]markerEntry, 0, len(regions))
	for _, r := range regions {
		// Region lines are zero-based; display is one-based.
		entries = append(entries, markerEntry{
			File:      display,
			Marker:    r.Name,
			StartLine: r.StartLine + 1,
			EndLine:   r.EndLine + 1,
			Style:     string(r.Style),
		})
	}
	return entries, nil, nil
}

func printMarkersTable(cmd *cobra.Command, entries []markerEntry, issues []markerIssue) {
	out := cmd.OutOrStdout()

	if len(entries) == 0 && len(issues) == 0 {
		fmt.Fprintln(out, "No markers found.")
		return
	}

	if len(entries) > 0 {
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MARKER\tFILE\tLINES\tSTYLE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%d-%d\t%s\n", styles.Marker.Render(e.Marker), e.File, e.StartLine, e.EndLine, e.Style)
		}
		w.Flush()
	}

	if len(issues) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, styles.Warning.Render("Issues:"))
		for _, issue := range issues {
			fmt.Fprintf(out, "  %s\n", issue.Error)
		}
	}
}

func printMarkersJSON(cmd *cobra.Command, entries []markerEntry, issues []markerIssue) error {
	if entries == nil {
		entries = []markerEntry{}
	}
	payload := struct {
		Markers []markerEntry `json:"markers"`
		Issues  []markerIssue `json:"issues,omitempty"`
	}{Markers: entries, Issues: issues}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
