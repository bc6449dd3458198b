package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/bakery-labs/bakery/internal/registry"
	"github.com/spf13/cobra"
)

var (
	searchTagFilter       string
	searchArchetypeFilter string
	searchJSON            bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for available addons across all sources",
	Long: `Search for addons across all available sources (catalog, registered
source directories).

The query matches against addon names and descriptions (case-insensitive
substring). Use --tag to filter by tags and --archetype to show only addons
compatible with a given archetype.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchTagFilter, "tag", "", "Filter by tags (comma-separated, matches any)")
	searchCmd.Flags().StringVar(&searchArchetypeFilter, "archetype", "", "Show only addons compatible with this archetype")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(searchCmd)
}

// searchEntry represents a discovered addon for display.
type searchEntry struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Source      string   `json:"source"`
	Archetypes  []string `json:"archetypes,omitempty"`
	Requires    []string `json:"requires,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	srcs, err := resolveSources()
	if err != nil {
		return fmt.Errorf("building sources: %w", err)
	}

	cachePath, _ := registry.DefaultCachePath()
	discovered, err := registry.DiscoverAllCached(srcs, cachePath)
	if err != nil {
		return fmt.Errorf("discovering addons: %w", err)
	}

	// Parse tag filter into a set.
	var filterTags []string
	if searchTagFilter != "" {
		for _, t := range strings.Split(searchTagFilter, ",") {
			tag := strings.TrimSpace(t)
			if tag != "" {
				filterTags = append(filterTags, strings.ToLower(tag))
			}
		}
	}

	// Filter results.
	var entries []searchEntry
	for _, da := range discovered {
		if !matchesSearch(da, query, filterTags, searchArchetypeFilter) {
			continue
		}

		entries = append(entries, searchEntry{
			Name:        da.Name,
			Path:        da.Path,
			Version:     da.Version,
			Description: da.Description,
			Tags:        da.Tags,
			Source:      da.Source,
			Archetypes:  da.Archetypes,
			Requires:    da.Requires,
		})
	}

	if len(entries) == 0 {
		msg := "No addons found"
		if query != "" {
			msg += fmt.Sprintf(" matching %q", query)
		}
		if searchTagFilter != "" {
			msg += fmt.Sprintf(" with --tag=%s", searchTagFilter)
		}
		if searchArchetypeFilter != "" {
			msg += fmt.Sprintf(" with --archetype=%s", searchArchetypeFilter)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	}

	if searchJSON {
		return printSearchJSON(cmd, entries)
	}
	return printSearchTable(cmd, entries)
}

// matchesSearch returns true if the discovered addon matches all provided
// filters. Filters are AND-combined: the addon must match every non-empty one.
func matchesSearch(da registry.DiscoveredAddon, query string, filterTags []string, archetypeFilter string) bool {
	// Filter by archetype compatibility. An addon that declares no
	// archetypes is compatible with all of them.
	if archetypeFilter != "" && len(da.Archetypes) > 0 {
		if !containsFold(da.Archetypes, archetypeFilter) {
			return false
		}
	}

	// Filter by tags (match any).
	if len(filterTags) > 0 {
		if !matchesAnyTag(da.Tags, filterTags) {
			return false
		}
	}

	// Filter by query (substring match on name, description, or addon path).
	if query != "" {
		q := strings.ToLower(query)
		nameLower := strings.ToLower(da.Name)
		descLower := strings.ToLower(da.Description)
		pathLower := strings.ToLower(da.Path)
		if !strings.Contains(nameLower, q) &&
			!strings.Contains(descLower, q) &&
			!strings.Contains(pathLower, q) {
			return false
		}
	}

	return true
}

// matchesAnyTag returns true if any of the addon's tags match any of the
// filter tags. Comparison is case-insensitive.
func matchesAnyTag(addonTags []string, filterTags []string) bool {
	for _, ft := range filterTags {
		ftLower := strings.ToLower(ft)
		for _, at := range addonTags {
			if strings.ToLower(at) == ftLower {
				return true
			}
		}
	}
	return false
}

// containsFold reports whether list contains s, case-insensitively.
func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

func printSearchTable(cmd *cobra.Command, entries []searchEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tSOURCE\tDESCRIPTION")
	for _, e := range entries {
		version := e.Version
		if version == "" {
			version = "-"
		}
		desc := e.Description
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, version, e.Source, desc)
	}
	return w.Flush()
}

func printSearchJSON(cmd *cobra.Command, entries []searchEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
