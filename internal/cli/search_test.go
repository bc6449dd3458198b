package cli

import (
	"testing"

	"github.com/bakery-labs/bakery/internal/registry"
)

func TestMatchesSearchByQuery(t *testing.T) {
	da := registry.DiscoveredAddon{
		Path:        "addons/auth-jwt",
		Name:        "auth-jwt",
		Version:     "1.0.0",
		Description: "JWT authentication middleware and login routes",
		Tags:        []string{"auth", "security"},
		Source:      "catalog",
	}

	tests := []struct {
		name     string
		query    string
		expected bool
	}{
		{"empty query matches all", "", true},
		{"exact name match", "auth-jwt", true},
		{"partial name match", "jwt", true},
		{"case insensitive name", "JWT", true},
		{"description match", "login routes", true},
		{"description partial", "middleware", true},
		{"addon path match", "addons/auth", true},
		{"no match", "nonexistent-thing", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchesSearch(da, tt.query, nil, "")
			if got != tt.expected {
				t.Errorf("matchesSearch(query=%q) = %v, want %v", tt.query, got, tt.expected)
			}
		})
	}
}

func TestMatchesSearchByTag(t *testing.T) {
	da := registry.DiscoveredAddon{
		Path: "addons/auth-jwt",
		Name: "auth-jwt",
		Tags: []string{"auth", "security", "jwt"},
	}

	tests := []struct {
		name       string
		filterTags []string
		expected   bool
	}{
		{"no tag filter", nil, true},
		{"empty tag filter", []string{}, true},
		{"matching single tag", []string{"auth"}, true},
		{"matching second tag", []string{"security"}, true},
		{"case insensitive tag", []string{"AUTH"}, true},
		{"one of multiple tags matches", []string{"nonexistent", "auth"}, true},
		{"no matching tag", []string{"database", "cache"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchesSearch(da, "", tt.filterTags, "")
			if got != tt.expected {
				t.Errorf("matchesSearch(tags=%v) = %v, want %v", tt.filterTags, got, tt.expected)
			}
		})
	}
}

func TestMatchesSearchNoTags(t *testing.T) {
	da := registry.DiscoveredAddon{
		Path: "addons/site-nav",
		Name: "site-nav",
		Tags: nil,
	}

	// An addon with no tags should not match a tag filter.
	got := matchesSearch(da, "", []string{"auth"}, "")
	if got {
		t.Error("addon with no tags should not match a tag filter")
	}

	// But it should match when there's no tag filter.
	got = matchesSearch(da, "", nil, "")
	if !got {
		t.Error("addon with no tags should match when no tag filter is set")
	}
}

func TestMatchesSearchByArchetype(t *testing.T) {
	da := registry.DiscoveredAddon{
		Path:       "addons/auth-jwt",
		Name:       "auth-jwt",
		Archetypes: []string{"api"},
	}

	tests := []struct {
		name            string
		archetypeFilter string
		expected        bool
	}{
		{"no archetype filter", "", true},
		{"matching archetype", "api", true},
		{"case insensitive archetype", "API", true},
		{"non-matching archetype", "web", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchesSearch(da, "", nil, tt.archetypeFilter)
			if got != tt.expected {
				t.Errorf("matchesSearch(archetype=%q) = %v, want %v", tt.archetypeFilter, got, tt.expected)
			}
		})
	}
}

func TestMatchesSearchUnrestrictedArchetype(t *testing.T) {
	da := registry.DiscoveredAddon{
		Path:       "addons/logging",
		Name:       "logging",
		Archetypes: nil,
	}

	// An addon that declares no archetypes is compatible with all of them.
	if !matchesSearch(da, "", nil, "api") {
		t.Error("addon without archetype list should match any archetype filter")
	}
	if !matchesSearch(da, "", nil, "web") {
		t.Error("addon without archetype list should match any archetype filter")
	}
}

func TestMatchesSearchCombined(t *testing.T) {
	da := registry.DiscoveredAddon{
		Path:        "addons/auth-jwt",
		Name:        "auth-jwt",
		Description: "JWT authentication middleware",
		Tags:        []string{"auth", "security"},
		Archetypes:  []string{"api"},
	}

	// All filters match.
	got := matchesSearch(da, "jwt", []string{"auth"}, "api")
	if !got {
		t.Error("expected match when all filters match")
	}

	// Query matches but archetype doesn't.
	got = matchesSearch(da, "jwt", []string{"auth"}, "web")
	if got {
		t.Error("expected no match when archetype filter doesn't match")
	}

	// Query and archetype match, but tag doesn't.
	got = matchesSearch(da, "jwt", []string{"database"}, "api")
	if got {
		t.Error("expected no match when tag filter doesn't match")
	}

	// Tag and archetype match, but query doesn't.
	got = matchesSearch(da, "nonexistent", []string{"auth"}, "api")
	if got {
		t.Error("expected no match when query doesn't match")
	}
}

func TestMatchesAnyTag(t *testing.T) {
	tests := []struct {
		name       string
		addonTags  []string
		filterTags []string
		expected   bool
	}{
		{"both empty", nil, nil, false},
		{"no addon tags", nil, []string{"auth"}, false},
		{"no filter tags", []string{"auth"}, nil, false},
		{"single match", []string{"auth"}, []string{"auth"}, true},
		{"case insensitive", []string{"Auth"}, []string{"auth"}, true},
		{"partial overlap", []string{"auth", "security"}, []string{"database", "auth"}, true},
		{"no overlap", []string{"auth", "security"}, []string{"database", "cache"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchesAnyTag(tt.addonTags, tt.filterTags)
			if got != tt.expected {
				t.Errorf("matchesAnyTag(%v, %v) = %v, want %v", tt.addonTags, tt.filterTags, got, tt.expected)
			}
		})
	}
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		name     string
		list     []string
		s        string
		expected bool
	}{
		{"empty list", nil, "api", false},
		{"exact match", []string{"api", "web"}, "api", true},
		{"case insensitive", []string{"API"}, "api", true},
		{"no match", []string{"web"}, "api", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := containsFold(tt.list, tt.s)
			if got != tt.expected {
				t.Errorf("containsFold(%v, %q) = %v, want %v", tt.list, tt.s, got, tt.expected)
			}
		})
	}
}
