package scaffold

import "embed"

// assets holds the archetype template sets and the addon authoring set.
//
//go:embed archetypes addon
var assets embed.FS
