// Package scaffold generates project trees from embedded archetype
// templates. It powers "bakery new", producing the file structure for each
// archetype+framework choice with injection markers pre-placed, and
// "bakery create addon", producing an addon authoring skeleton.
package scaffold
