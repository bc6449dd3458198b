package registry

// Source represents a location to search for addons (e.g., catalog, a user source).
type Source struct {
	Name     string // e.g., "catalog", "acme-addons"
	BasePath string // absolute path to the source root
}

// ResolvedAddon represents an addon or archetype found in a source.
type ResolvedAddon struct {
	Path         string // e.g., "addons/auth-jwt"
	ManifestPath string // absolute path to the manifest file
	Dir          string // absolute path to the addon directory
	Source       string // name of the source it was found in
	Category     string // "addon" or "archetype"
}

// DependencyNode represents a node in the requires tree.
type DependencyNode struct {
	Path     string
	Resolved *ResolvedAddon
	Children []*DependencyNode
	Deduped  bool // true if this addon was already seen earlier in the tree
	Applied  bool // true if the project has already applied this addon
}

// ApplyPlan summarizes what an add operation will apply.
type ApplyPlan struct {
	Root      *DependencyNode
	Addons    []*ResolvedAddon // flattened, deduplicated, dependencies first
	SkipCount int              // already-applied count
	Warnings  []string         // compatibility warnings, non-fatal
}
