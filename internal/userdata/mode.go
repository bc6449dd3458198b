package userdata

import (
	"os"

	"github.com/bakery-labs/bakery/internal/branding"
)

// Mode represents the operating mode of the CLI.
type Mode int

const (
	// ModeEndUser is for developers who installed the CLI without cloning the
	// catalog. Addons come from ~/.bakery/catalog-repo/registry and user sources.
	ModeEndUser Mode = iota
	// ModeContributor is for developers working inside a catalog checkout.
	// BAKERY_HOME is set and its registry/ takes priority during discovery.
	ModeContributor
)

// DetectMode returns the current operating mode.
// If BAKERY_HOME is set, the CLI is in contributor mode.
// Otherwise, it's in end-user mode.
func DetectMode() Mode {
	if os.Getenv(branding.EnvVar("HOME")) != "" {
		return ModeContributor
	}
	return ModeEndUser
}

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeContributor:
		return "contributor"
	case ModeEndUser:
		return "end-user"
	default:
		return "unknown"
	}
}
