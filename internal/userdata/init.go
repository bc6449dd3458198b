package userdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bakery-labs/bakery/internal/platform"
)

// Default content for config.yaml.
const defaultConfigContent = `color: true
verbose: false
# update_check: false
# package_manager: pnpm
`

// Default content for sources.yaml.
const defaultSourcesContent = `# Local addon source directories registered with 'bakery sources add'.
sources: []
`

// InitGlobal creates the home directory structure with seed files.
// It prints progress messages to w. Existing items are skipped with a message.
func InitGlobal(w io.Writer) error {
	root, err := GetHomeRoot()
	if err != nil {
		return err
	}

	if err := ensureDir(w, root, DirPermNormal); err != nil {
		return err
	}

	configPath := filepath.Join(root, ConfigFile)
	if err := ensureFile(w, configPath, defaultConfigContent, FilePermNormal); err != nil {
		return err
	}

	sourcesPath := filepath.Join(root, SourcesFile)
	if err := ensureFile(w, sourcesPath, defaultSourcesContent, FilePermNormal); err != nil {
		return err
	}

	return nil
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(w io.Writer, path string, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	// MkdirAll may not apply exact perms if parent dirs needed creation.
	if err := platform.Chmod(path, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}

// ensureFile creates a file with content if it doesn't exist.
func ensureFile(w io.Writer, path, content string, perm os.FileMode) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
		return nil
	}

	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}
