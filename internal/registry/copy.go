package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bakery-labs/bakery/internal/manifest"
	"github.com/bakery-labs/bakery/internal/render"
)

// excludedNames are files/directories never copied out of an addon.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

// CopyAddonFiles materializes an addon's files[] entries into the project.
// Sources ending in .tmpl are rendered with ctx and the suffix dropped from
// the default destination; everything else is copied verbatim. Existing
// destinations are left untouched and reported as warnings so an addon can
// never clobber user edits.
func CopyAddonFiles(addonDir string, copies []manifest.FileCopy, projectDir string, ctx map[string]interface{}) (created []string, warnings []string, err error) {
	for _, fc := range copies {
		src := filepath.Join(addonDir, filepath.FromSlash(fc.Src))
		dest := fc.Dest
		if dest == "" {
			dest = strings.TrimSuffix(fc.Src, ".tmpl")
		}
		dst := filepath.Join(projectDir, filepath.FromSlash(dest))

		info, statErr := os.Stat(src)
		if statErr != nil {
			return created, warnings, fmt.Errorf("addon file %s: %w", fc.Src, statErr)
		}

		if info.IsDir() {
			copiedFiles, dirWarnings, dirErr := copyDir(src, dst, ctx)
			created = append(created, copiedFiles...)
			warnings = append(warnings, dirWarnings...)
			if dirErr != nil {
				return created, warnings, dirErr
			}
			continue
		}

		wrote, warning, copyErr := copyOne(src, dst, info.Mode(), ctx)
		if copyErr != nil {
			return created, warnings, copyErr
		}
		if warning != "" {
			warnings = append(warnings, warning)
		}
		if wrote {
			created = append(created, dst)
		}
	}

	return created, warnings, nil
}

// copyDir recursively copies src to dst, excluding entries in excludedNames
// and rendering .tmpl files on the way.
func copyDir(src, dst string, ctx map[string]interface{}) (created []string, warnings []string, err error) {
	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, nil, err
	}

	for _, entry := range entries {
		if excludedNames[entry.Name()] {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			subCreated, subWarnings, subErr := copyDir(srcPath, dstPath, ctx)
			created = append(created, subCreated...)
			warnings = append(warnings, subWarnings...)
			if subErr != nil {
				return created, warnings, subErr
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue // skip symlinks and other special files
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			return created, warnings, infoErr
		}

		dstPath = strings.TrimSuffix(dstPath, ".tmpl")
		wrote, warning, copyErr := copyOne(srcPath, dstPath, info.Mode(), ctx)
		if copyErr != nil {
			return created, warnings, copyErr
		}
		if warning != "" {
			warnings = append(warnings, warning)
		}
		if wrote {
			created = append(created, dstPath)
		}
	}

	return created, warnings, nil
}

// copyOne copies or renders a single file. It refuses to overwrite an
// existing destination and reports a warning instead.
func copyOne(src, dst string, mode os.FileMode, ctx map[string]interface{}) (wrote bool, warning string, err error) {
	if _, statErr := os.Stat(dst); statErr == nil {
		return false, fmt.Sprintf("%s already exists, skipped", dst), nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return false, "", err
	}

	content := data
	if strings.HasSuffix(src, ".tmpl") {
		rendered, renderErr := render.Render(string(data), ctx)
		if renderErr != nil {
			return false, "", fmt.Errorf("rendering %s: %w", src, renderErr)
		}
		content = []byte(rendered)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return false, "", err
	}
	if err := os.WriteFile(dst, content, mode.Perm()); err != nil {
		return false, "", err
	}
	return true, "", nil
}
