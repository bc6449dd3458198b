package marker

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Style identifies the comment dialect a marker is written in.
type Style string

const (
	StyleJS     Style = "js"
	StylePython Style = "python"
	StyleHTML   Style = "html"
	StyleCSS    Style = "css"
)

// Keyword is the fixed marker keyword. It is deliberately not rebrandable:
// markers already baked into generated projects must keep parsing after a
// fork renames the CLI.
const Keyword = "BAKERY"

// A marker occupies a whole line: optional leading whitespace (captured as
// the region's indent), the comment form, and at most trailing whitespace.
type dialect struct {
	style Style
	start *regexp.Regexp
	end   *regexp.Regexp
}

// Checked in order on every line; the first match wins.
var dialects = []dialect{
	{
		style: StyleJS,
		start: regexp.MustCompile(`^(\s*)// BAKERY:INJECT:([a-z0-9-]+)\s*$`),
		end:   regexp.MustCompile(`^(\s*)// BAKERY:END:([a-z0-9-]+)\s*$`),
	},
	{
		style: StylePython,
		start: regexp.MustCompile(`^(\s*)# BAKERY:INJECT:([a-z0-9-]+)\s*$`),
		end:   regexp.MustCompile(`^(\s*)# BAKERY:END:([a-z0-9-]+)\s*$`),
	},
	{
		style: StyleHTML,
		start: regexp.MustCompile(`^(\s*)<!-- BAKERY:INJECT:([a-z0-9-]+) -->\s*$`),
		end:   regexp.MustCompile(`^(\s*)<!-- BAKERY:END:([a-z0-9-]+) -->\s*$`),
	},
	{
		style: StyleCSS,
		start: regexp.MustCompile(`^(\s*)/\* BAKERY:INJECT:([a-z0-9-]+) \*/\s*$`),
		end:   regexp.MustCompile(`^(\s*)/\* BAKERY:END:([a-z0-9-]+) \*/\s*$`),
	},
}

var styleByExt = map[string]Style{
	"ts": StyleJS, "tsx": StyleJS, "js": StyleJS, "jsx": StyleJS,
	"mjs": StyleJS, "cjs": StyleJS, "json": StyleJS,
	"py": StylePython, "yml": StylePython, "yaml": StylePython,
	"sh": StylePython, "toml": StylePython, "ini": StylePython, "conf": StylePython,
	"html": StyleHTML, "xml": StyleHTML, "svg": StyleHTML, "md": StyleHTML,
	"css": StyleCSS, "scss": StyleCSS, "less": StyleCSS,
}

// DetectStyle maps a file's extension to its default comment dialect.
// Unknown extensions fall back to js. This is a hint for formatting new
// markers; Parse always tries every dialect on every line.
func DetectStyle(filePath string) Style {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	if style, ok := styleByExt[ext]; ok {
		return style
	}
	return StyleJS
}

// StartText returns the marker body of an opening marker, e.g.
// "BAKERY:INJECT:routes". Used in error messages and by callers that
// format new markers.
func StartText(name string) string { return Keyword + ":INJECT:" + name }

// EndText returns the marker body of a closing marker, e.g.
// "BAKERY:END:routes".
func EndText(name string) string { return Keyword + ":END:" + name }
