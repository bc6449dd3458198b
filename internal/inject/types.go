package inject

import (
	"fmt"
)

// Position selects where inside a region new text lands.
type Position string

const (
	// PositionStart places text before the region's existing content.
	PositionStart Position = "start"
	// PositionEnd places text after the region's existing content, so
	// repeated injections accumulate in application order.
	PositionEnd Position = "end"
)

// JSONMarker is the Result.Marker sentinel for JSON-merge injections,
// which target whole documents rather than a named region.
const JSONMarker = "json"

// Options controls how Content splices text into a region.
type Options struct {
	Position Position
	Newline  bool
	Indent   bool
}

// DefaultOptions returns the option set used when a Definition leaves a
// field unset: append at the end, terminate with a newline, match the
// region's indentation.
func DefaultOptions() Options {
	return Options{Position: PositionEnd, Newline: true, Indent: true}
}

// Definition is one injection as authored in an addon manifest. Exactly
// one of Content, Template or JSON supplies the payload. Newline and
// Indent are pointers so an absent key keeps its default of true.
type Definition struct {
	File     string         `yaml:"file" json:"file"`
	Marker   string         `yaml:"marker,omitempty" json:"marker,omitempty"`
	Content  string         `yaml:"content,omitempty" json:"content,omitempty"`
	Template string         `yaml:"template,omitempty" json:"template,omitempty"`
	JSON     map[string]any `yaml:"json,omitempty" json:"json,omitempty"`
	JSONPath string         `yaml:"jsonPath,omitempty" json:"jsonPath,omitempty"`
	Position string         `yaml:"position,omitempty" json:"position,omitempty"`
	Newline  *bool          `yaml:"newline,omitempty" json:"newline,omitempty"`
	Indent   *bool          `yaml:"indent,omitempty" json:"indent,omitempty"`
}

// Validate checks the structural invariants of a Definition.
func (d Definition) Validate() error {
	if d.File == "" {
		return fmt.Errorf("injection is missing a target file")
	}
	sources := 0
	if d.Content != "" {
		sources++
	}
	if d.Template != "" {
		sources++
	}
	if d.JSON != nil {
		sources++
	}
	if sources != 1 {
		return fmt.Errorf("injection into %s must set exactly one of content, template or json", d.File)
	}
	if d.JSON != nil {
		if d.Marker != "" {
			return fmt.Errorf("JSON injection into %s must not name a marker", d.File)
		}
	} else {
		if d.Marker == "" {
			return fmt.Errorf("injection into %s requires a marker", d.File)
		}
		if d.JSONPath != "" {
			return fmt.Errorf("injection into %s: jsonPath is only valid with json", d.File)
		}
	}
	if d.Position != "" && d.Position != string(PositionStart) && d.Position != string(PositionEnd) {
		return fmt.Errorf("injection into %s: position must be %q or %q", d.File, PositionStart, PositionEnd)
	}
	return nil
}

// options resolves the Definition's optional fields against defaults.
func (d Definition) options() Options {
	opts := DefaultOptions()
	if d.Position != "" {
		opts.Position = Position(d.Position)
	}
	if d.Newline != nil {
		opts.Newline = *d.Newline
	}
	if d.Indent != nil {
		opts.Indent = *d.Indent
	}
	return opts
}

// Request is a batch of injections applied on behalf of one addon.
// Context feeds the template renderer; TemplateBasePath anchors relative
// Definition.Template paths and may be empty when no definition uses one.
type Request struct {
	ProjectDir       string
	Injections       []Definition
	Addon            string
	Context          map[string]any
	TemplateBasePath string
}

// Result records the outcome of one injection.
type Result struct {
	File       string `json:"file"`
	Marker     string `json:"marker"`
	Addon      string `json:"addon"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	LinesAdded int    `json:"linesAdded"`
}
