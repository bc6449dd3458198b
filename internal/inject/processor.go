package inject

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/bakery-labs/bakery/internal/logging"
)

// RenderFunc renders template text against a context map.
type RenderFunc func(text string, ctx map[string]any) (string, error)

// Processor applies injection batches to a project tree. The filesystem
// is pluggable so a dry run can hand in a copy-on-write overlay and the
// real tree stays untouched.
type Processor struct {
	fs     afero.Fs
	render RenderFunc
}

// NewProcessor returns a Processor writing through fsys and rendering
// payloads with render.
func NewProcessor(fsys afero.Fs, render RenderFunc) *Processor {
	return &Processor{fs: fsys, render: render}
}

// Process applies every Definition in the request, in order, and returns
// one Result per Definition. Definitions are isolated: a failure is
// recorded and the batch continues. Injections run sequentially, so a
// later Definition sees the writes of an earlier one.
func (p *Processor) Process(req Request) []Result {
	log := logging.Named("inject")
	results := make([]Result, 0, len(req.Injections))
	for _, def := range req.Injections {
		res := p.apply(req, def)
		if res.Success {
			log.Debug("applied injection", "addon", req.Addon, "file", res.File, "marker", res.Marker, "lines", res.LinesAdded)
		} else {
			log.Debug("injection failed", "addon", req.Addon, "file", res.File, "marker", res.Marker, "error", res.Error)
		}
		results = append(results, res)
	}
	return results
}

func (p *Processor) apply(req Request, def Definition) Result {
	res := Result{File: def.File, Marker: def.Marker, Addon: req.Addon}
	if def.JSON != nil {
		res.Marker = JSONMarker
	}

	if err := def.Validate(); err != nil {
		res.Error = err.Error()
		return res
	}

	target := filepath.Join(req.ProjectDir, def.File)
	info, err := p.fs.Stat(target)
	if err != nil {
		// Injections modify files the archetype or an earlier addon
		// already put in place; a missing target is the author's bug,
		// not a file to create.
		res.Error = fmt.Sprintf("target file not found: %s", def.File)
		return res
	}
	raw, err := afero.ReadFile(p.fs, target)
	if err != nil {
		res.Error = fmt.Sprintf("reading %s: %v", def.File, err)
		return res
	}
	before := string(raw)

	if def.JSON != nil {
		return p.applyJSON(def, before, target, info.Mode(), res)
	}
	return p.applyText(req, def, before, target, info.Mode(), res)
}

func (p *Processor) applyJSON(def Definition, before, target string, mode fs.FileMode, res Result) Result {
	after, err := JSON(before, def.JSONPath, def.JSON, def.File)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if err := afero.WriteFile(p.fs, target, []byte(after), mode.Perm()); err != nil {
		res.Error = fmt.Sprintf("writing %s: %v", def.File, err)
		return res
	}
	res.Success = true
	res.LinesAdded = countLines(after) - countLines(before)
	return res
}

func (p *Processor) applyText(req Request, def Definition, before, target string, mode fs.FileMode, res Result) Result {
	text, err := p.resolveText(req, def)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	after, err := Content(before, def.Marker, text, def.options(), def.File)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	// The spoofing check runs before the write so a rejected payload
	// leaves the file exactly as it was.
	if err := GuardNewMarkers(before, after, def.File, def.Marker); err != nil {
		res.Error = err.Error()
		return res
	}
	if err := afero.WriteFile(p.fs, target, []byte(after), mode.Perm()); err != nil {
		res.Error = fmt.Sprintf("writing %s: %v", def.File, err)
		return res
	}
	res.Success = true
	res.LinesAdded = countLines(text)
	return res
}

// resolveText produces the injection payload: literal content or a
// template file, both rendered against the request context.
func (p *Processor) resolveText(req Request, def Definition) (string, error) {
	if def.Content != "" {
		return p.render(def.Content, req.Context)
	}
	if req.TemplateBasePath == "" {
		return "", fmt.Errorf("injection template %q requires a template base path", def.Template)
	}
	tmplPath := filepath.Join(req.TemplateBasePath, def.Template)
	exists, err := afero.Exists(p.fs, tmplPath)
	if err != nil {
		return "", fmt.Errorf("checking template %s: %w", def.Template, err)
	}
	if !exists {
		return "", fmt.Errorf("template file not found: %s", tmplPath)
	}
	raw, err := afero.ReadFile(p.fs, tmplPath)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", def.Template, err)
	}
	return p.render(string(raw), req.Context)
}
