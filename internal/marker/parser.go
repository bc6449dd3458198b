package marker

import (
	"fmt"
	"strings"
)

// Region is one named injection region. Line numbers are zero-based;
// error messages elsewhere cite 1-based lines. ContentStart and
// ContentEnd are byte offsets into the parsed content, spanning the line
// after the INJECT marker up to (not including) the END marker line. An
// empty region has ContentStart == ContentEnd.
type Region struct {
	Name         string
	StartLine    int
	EndLine      int
	ContentStart int
	ContentEnd   int
	Indent       string
	Style        Style
}

// Content returns the region's current text within content. The caller
// must pass the same content the region was parsed from.
func (r Region) Content(content string) string {
	return content[r.ContentStart:r.ContentEnd]
}

type markKind int

const (
	markStart markKind = iota
	markEnd
)

type markLine struct {
	kind   markKind
	name   string
	indent string
	style  Style
	line   int // zero-based
}

// classify reports the marker on a single line, if any.
func classify(line string, idx int) (markLine, bool) {
	for _, d := range dialects {
		if m := d.start.FindStringSubmatch(line); m != nil {
			return markLine{kind: markStart, name: m[2], indent: m[1], style: d.style, line: idx}, true
		}
		if m := d.end.FindStringSubmatch(line); m != nil {
			return markLine{kind: markEnd, name: m[2], indent: m[1], style: d.style, line: idx}, true
		}
	}
	return markLine{}, false
}

// Parse scans content for marker pairs and returns the regions keyed by
// name. filePath is used only in error messages. The result is a pure
// view over content; callers re-parse after every mutation.
func Parse(content, filePath string) (map[string]Region, error) {
	lines := strings.Split(content, "\n")
	offsets := lineOffsets(lines)

	marks := make([]markLine, 0, 8)
	for i, line := range lines {
		if m, ok := classify(line, i); ok {
			marks = append(marks, m)
		}
	}

	// Duplicate INJECT names are rejected before pairing so a shadowed
	// pair can never silently win.
	if err := checkDuplicates(marks, filePath); err != nil {
		return nil, err
	}

	regions := make(map[string]Region, len(marks)/2)
	var stack []markLine
	for _, m := range marks {
		if m.kind == markStart {
			stack = append(stack, m)
			continue
		}
		if len(stack) == 0 {
			return nil, &MalformedMarkerError{
				File:   filePath,
				Line:   m.line + 1,
				Detail: fmt.Sprintf("%q has no matching %q", EndText(m.name), StartText(m.name)),
			}
		}
		top := stack[len(stack)-1]
		if top.name != m.name {
			return nil, &MalformedMarkerError{
				File: filePath,
				Line: m.line + 1,
				Detail: fmt.Sprintf("%q (line %d) closed by %q (line %d)",
					StartText(top.name), top.line+1, EndText(m.name), m.line+1),
			}
		}
		stack = stack[:len(stack)-1]
		regions[top.name] = Region{
			Name:         top.name,
			StartLine:    top.line,
			EndLine:      m.line,
			ContentStart: startOfLine(offsets, len(content), top.line+1),
			ContentEnd:   startOfLine(offsets, len(content), m.line),
			Indent:       top.indent,
			Style:        top.style,
		}
	}
	if len(stack) > 0 {
		// Report the outermost unclosed marker, not the innermost.
		first := stack[0]
		return nil, &MalformedMarkerError{
			File:   filePath,
			Line:   first.line + 1,
			Detail: fmt.Sprintf("%q is never closed", StartText(first.name)),
		}
	}
	return regions, nil
}

// Names returns every marker name mentioned in content, in order of first
// appearance, whether or not the pairs are structurally valid. Spoofing
// checks rely on this seeing names inside broken pairings too.
func Names(content string) []string {
	seen := make(map[string]struct{})
	var names []string
	for i, line := range strings.Split(content, "\n") {
		m, ok := classify(line, i)
		if !ok {
			continue
		}
		if _, dup := seen[m.name]; dup {
			continue
		}
		seen[m.name] = struct{}{}
		names = append(names, m.name)
	}
	return names
}

// ValidatePairs reports whether all markers in content pair up correctly.
func ValidatePairs(content, filePath string) error {
	_, err := Parse(content, filePath)
	return err
}

func checkDuplicates(marks []markLine, filePath string) error {
	startLines := make(map[string][]int)
	var order []string
	for _, m := range marks {
		if m.kind != markStart {
			continue
		}
		if _, seen := startLines[m.name]; !seen {
			order = append(order, m.name)
		}
		startLines[m.name] = append(startLines[m.name], m.line+1)
	}
	for _, name := range order {
		if lines := startLines[name]; len(lines) > 1 {
			return &DuplicateMarkerError{File: filePath, Name: name, Lines: lines}
		}
	}
	return nil
}

// lineOffsets returns the byte offset of the start of each line, treating
// "\n" as the separator.
func lineOffsets(lines []string) []int {
	offsets := make([]int, len(lines))
	off := 0
	for i, line := range lines {
		offsets[i] = off
		off += len(line) + 1
	}
	return offsets
}

func startOfLine(offsets []int, contentLen, line int) int {
	if line >= len(offsets) {
		return contentLen
	}
	return offsets[line]
}
