package inject

import (
	"strings"

	"github.com/bakery-labs/bakery/internal/marker"
)

// Content splices text into the named marker region of fileContent and
// returns the rewritten document. The function is pure: it never touches
// the filesystem, and fileContent is re-parsed on every call so earlier
// splices are always visible to later ones.
func Content(fileContent, markerName, text string, opts Options, filePath string) (string, error) {
	regions, err := marker.Parse(fileContent, filePath)
	if err != nil {
		return "", err
	}
	region, ok := regions[markerName]
	if !ok {
		return "", &MarkerNotFoundError{File: filePath, Marker: markerName}
	}

	payload := text
	if opts.Indent && region.Indent != "" {
		payload = indentLines(payload, region.Indent)
	}
	if opts.Newline && !strings.HasSuffix(payload, "\n") {
		payload += "\n"
	}

	before := fileContent[:region.ContentStart]
	existing := fileContent[region.ContentStart:region.ContentEnd]
	after := fileContent[region.ContentEnd:]

	if opts.Position == PositionStart {
		return before + payload + existing + after, nil
	}
	return before + existing + payload + after, nil
}

// indentLines prefixes every line of text with indent. The empty segment
// after a final newline is left bare so the payload's terminator does not
// grow trailing whitespace.
func indentLines(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i == len(lines)-1 && line == "" {
			continue
		}
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

// countLines counts the lines of text. A trailing newline terminates the
// last line rather than opening a new one, so "a\nb" and "a\nb\n" both
// count two.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
