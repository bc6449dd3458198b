package report

import "strings"

// ColorizeDiff applies diff styles to a unified diff, line by line.
// File headers, hunk markers, additions, and removals each get their own
// style; everything else renders as context.
func (s *Styles) ColorizeDiff(patch string) string {
	if patch == "" {
		return ""
	}

	lines := strings.Split(patch, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ "):
			lines[i] = s.DiffHeader.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = s.DiffHunk.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = s.DiffAdd.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = s.DiffRemove.Render(line)
		default:
			lines[i] = s.DiffContext.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
