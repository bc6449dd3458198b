package marker

import (
	"fmt"
	"strconv"
	"strings"
)

// MalformedMarkerError reports a structural problem with marker pairing:
// an END with no open INJECT, a name mismatch between an INJECT and the
// END that closes it, or an INJECT that is never closed. Line is 1-based.
type MalformedMarkerError struct {
	File   string
	Line   int
	Detail string
}

func (e *MalformedMarkerError) Error() string {
	return fmt.Sprintf("%s: malformed injection markers at line %d: %s", e.File, e.Line, e.Detail)
}

// DuplicateMarkerError reports an INJECT marker name that appears more
// than once in the same file. Lines are 1-based, in file order.
type DuplicateMarkerError struct {
	File  string
	Name  string
	Lines []int
}

func (e *DuplicateMarkerError) Error() string {
	lines := make([]string, len(e.Lines))
	for i, n := range e.Lines {
		lines[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("%s: duplicate marker %q at lines %s", e.File, StartText(e.Name), strings.Join(lines, ", "))
}
