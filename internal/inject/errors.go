package inject

import (
	"fmt"
	"strings"

	"github.com/bakery-labs/bakery/internal/marker"
)

// MarkerNotFoundError reports an injection that named a region the
// target file does not contain. Distinct from a malformed-marker error:
// the file parsed fine, the region just is not there.
type MarkerNotFoundError struct {
	File   string
	Marker string
}

func (e *MarkerNotFoundError) Error() string {
	return fmt.Sprintf("%s: marker %q not found", e.File, marker.StartText(e.Marker))
}

// MarkerSpoofingError reports a payload that would introduce marker
// names the file did not previously contain. The write is refused and
// the file stays untouched.
type MarkerSpoofingError struct {
	File       string
	Marker     string
	Introduced []string
}

func (e *MarkerSpoofingError) Error() string {
	return fmt.Sprintf("%s: injection into %q would introduce new markers: %s",
		e.File, e.Marker, strings.Join(e.Introduced, ", "))
}
