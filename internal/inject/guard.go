package inject

import (
	"github.com/bakery-labs/bakery/internal/marker"
)

// GuardNewMarkers compares the marker names mentioned before and after a
// splice and rejects the result if any name is new. Payloads that merely
// corrupt an existing pair (a stray END, a duplicated INJECT for a known
// name) pass here and fail at the next Parse instead; only brand-new
// names count as spoofing. currentMarker names the injection being
// applied, for the error message.
func GuardNewMarkers(before, after, filePath, currentMarker string) error {
	known := make(map[string]struct{})
	for _, name := range marker.Names(before) {
		known[name] = struct{}{}
	}

	var introduced []string
	for _, name := range marker.Names(after) {
		if _, ok := known[name]; !ok {
			introduced = append(introduced, name)
		}
	}
	if len(introduced) > 0 {
		return &MarkerSpoofingError{File: filePath, Marker: currentMarker, Introduced: introduced}
	}
	return nil
}
