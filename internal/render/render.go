// Package render executes Go text templates against an addon's template
// context. Injection payloads, addon file templates and archetype files
// all go through the same entry point so the variable syntax is uniform.
package render

import (
	"bytes"
	"fmt"
	"text/template"
)

// Render executes text as a template with ctx as its data. Unknown
// variables are hard errors rather than silent blanks so broken addon
// templates surface immediately.
func Render(text string, ctx map[string]any) (string, error) {
	tmpl, err := template.New("inline").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("rendering template: %w", err)
	}
	return buf.String(), nil
}
