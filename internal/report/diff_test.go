package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bakery-labs/bakery/internal/report"
)

const samplePatch = `--- a/src/app.js
+++ b/src/app.js
@@ -1,4 +1,6 @@
 const express = require('express');
+const helmet = require('helmet');
 const app = express();
-app.listen(3000);
+app.use(helmet());
+app.listen(3000);`

func TestColorizeDiff_NoColorPassthrough(t *testing.T) {
	styles := report.NewStyles(false)
	got := styles.ColorizeDiff(samplePatch)
	assert.Equal(t, samplePatch, got, "no-color mode should leave the patch untouched")
}

func TestColorizeDiff_KeepsEveryLine(t *testing.T) {
	styles := report.NewStyles(true)
	got := styles.ColorizeDiff(samplePatch)

	// Styling must never drop or reorder content.
	for _, line := range strings.Split(samplePatch, "\n") {
		assert.Contains(t, got, line)
	}
	assert.Equal(t, strings.Count(samplePatch, "\n"), strings.Count(got, "\n"))
}

func TestColorizeDiff_Empty(t *testing.T) {
	styles := report.NewStyles(true)
	assert.Equal(t, "", styles.ColorizeDiff(""))
}
