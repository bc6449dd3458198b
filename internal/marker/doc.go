// Package marker locates named injection regions in generated source files.
//
// A region is a pair of full-line comments:
//
//	// BAKERY:INJECT:routes
//	... existing content ...
//	// BAKERY:END:routes
//
// Four comment dialects are recognized on every line of every file,
// regardless of extension: line comments ("//" and "#"), HTML comments
// ("<!-- -->") and CSS block comments ("/* */"). The extension only
// supplies a default dialect hint via DetectStyle; parsing itself is
// per-line and dialect-agnostic so mixed-syntax files (markdown with
// embedded code, templates) keep working.
//
// Parse returns a fresh view over the content on every call. Nothing is
// cached, so regions stay correct as injections rewrite the file between
// calls.
package marker
