// Package inject rewrites files inside marker regions on behalf of
// addons.
//
// The engine half is pure: Content splices text into a named region,
// JSON deep-merges a fragment into a JSON document, and GuardNewMarkers
// rejects payloads that smuggle new marker pairs into a file. The
// Processor half owns the filesystem: it walks a batch of Definitions,
// applies each one independently and reports per-injection Results
// instead of aborting the batch.
//
// Failure stays data, not control flow. Every malformed marker, missing
// target or spoofed payload becomes an error value inside a Result; one
// bad injection never takes down the addons applied after it.
package inject
