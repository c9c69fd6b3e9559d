// Package cache provides the on-disk cache of raw API responses.
//
// The cache is a flat key-value layout: two namespaces (students, spines),
// one compact JSON file per numeric id. Namespace directories are created
// lazily before the first write and creation is idempotent.
//
// # Best Effort
//
// The cache is an optimization, never the source of truth. Get treats a
// missing, unreadable or malformed entry as a miss and logs a warning;
// Put logs and swallows I/O failures. No cache problem is ever surfaced
// as an error to the pipeline.
//
// # Scrubbing
//
// Student entries are scrubbed before being written: heavy fields are
// removed and media-presence arrays are collapsed to a one-element
// sentinel. The transform is lossy and one-way - cached student payloads
// are sufficient for this pipeline but are not a faithful mirror of the
// network response.
package cache
