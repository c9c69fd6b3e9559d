// Package students implements the acquisition-and-normalization pipeline.
//
// For every student id the pipeline fetches the student payload (cache
// first), fans out concurrent fetches for every referenced spine, and
// normalizes the result into canonical StudentForm rows plus SkippedRecord
// audit entries. A weighted semaphore bounds how many students are in
// flight at once; a fixed pacing delay follows every student fetch that
// actually hit the network.
//
// # Normalization
//
// The parser applies, in order: whole-student validation (missing/empty
// payload, official accounts, excluded special cases), per-spine filtering
// (missing name, wrong type, blocked keywords and suffixes), file-id
// normalization with first-seen dedup, and multilingual name composition
// driven by the language table. Every rule rejection is recorded as
// exactly one SkippedRecord with a closed SkipReason; dedup discards are
// intentionally silent.
//
// Spine fetch failures are dropped before the parser runs, so a spine
// that 404s never appears in the audit trail. That matches the upstream
// behavior this tool replaces and is relied upon by its consumers.
//
// # Outputs
//
// Writer emits the two CSV reports (with a backup-filename fallback) and
// Publisher optionally mirrors them to object storage. Both slices are
// sorted deterministically by the caller via SortForms and SortSkipped.
package students
