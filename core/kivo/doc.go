// Package kivo is the client for the kivo.wiki data API.
//
// It provides the cache-aware fetch layer of the export pipeline: every
// lookup consults the on-disk cache first and falls back to a single
// network attempt with a fixed timeout. There are no retries; a failed id
// stays failed for this run.
//
// # Failure Classification
//
// Every failed remote call is returned as an *APIError with a closed
// FailureKind (not found, http status, transport, invalid format), so the
// pipeline can record stable audit reasons without parsing error text.
//
// # Counters
//
// The fetcher counts calls that actually reach the network, per kind.
// A fully warm cache therefore reports zero calls, which is also how the
// idempotence of the pipeline is verified in tests.
package kivo
