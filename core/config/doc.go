// Package config provides centralized configuration management.
//
// Configuration is assembled from defaults declared as struct tags,
// overridden by a local .env file (if present) and finally by environment
// variables. Nested keys map to underscore-separated variable names, e.g.
// EXPORT_CONCURRENCY sets export.concurrency and API_STUDENT_URL sets
// api.student_url.
//
// # Sections
//
//   - API: kivo data API endpoints, user agent, timeout
//   - Cache: on-disk response cache location
//   - Export: id range, concurrency, pacing delay, output files
//   - Log: level and encoding
//   - Storage: optional object storage mirror for the generated reports
package config
