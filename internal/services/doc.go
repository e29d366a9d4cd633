// Package services defines shared utilities consumed by the asset pipeline
// components.
//
// Key responsibilities:
//   - Context helpers that stamp build run IDs, bundle IDs, and asset kinds
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper and ResourceError type so
//     callers can classify failures (missing file, remote fetch, compression)
//     with errors.Is and recover the offending path with errors.As.
//
// Use these helpers when wiring new pipeline code so error handling and
// observability stay uniform across fetch, compress, and publish.
package services
