// Package cdn publishes asset content under content-addressed paths.
//
// Publisher writes each payload to <context_dir>/<id>-<token><ext> below the
// output directory, where the token combines the configured version with a
// BLAKE3 digest of the content. Identical content always lands on the same
// path, so repeated publishes are skipped. Writes are atomic and serialized
// across processes with a file lock, every artifact is recorded in the
// manifest, and text artifacts can gain gzip and zstd sidecars for servers
// that negotiate precompressed responses.
package cdn
