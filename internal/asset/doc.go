// Package asset holds the data model shared by the bundle aggregator and the
// single-resource rewriter: asset kinds, reference classification against the
// site base URL, context directories, and logical id derivation.
//
// Everything here is pure string handling with no I/O, so both the build
// pipeline and the CLI can classify references without touching the CDN.
package asset
