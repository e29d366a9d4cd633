// Package preflight provides readiness checks for the filesystem paths and
// endpoints a publishing run depends on.
//
// The CLI "assetpipe doctor" command runs RunAll and prints one row per
// check. Checks are gated by configuration: with the CDN disabled only the
// source directory is inspected.
package preflight
