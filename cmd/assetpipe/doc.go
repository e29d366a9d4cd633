// Package main hosts the assetpipe CLI entrypoint and command graph.
//
// Build scripts and template hosts call it to bundle a fragment of script or
// stylesheet tags into one published asset, rewrite single asset references
// to CDN URLs, inspect or prune the artifact manifest, and scaffold
// configuration. Command output (tags, URLs, tables) goes to stdout; logs go
// to stderr.
//
// Keep this package lean: the work lives in internal/pipeline and its
// collaborators, and commands here only translate flags into calls.
package main
