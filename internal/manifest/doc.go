// Package manifest records every artifact the CDN publisher writes.
//
// The manifest is a SQLite database (modernc.org/sqlite, WAL mode) stored next
// to the published tree. It lets separate build processes agree on what has
// been published, lets the CLI list artifacts by context directory or asset
// id, and supports pruning rows that belong to superseded versions.
package manifest
