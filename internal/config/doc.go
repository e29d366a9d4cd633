// Package config loads, normalizes, and validates assetpipe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ASSETPIPE_CDN_HTTP_BASE. The Config type centralizes every knob the pipeline
// and CLI need: the site base URL and source tree, the CDN base URL, output
// directory and version token, minification, and context directory overrides.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
