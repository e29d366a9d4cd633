// Package bundle turns a markup fragment listing scripts or stylesheets into a
// single published artifact and the tag that references it.
//
// One Aggregator handles both kinds; a Profile selected by asset.Kind supplies
// the kind-specific pieces (reference extraction, provenance wrapping, tag
// template, compression strategy, context directory and extension). Results
// are memoized per build in a Cache that coalesces concurrent requests for the
// same markup, so each distinct fragment is fetched and published once.
package bundle
