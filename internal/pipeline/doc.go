// Package pipeline assembles the asset publishing components from
// configuration.
//
// A Site owns the long-lived collaborators: the content fetcher, the CDN
// publisher, the artifact manifest and the lazily loaded JavaScript
// minifier. Each render pass calls Site.NewBuild to get a Build with its own
// run id and bundle caches; templates call the Build's Javascripts,
// Stylesheets, CDN and StylesheetURL helpers.
package pipeline
