// Package rewrite publishes individual assets (images, fonts, scripts)
// referenced from pages or stylesheets and returns their CDN URLs.
//
// Relative paths resolve against the directory of the referencing file; the
// published URL keeps the query string and fragment of the original
// reference.
package rewrite
