// Package fetch retrieves asset content for the pipeline.
//
// Local references are rendered through a Renderer so preprocessed sources
// (Sass, templated scripts) yield their final form. FileRenderer serves final
// files straight from the site source tree and treats Sass sources as absent. Remote references are retrieved over
// HTTP with the configured timeout and user agent. Failures carry the offending
// path as a services.ResourceError.
package fetch
