// Package compress defines the compression strategies applied to bundle
// payloads and the guard that decides whether their output is kept.
//
// Guard keeps a strategy's output only when it is strictly smaller than its
// input, and falls back to the input when the strategy fails. JavaScript
// minification is provided by esbuild with identifier mangling disabled.
package compress
