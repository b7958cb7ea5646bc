// Package httpapi exposes the land-cover analyses over HTTP.
//
// Statistics routes return JSON and map routes return PNG images. Errors
// are JSON bodies of the form {"error", "message", "code"}: bad path or
// query parameters give 400, years or pairs without data give 404.
package httpapi
