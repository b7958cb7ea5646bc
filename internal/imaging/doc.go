// Package imaging turns analysis grids into map layers.
//
// Colorizers map each cell of a grid to one pixel of an *image.NRGBA of the
// same size, with straight (non-premultiplied) alpha. Pixels without data
// are always fully transparent so layers can be stacked in a map viewer.
//
// # Layers
//
//   - ColorizeClasses: one opaque palette color per registered land-cover class
//   - ColorizeChange: a translucent red marker on every changed pixel
//   - ColorizeConfidence: translucent red, amber or green by confidence band
//
// Confidence grids are brought to percent with their declared scale (or the
// detected one) before banding, so unit and percent rasters of the same data
// produce identical layers.
//
// # Output
//
// EncodePNG writes lossless PNG, and NewPreviewResult wraps the encoded bytes
// as base64 for JSON transports. Fit downsamples large layers with
// nearest-neighbour sampling, which never invents colors between classes.
//
// Legend colors are reported as lowercase "#rrggbb" hex (alpha excluded),
// 8-bit RGBA and HSL with hue 0-360 and saturation/lightness 0-100.
package imaging
