// Package sink provides output formats for tree diagrams.
//
// Four sinks are available:
//
//   - [RenderSVG]: standalone interactive SVG with embedded pan/zoom gestures
//   - [RenderJSON]: diagram geometry as JSON, for tooling and tests
//   - [RenderPNG]: raster output via SVG conversion (requires librsvg)
//   - [RenderPDF]: print output via SVG conversion (requires librsvg)
//
// All sinks consume [diagram.Diagram] geometry; none of them recompute
// layout or mutate their input.
package sink
