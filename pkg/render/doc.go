// Package render provides output generation for tree diagrams.
//
// # Overview
//
// This package contains the sinks that turn diagram geometry into bytes.
// It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - SVG, JSON, PNG, and PDF sinks (in [sink] subpackage)
//
// [sink]: https://pkg.go.dev/github.com/treescope/treescope/pkg/render/sink
package render
