// Package pkg provides the core libraries for treescope diagram rendering.
//
// # Overview
//
// Treescope turns a hash tree (a Merkle-style hierarchy of labeled nodes)
// into an interactive diagram: the root is drawn at the bottom, leaves grow
// upward, and parents connect to children through right-angle elbow lines.
// The pkg directory is organized into five areas:
//
//  1. [tree] - Input data model (labeled nodes, optional digests)
//  2. [layout] - Layout engines assigning coordinates to nodes
//  3. [diagram] - Geometry mapping (boxes, labels, elbow connectors) and
//     the render entry point
//  4. [scene] - Retained drawing surfaces with reconciling updates
//  5. [render] - Output sinks (SVG, JSON, PNG, PDF)
//
// # Architecture
//
// The typical data flow through treescope:
//
//	Tree JSON
//	     ↓
//	[tree] package (decode + validate)
//	     ↓
//	[layout] package (coordinates + parent-child links)
//	     ↓
//	[diagram] package (flip, boxes, elbow connectors)
//	     ↓
//	[scene] package (reconcile onto a surface)
//	     ↓
//	[render/sink] package (SVG/JSON/PNG/PDF output)
//
// # Quick Start
//
// Render a tree to an interactive SVG:
//
//	import (
//	    "context"
//	    "github.com/treescope/treescope/pkg/diagram"
//	    "github.com/treescope/treescope/pkg/layout"
//	    "github.com/treescope/treescope/pkg/render/sink"
//	    "github.com/treescope/treescope/pkg/tree"
//	)
//
//	root, _ := tree.ReadFile("tree.json")
//	cfg := diagram.DefaultConfig()
//	l, _ := layout.NewTidyEngine().Layout(context.Background(), root, 900, 800)
//	d := diagram.Build(l, cfg)
//	svg := sink.RenderSVG(d)
//
// Render into a retained surface (the path the HTTP preview server uses):
//
//	doc := scene.NewDocument()
//	doc.AddSurface("tree-diagram", 900)
//	r := diagram.NewRenderer(layout.NewTidyEngine(), cfg)
//	err := r.Render(ctx, doc, "tree-diagram", root)
//
// # Supporting Packages
//
// [cache] - Content-addressed artifact cache with file, memory, and Redis
// backends.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Optional hooks for layout, render, and cache events.
//
// [buildinfo] - Build-time version information injected via ldflags.
//
// [tree]: https://pkg.go.dev/github.com/treescope/treescope/pkg/tree
// [layout]: https://pkg.go.dev/github.com/treescope/treescope/pkg/layout
// [diagram]: https://pkg.go.dev/github.com/treescope/treescope/pkg/diagram
// [scene]: https://pkg.go.dev/github.com/treescope/treescope/pkg/scene
// [render]: https://pkg.go.dev/github.com/treescope/treescope/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/treescope/treescope/pkg/render/sink
// [cache]: https://pkg.go.dev/github.com/treescope/treescope/pkg/cache
// [errors]: https://pkg.go.dev/github.com/treescope/treescope/pkg/errors
// [observability]: https://pkg.go.dev/github.com/treescope/treescope/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/treescope/treescope/pkg/buildinfo
package pkg
