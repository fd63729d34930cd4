// Package diagram maps tree layouts to drawable geometry.
//
// This is where the visual conventions of the diagram live: the vertical
// flip that puts the root at the bottom, the three-segment elbow connectors
// between parent and child, the fixed-size rounded node boxes, and the label
// placement inside them. The layout algorithm itself is delegated to the
// layout package; everything here is a pure mapping from coordinates to
// geometry.
package diagram

import (
	"github.com/treescope/treescope/pkg/layout"
)

// Box is a node rectangle anchored at its center.
type Box struct {
	NodeID string
	CX, CY float64 // Anchor (box center)
	W, H   float64
	R      float64 // Corner radius
}

// X returns the left edge of the box.
func (b Box) X() float64 { return b.CX - b.W/2 }

// Y returns the top edge of the box.
func (b Box) Y() float64 { return b.CY - b.H/2 }

// Label is a text anchored at a box center with a vertical offset.
type Label struct {
	NodeID string
	Text   string
	X, Y   float64 // Anchor (box center)
	DY     float64 // Vertical offset from the anchor
}

// Diagram is the complete drawable geometry for one render.
type Diagram struct {
	Config     Config
	Boxes      []Box
	Labels     []Label
	Digests    []Label // Populated only when Config.ShowDigests is set
	Connectors []Connector

	// Inner drawing region the coordinates live in (margins excluded).
	InnerWidth  float64
	InnerHeight float64
}

// FrameWidth returns the total drawing width including margins.
func (d Diagram) FrameWidth() float64 {
	return d.InnerWidth + d.Config.MarginLeft + d.Config.MarginRight
}

// FrameHeight returns the total drawing height including margins.
func (d Diagram) FrameHeight() float64 {
	return d.InnerHeight + d.Config.MarginTop + d.Config.MarginBottom
}

// Build maps a computed layout to drawable geometry.
//
// Every layout node becomes one box and one label anchored at
// (x, innerHeight-y); every link becomes one elbow connector. For an N-node
// tree the result holds exactly N boxes, N labels, and N-1 connectors.
func Build(l layout.Layout, cfg Config) Diagram {
	d := Diagram{
		Config:      cfg,
		Boxes:       make([]Box, 0, len(l.Nodes)),
		Labels:      make([]Label, 0, len(l.Nodes)),
		Connectors:  make([]Connector, 0, len(l.Links)),
		InnerWidth:  l.Width,
		InnerHeight: l.Height,
	}

	byID := make(map[string]layout.Node, len(l.Nodes))
	for _, n := range l.Nodes {
		byID[n.ID] = n
	}

	for _, link := range l.Links {
		s, okS := byID[link.Source]
		t, okT := byID[link.Target]
		if !okS || !okT {
			continue
		}
		d.Connectors = append(d.Connectors, Elbow(s.ID, t.ID, s.X, s.Y, t.X, t.Y, l.Height))
	}

	for _, n := range l.Nodes {
		cx, cy := n.X, l.Height-n.Y
		d.Boxes = append(d.Boxes, Box{
			NodeID: n.ID,
			CX:     cx, CY: cy,
			W: cfg.BoxWidth, H: cfg.BoxHeight,
			R: cfg.CornerRadius,
		})
		d.Labels = append(d.Labels, Label{
			NodeID: n.ID,
			Text:   n.Label,
			X:      cx, Y: cy,
			DY: cfg.LabelOffsetY,
		})
		if cfg.ShowDigests && n.Digest != "" {
			d.Digests = append(d.Digests, Label{
				NodeID: n.ID,
				Text:   n.Digest,
				X:      cx, Y: cy,
				DY: cfg.DigestOffsetY,
			})
		}
	}

	return d
}
