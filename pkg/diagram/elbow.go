package diagram

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a position in diagram coordinates (y grows downward, as in SVG).
type Point struct {
	X, Y float64
}

// Segment is one straight piece of a connector.
type Segment struct {
	From, To Point
}

// Connector joins a parent box to a child box with a three-segment
// right-angle elbow.
type Connector struct {
	SourceID string // Parent node ID
	TargetID string // Child node ID
	Segments [3]Segment
}

// Elbow constructs the connector between a parent at (sx, sy) and a child
// at (tx, ty) in layout coordinates, inside an inner region of height h.
//
// Layout y grows with depth, but the diagram draws the root at the bottom,
// so both endpoints are flipped (y' = h - y). The connector then runs
// vertically from the source to the flipped midpoint between the two depth
// coordinates, horizontally across to the target column, and vertically
// down to the target:
//
//	(sx, h-sy) → (sx, h-(ty+sy)/2) → (tx, h-(ty+sy)/2) → (tx, h-ty)
func Elbow(sourceID, targetID string, sx, sy, tx, ty, h float64) Connector {
	sourceY := h - sy
	targetY := h - ty
	halfwayY := h - (ty+sy)/2

	return Connector{
		SourceID: sourceID,
		TargetID: targetID,
		Segments: [3]Segment{
			{From: Point{X: sx, Y: sourceY}, To: Point{X: sx, Y: halfwayY}},
			{From: Point{X: sx, Y: halfwayY}, To: Point{X: tx, Y: halfwayY}},
			{From: Point{X: tx, Y: halfwayY}, To: Point{X: tx, Y: targetY}},
		},
	}
}

// Path renders the connector as an SVG path: a move to the source followed
// by one line per segment.
func (c Connector) Path() string {
	var b strings.Builder
	start := c.Segments[0].From
	fmt.Fprintf(&b, "M%s %s", fmtCoord(start.X), fmtCoord(start.Y))
	for _, seg := range c.Segments {
		fmt.Fprintf(&b, " L%s %s", fmtCoord(seg.To.X), fmtCoord(seg.To.Y))
	}
	return b.String()
}

// fmtCoord formats a coordinate without trailing zeros.
func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
