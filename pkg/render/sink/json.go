package sink

import (
	"encoding/json"

	"github.com/treescope/treescope/pkg/diagram"
)

// jsonDiagram is the serialization shape for diagram geometry.
// Coordinates are inner-region coordinates; the frame adds margins.
type jsonDiagram struct {
	FrameWidth  float64         `json:"frame_width"`
	FrameHeight float64         `json:"frame_height"`
	InnerWidth  float64         `json:"inner_width"`
	InnerHeight float64         `json:"inner_height"`
	Boxes       []jsonBox       `json:"boxes"`
	Labels      []jsonLabel     `json:"labels"`
	Digests     []jsonLabel     `json:"digests,omitempty"`
	Connectors  []jsonConnector `json:"connectors"`
}

type jsonBox struct {
	NodeID string  `json:"node_id"`
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
	R      float64 `json:"r"`
}

type jsonLabel struct {
	NodeID string  `json:"node_id"`
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DY     float64 `json:"dy"`
}

type jsonConnector struct {
	Source string       `json:"source"`
	Target string       `json:"target"`
	Path   string       `json:"path"`
	Points [][2]float64 `json:"points"`
}

// RenderJSON renders diagram geometry as indented JSON.
func RenderJSON(d diagram.Diagram) ([]byte, error) {
	out := jsonDiagram{
		FrameWidth:  d.FrameWidth(),
		FrameHeight: d.FrameHeight(),
		InnerWidth:  d.InnerWidth,
		InnerHeight: d.InnerHeight,
		Boxes:       make([]jsonBox, 0, len(d.Boxes)),
		Labels:      make([]jsonLabel, 0, len(d.Labels)),
		Connectors:  make([]jsonConnector, 0, len(d.Connectors)),
	}

	for _, b := range d.Boxes {
		out.Boxes = append(out.Boxes, jsonBox{NodeID: b.NodeID, CX: b.CX, CY: b.CY, W: b.W, H: b.H, R: b.R})
	}
	for _, l := range d.Labels {
		out.Labels = append(out.Labels, jsonLabel{NodeID: l.NodeID, Text: l.Text, X: l.X, Y: l.Y, DY: l.DY})
	}
	for _, l := range d.Digests {
		out.Digests = append(out.Digests, jsonLabel{NodeID: l.NodeID, Text: l.Text, X: l.X, Y: l.Y, DY: l.DY})
	}
	for _, c := range d.Connectors {
		points := [][2]float64{{c.Segments[0].From.X, c.Segments[0].From.Y}}
		for _, seg := range c.Segments {
			points = append(points, [2]float64{seg.To.X, seg.To.Y})
		}
		out.Connectors = append(out.Connectors, jsonConnector{
			Source: c.SourceID,
			Target: c.TargetID,
			Path:   c.Path(),
			Points: points,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}
