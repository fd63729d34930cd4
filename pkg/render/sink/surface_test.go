package sink

import (
	"strings"
	"testing"

	"github.com/treescope/treescope/pkg/diagram"
	"github.com/treescope/treescope/pkg/scene"
)

func newTestSurface(t *testing.T) *scene.Surface {
	t.Helper()
	s := scene.NewSurface(400)
	s.SetHeight(400)
	s.Apply(diagram.Elements(testDiagram()))
	return s
}

func TestRenderSurfaceSVG(t *testing.T) {
	s := newTestSurface(t)
	svg := string(RenderSurfaceSVG(s, diagram.DefaultConfig()))

	if !strings.Contains(svg, `viewBox="0 0 400.0 400.0"`) {
		t.Error("unexpected viewBox")
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("%d paths, want 2", got)
	}
	if got := strings.Count(svg, "<rect"); got != 3 {
		t.Errorf("%d rects, want 3", got)
	}
	if got := strings.Count(svg, "<text"); got != 3 {
		t.Errorf("%d texts, want 3", got)
	}

	// Paths draw before rects regardless of element ID order.
	if strings.Index(svg, "<path") > strings.Index(svg, "<rect") {
		t.Error("paths should be emitted before rects")
	}
}

func TestRenderSurfaceSVGCarriesView(t *testing.T) {
	s := newTestSurface(t)
	s.View().Pan(15, 25)
	s.View().ZoomAt(2, 0, 0)

	svg := string(RenderSurfaceSVG(s, diagram.DefaultConfig()))
	if !strings.Contains(svg, `transform="translate(30,50) scale(2)"`) {
		t.Errorf("viewport should carry the surface's live transform:\n%s", svg[:300])
	}
}

func TestRenderSurfaceSVGEscapesText(t *testing.T) {
	s := newTestSurface(t)
	svg := string(RenderSurfaceSVG(s, diagram.DefaultConfig()))
	if !strings.Contains(svg, "a &lt; b") {
		t.Error("text attrs should be XML-escaped")
	}
}
