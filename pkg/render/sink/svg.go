package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/treescope/treescope/pkg/diagram"
	"github.com/treescope/treescope/pkg/scene"
)

const diagramCSS = `
    .tree-link { fill: none; stroke: #555; stroke-width: 2; }
    .tree-node { fill: #fff; stroke: #333; stroke-width: 1.5; }
    .tree-label { font-family: monospace; font-size: 14px; text-anchor: middle; dominant-baseline: middle; }
    .tree-digest { font-family: monospace; font-size: 11px; text-anchor: middle; dominant-baseline: middle; fill: #888; }
    svg { cursor: grab; }
    svg.panning { cursor: grabbing; }`

// panZoomJS drives pan and zoom gestures in the browser. Gestures mutate
// only the viewport group's transform attribute; the drawn geometry is
// never recomputed client-side.
const panZoomJS = `
    const svg = document.currentScript.closest('svg');
    const viewport = svg.querySelector('.viewport');
    let view = { x: 0, y: 0, k: 1 };
    const existing = viewport.getAttribute('transform');
    if (existing) {
      const m = existing.match(/translate\(([-\d.]+),([-\d.]+)\)\s*scale\(([-\d.]+)\)/);
      if (m) view = { x: +m[1], y: +m[2], k: +m[3] };
    }
    function apply() {
      viewport.setAttribute('transform', 'translate(' + view.x + ',' + view.y + ') scale(' + view.k + ')');
    }
    svg.addEventListener('wheel', (e) => {
      e.preventDefault();
      const factor = e.deltaY < 0 ? 1.1 : 1 / 1.1;
      const k = Math.min(10, Math.max(0.1, view.k * factor));
      const ratio = k / view.k;
      const pt = new DOMPoint(e.clientX, e.clientY).matrixTransform(svg.getScreenCTM().inverse());
      view.x = pt.x - (pt.x - view.x) * ratio;
      view.y = pt.y - (pt.y - view.y) * ratio;
      view.k = k;
      apply();
    }, { passive: false });
    let drag = null;
    svg.addEventListener('pointerdown', (e) => {
      drag = { x: e.clientX, y: e.clientY };
      svg.classList.add('panning');
      svg.setPointerCapture(e.pointerId);
    });
    svg.addEventListener('pointermove', (e) => {
      if (!drag) return;
      view.x += e.clientX - drag.x;
      view.y += e.clientY - drag.y;
      drag = { x: e.clientX, y: e.clientY };
      apply();
    });
    svg.addEventListener('pointerup', (e) => {
      drag = null;
      svg.classList.remove('panning');
      svg.releasePointerCapture(e.pointerId);
    });`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	view     scene.Transform
	noScript bool
}

// WithView applies an initial pan/zoom transform to the viewport group.
func WithView(t scene.Transform) SVGOption {
	return func(r *svgRenderer) { r.view = t }
}

// WithoutInteraction omits the embedded gesture script, producing a static
// SVG suitable for PNG/PDF conversion.
func WithoutInteraction() SVGOption {
	return func(r *svgRenderer) { r.noScript = true }
}

// RenderSVG renders diagram geometry as a standalone interactive SVG.
//
// The document holds a single viewport group carrying the pan/zoom
// transform; inside it, a margin group offsets the inner drawing region.
// Connectors are emitted before boxes and labels so they draw underneath.
func RenderSVG(d diagram.Diagram, opts ...SVGOption) []byte {
	r := svgRenderer{view: scene.NewTransform()}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := d.FrameWidth(), d.FrameHeight()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", diagramCSS)

	fmt.Fprintf(&buf, "  <g class=\"viewport\" transform=%q>\n", r.view.Attr())
	fmt.Fprintf(&buf, "    <g transform=\"translate(%s,%s)\">\n",
		fmtNum(d.Config.MarginLeft), fmtNum(d.Config.MarginTop))

	for _, c := range d.Connectors {
		fmt.Fprintf(&buf, "      <path class=\"tree-link\" d=%q/>\n", c.Path())
	}
	for _, b := range d.Boxes {
		fmt.Fprintf(&buf, "      <rect class=\"tree-node\" x=%q y=%q width=%q height=%q rx=%q/>\n",
			fmtNum(b.X()), fmtNum(b.Y()), fmtNum(b.W), fmtNum(b.H), fmtNum(b.R))
	}
	for _, l := range d.Labels {
		writeText(&buf, "tree-label", l)
	}
	for _, l := range d.Digests {
		writeText(&buf, "tree-digest", l)
	}

	buf.WriteString("    </g>\n")
	buf.WriteString("  </g>\n")

	if !r.noScript {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", panZoomJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeText(buf *bytes.Buffer, class string, l diagram.Label) {
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(l.Text))
	fmt.Fprintf(buf, "      <text class=%q x=%q y=%q dy=%q>%s</text>\n",
		class, fmtNum(l.X), fmtNum(l.Y), strconv.FormatFloat(l.DY, 'f', -1, 64), escaped.String())
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
