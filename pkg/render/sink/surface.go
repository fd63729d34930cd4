package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/treescope/treescope/pkg/diagram"
	"github.com/treescope/treescope/pkg/scene"
)

// RenderSurfaceSVG renders a retained surface as an interactive SVG.
//
// Unlike RenderSVG, which draws diagram geometry directly, this walks the
// surface's reconciled element set, so the output reflects exactly what the
// surface holds, including the live pan/zoom transform. Paths are emitted
// before rects and texts so connectors draw underneath nodes.
func RenderSurfaceSVG(s *scene.Surface, cfg diagram.Config, opts ...SVGOption) []byte {
	r := svgRenderer{view: *s.View()}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := s.Width(), s.Height()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", diagramCSS)

	fmt.Fprintf(&buf, "  <g class=\"viewport\" transform=%q>\n", r.view.Attr())
	fmt.Fprintf(&buf, "    <g transform=\"translate(%s,%s)\">\n",
		fmtNum(cfg.MarginLeft), fmtNum(cfg.MarginTop))

	els := s.Elements()
	for _, kind := range []string{scene.KindPath, scene.KindRect, scene.KindText} {
		for _, el := range els {
			if el.Kind == kind {
				writeElement(&buf, el)
			}
		}
	}

	buf.WriteString("    </g>\n")
	buf.WriteString("  </g>\n")

	if !r.noScript {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", panZoomJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeElement(buf *bytes.Buffer, el scene.Element) {
	switch el.Kind {
	case scene.KindPath:
		fmt.Fprintf(buf, "      <path class=%q d=%q/>\n", el.Attrs["class"], el.Attrs["d"])
	case scene.KindRect:
		fmt.Fprintf(buf, "      <rect class=%q x=%q y=%q width=%q height=%q rx=%q/>\n",
			el.Attrs["class"], el.Attrs["x"], el.Attrs["y"],
			el.Attrs["width"], el.Attrs["height"], el.Attrs["rx"])
	case scene.KindText:
		var escaped bytes.Buffer
		_ = xml.EscapeText(&escaped, []byte(el.Attrs["text"]))
		fmt.Fprintf(buf, "      <text class=%q x=%q y=%q dy=%q>%s</text>\n",
			el.Attrs["class"], el.Attrs["x"], el.Attrs["y"], el.Attrs["dy"], escaped.String())
	}
}
