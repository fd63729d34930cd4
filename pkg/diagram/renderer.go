package diagram

import (
	"context"
	"strconv"
	"time"

	"github.com/treescope/treescope/pkg/errors"
	"github.com/treescope/treescope/pkg/layout"
	"github.com/treescope/treescope/pkg/observability"
	"github.com/treescope/treescope/pkg/scene"
	"github.com/treescope/treescope/pkg/tree"
)

// Renderer draws trees onto retained surfaces.
//
// A renderer owns no per-render state: each Render call is a pure function
// of the input tree and the surface dimensions, except for the surface's
// pan/zoom transform, which renders deliberately leave alone.
type Renderer struct {
	engine layout.Engine
	cfg    Config
}

// NewRenderer creates a renderer with the given layout engine and geometry.
func NewRenderer(engine layout.Engine, cfg Config) *Renderer {
	return &Renderer{engine: engine, cfg: cfg}
}

// Render draws the tree rooted at root onto the surface named target.
//
// The surface's current width fixes the drawing area: the height is set
// equal to the width (square aspect), margins are subtracted to get the
// inner region, the layout engine assigns coordinates inside it, and the
// resulting geometry replaces whatever the surface held before. The
// surface's view transform is not touched, so pan/zoom survives re-renders.
//
// A missing target fails with TARGET_NOT_FOUND and a nil root with
// INVALID_INPUT; in both cases nothing is drawn. Layout failures propagate
// wrapped as LAYOUT_FAILED.
func (r *Renderer) Render(ctx context.Context, doc *scene.Document, target string, root *tree.Node) error {
	surface, err := doc.Surface(target)
	if err != nil {
		return err
	}
	if err := tree.Validate(root); err != nil {
		return err
	}
	if err := r.cfg.Validate(); err != nil {
		return err
	}

	width := surface.Width()
	surface.SetHeight(width)
	height := surface.Height()

	innerW, innerH := r.cfg.InnerSize(width, height)

	hooks := observability.Diagram()
	hooks.OnLayoutStart(ctx, r.engine.Name(), root.Count())
	start := time.Now()
	l, err := r.engine.Layout(ctx, root, innerW, innerH)
	hooks.OnLayoutComplete(ctx, r.engine.Name(), time.Since(start), err)
	if err != nil {
		if errors.GetCode(err) != "" {
			return err
		}
		return errors.Wrap(errors.ErrCodeLayoutFailed, err, "layout engine %s", r.engine.Name())
	}

	d := Build(l, r.cfg)
	surface.Apply(Elements(d))
	return nil
}

// Elements converts diagram geometry to scene elements keyed by stable IDs,
// so that re-rendering the same tree reconciles to a no-op patch.
// Connectors come first so boxes and labels draw on top of them.
func Elements(d Diagram) []scene.Element {
	els := make([]scene.Element, 0, len(d.Connectors)+len(d.Boxes)+len(d.Labels)+len(d.Digests))

	for _, c := range d.Connectors {
		els = append(els, scene.Element{
			ID:   "link-" + c.SourceID + "-" + c.TargetID,
			Kind: scene.KindPath,
			Attrs: map[string]string{
				"d":     c.Path(),
				"class": "tree-link",
			},
		})
	}

	for _, b := range d.Boxes {
		els = append(els, scene.Element{
			ID:   "box-" + b.NodeID,
			Kind: scene.KindRect,
			Attrs: map[string]string{
				"x":      fmtCoord(b.X()),
				"y":      fmtCoord(b.Y()),
				"width":  fmtCoord(b.W),
				"height": fmtCoord(b.H),
				"rx":     fmtCoord(b.R),
				"class":  "tree-node",
			},
		})
	}

	appendLabel := func(prefix, class string, l Label) {
		els = append(els, scene.Element{
			ID:   prefix + l.NodeID,
			Kind: scene.KindText,
			Attrs: map[string]string{
				"x":     fmtCoord(l.X),
				"y":     fmtCoord(l.Y),
				"dy":    strconv.FormatFloat(l.DY, 'f', -1, 64),
				"class": class,
				"text":  l.Text,
			},
		})
	}
	for _, l := range d.Labels {
		appendLabel("label-", "tree-label", l)
	}
	for _, l := range d.Digests {
		appendLabel("digest-", "tree-digest", l)
	}

	return els
}
