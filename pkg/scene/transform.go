package scene

import (
	"fmt"
	"strconv"
)

// Scale bounds for zoom gestures. Gestures that would push the scale
// outside this range are clamped, matching common zoom-behavior defaults.
const (
	MinScale = 0.1
	MaxScale = 10.0
)

// Transform is the pan/zoom view state of a surface: a translation plus a
// uniform scale. It is a small state machine mutated only by gesture events;
// renders read it but never write it.
type Transform struct {
	TranslateX float64
	TranslateY float64
	Scale      float64
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{Scale: 1}
}

// IsIdentity reports whether the transform leaves coordinates unchanged.
func (t Transform) IsIdentity() bool {
	return t.TranslateX == 0 && t.TranslateY == 0 && t.Scale == 1
}

// Pan shifts the view by the given screen-space delta.
func (t *Transform) Pan(dx, dy float64) {
	t.TranslateX += dx
	t.TranslateY += dy
}

// ZoomAt scales the view by factor while keeping the screen point (x, y)
// fixed, the way wheel zoom behaves in a browser. The resulting scale is
// clamped to [MinScale, MaxScale]; the effective factor after clamping is
// what the translation is adjusted by.
func (t *Transform) ZoomAt(factor, x, y float64) {
	next := t.Scale * factor
	if next < MinScale {
		next = MinScale
	}
	if next > MaxScale {
		next = MaxScale
	}
	ratio := next / t.Scale
	t.TranslateX = x - (x-t.TranslateX)*ratio
	t.TranslateY = y - (y-t.TranslateY)*ratio
	t.Scale = next
}

// Reset restores the identity transform.
func (t *Transform) Reset() {
	*t = NewTransform()
}

// Attr renders the transform as an SVG transform attribute value.
func (t Transform) Attr() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return fmt.Sprintf("translate(%s,%s) scale(%s)", f(t.TranslateX), f(t.TranslateY), f(t.Scale))
}

// Apply maps a content-space point to screen space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.TranslateX, y*t.Scale + t.TranslateY
}
