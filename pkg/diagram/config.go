package diagram

import (
	"github.com/treescope/treescope/pkg/errors"
)

// Drawing constants. Node boxes are fixed-size; the diagram scales through
// the pan/zoom transform, not through box dimensions.
const (
	DefaultBoxWidth     = 150.0
	DefaultBoxHeight    = 60.0
	DefaultCornerRadius = 2.0
	DefaultMarginTop    = 50.0
	DefaultMarginBottom = 50.0
	DefaultMarginLeft   = 0.0
	DefaultMarginRight  = 0.0

	// Labels sit slightly above the box center, leaving room for the
	// digest line below when digest display is enabled.
	DefaultLabelOffsetY  = -13.0
	DefaultDigestOffsetY = 13.0
)

// Config controls diagram geometry and optional features.
type Config struct {
	// Engine names the layout engine ("tidy" or "graphviz").
	Engine string `toml:"engine"`

	// Box dimensions and corner radius, in user units.
	BoxWidth     float64 `toml:"box_width"`
	BoxHeight    float64 `toml:"box_height"`
	CornerRadius float64 `toml:"corner_radius"`

	// Margins subtracted from the surface to get the inner drawing region.
	MarginTop    float64 `toml:"margin_top"`
	MarginBottom float64 `toml:"margin_bottom"`
	MarginLeft   float64 `toml:"margin_left"`
	MarginRight  float64 `toml:"margin_right"`

	// Label offsets from the box center.
	LabelOffsetY  float64 `toml:"label_offset_y"`
	DigestOffsetY float64 `toml:"digest_offset_y"`

	// ShowDigests enables the secondary digest label under each node label.
	ShowDigests bool `toml:"show_digests"`
}

// DefaultConfig returns the reference geometry.
func DefaultConfig() Config {
	return Config{
		Engine:        "tidy",
		BoxWidth:      DefaultBoxWidth,
		BoxHeight:     DefaultBoxHeight,
		CornerRadius:  DefaultCornerRadius,
		MarginTop:     DefaultMarginTop,
		MarginBottom:  DefaultMarginBottom,
		MarginLeft:    DefaultMarginLeft,
		MarginRight:   DefaultMarginRight,
		LabelOffsetY:  DefaultLabelOffsetY,
		DigestOffsetY: DefaultDigestOffsetY,
	}
}

// Validate checks the configuration for impossible geometry.
func (c Config) Validate() error {
	if c.BoxWidth <= 0 || c.BoxHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "box dimensions must be positive, got %gx%g", c.BoxWidth, c.BoxHeight)
	}
	if c.CornerRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "corner radius must be non-negative, got %g", c.CornerRadius)
	}
	if c.MarginTop < 0 || c.MarginBottom < 0 || c.MarginLeft < 0 || c.MarginRight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margins must be non-negative")
	}
	return nil
}

// InnerSize returns the drawing region left after subtracting margins.
// A region smaller than the margins collapses to zero rather than going
// negative.
func (c Config) InnerSize(width, height float64) (float64, float64) {
	iw := width - c.MarginLeft - c.MarginRight
	ih := height - c.MarginTop - c.MarginBottom
	if iw < 0 {
		iw = 0
	}
	if ih < 0 {
		ih = 0
	}
	return iw, ih
}
