// Package scene provides retained drawing surfaces with reconciling updates.
//
// A Surface holds the set of currently drawn elements, keyed by identity.
// Callers describe the desired content declaratively; Apply diffs it against
// what is already drawn and reports what was created, updated, and removed.
// Applying the same content twice is a no-op, which is what makes repeated
// renders idempotent.
//
// A Surface also owns the live pan/zoom [Transform]. The transform is view
// state only: it survives re-renders and never feeds back into element
// coordinates.
package scene

import (
	"maps"
	"slices"

	"github.com/treescope/treescope/pkg/errors"
)

// Element kinds understood by the output sinks.
const (
	KindPath  = "path"
	KindRect  = "rect"
	KindText  = "text"
	KindGroup = "g"
)

// Element is a drawable descriptor keyed by ID.
type Element struct {
	ID    string            // Identity key for reconciliation
	Kind  string            // One of the Kind constants
	Attrs map[string]string // Drawing attributes (geometry, class, text)
}

// Equal reports whether two elements would draw identically.
func (e Element) Equal(other Element) bool {
	return e.ID == other.ID && e.Kind == other.Kind && maps.Equal(e.Attrs, other.Attrs)
}

// Patch describes the outcome of a reconciliation pass.
type Patch struct {
	Created []string // IDs drawn for the first time
	Updated []string // IDs whose attributes changed
	Removed []string // IDs no longer present in the desired set
}

// Empty reports whether the patch changed nothing.
func (p Patch) Empty() bool {
	return len(p.Created) == 0 && len(p.Updated) == 0 && len(p.Removed) == 0
}

// Surface is a retained drawing region with a live pan/zoom transform.
//
// A surface is confined to a single goroutine (the UI event loop in a
// browser host, one HTTP handler at a time on the server); it performs no
// internal locking.
type Surface struct {
	width    float64
	height   float64
	elements map[string]Element
	view     Transform
}

// NewSurface creates a sized, empty surface.
func NewSurface(width float64) *Surface {
	return &Surface{
		width:    width,
		elements: make(map[string]Element),
		view:     NewTransform(),
	}
}

// Width returns the current rendered width.
func (s *Surface) Width() float64 { return s.width }

// Height returns the current rendered height.
func (s *Surface) Height() float64 { return s.height }

// SetHeight sets the rendered height.
func (s *Surface) SetHeight(h float64) { s.height = h }

// View returns a pointer to the surface's pan/zoom transform. Gesture
// handlers mutate it in place; renders leave it untouched.
func (s *Surface) View() *Transform { return &s.view }

// Apply reconciles the desired element set against the drawn set.
// Missing elements are created, changed ones updated, stale ones removed.
// The returned patch lists IDs in sorted order.
func (s *Surface) Apply(desired []Element) Patch {
	var patch Patch
	next := make(map[string]Element, len(desired))

	for _, el := range desired {
		next[el.ID] = el
		prev, ok := s.elements[el.ID]
		switch {
		case !ok:
			patch.Created = append(patch.Created, el.ID)
		case !prev.Equal(el):
			patch.Updated = append(patch.Updated, el.ID)
		}
	}

	for id := range s.elements {
		if _, ok := next[id]; !ok {
			patch.Removed = append(patch.Removed, id)
		}
	}

	s.elements = next

	slices.Sort(patch.Created)
	slices.Sort(patch.Updated)
	slices.Sort(patch.Removed)
	return patch
}

// Clear removes every drawn element, leaving the transform in place.
func (s *Surface) Clear() Patch {
	return s.Apply(nil)
}

// Elements returns the drawn elements sorted by ID.
func (s *Surface) Elements() []Element {
	out := make([]Element, 0, len(s.elements))
	for _, id := range slices.Sorted(maps.Keys(s.elements)) {
		out = append(out, s.elements[id])
	}
	return out
}

// Element returns the drawn element with the given ID.
func (s *Surface) Element(id string) (Element, bool) {
	el, ok := s.elements[id]
	return el, ok
}

// Len returns the number of drawn elements.
func (s *Surface) Len() int { return len(s.elements) }

// Document is a registry of named surfaces, standing in for the host
// document a browser renderer would query by element ID.
type Document struct {
	surfaces map[string]*Surface
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{surfaces: make(map[string]*Surface)}
}

// AddSurface registers a new surface under the given ID and returns it.
// An existing surface with the same ID is replaced.
func (d *Document) AddSurface(id string, width float64) *Surface {
	s := NewSurface(width)
	d.surfaces[id] = s
	return s
}

// Surface looks up a surface by ID.
// A missing ID is a TARGET_NOT_FOUND error, never a silent no-op.
func (d *Document) Surface(id string) (*Surface, error) {
	s, ok := d.surfaces[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeTargetNotFound, "render target %q does not exist", id)
	}
	return s, nil
}

// RemoveSurface deletes a surface from the document.
func (d *Document) RemoveSurface(id string) {
	delete(d.surfaces, id)
}
