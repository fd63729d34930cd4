// Package layout assigns coordinates to the nodes of a tree.
//
// A layout engine places every node of a rooted tree inside a rectangle:
// siblings are separated horizontally, depth increases along the y axis
// (root at y=0), and every parent-child pair is reported as a link. The
// diagram package later flips the y axis so the root ends up at the bottom
// of the drawing.
//
// Two engines are provided: [TidyEngine], a deterministic built-in that
// spaces leaves evenly and centers parents over their children, and
// [GraphvizEngine], which delegates placement to Graphviz dot.
package layout

import (
	"context"

	"github.com/treescope/treescope/pkg/errors"
	"github.com/treescope/treescope/pkg/tree"
)

// Engine names accepted by configuration and CLI flags.
const (
	EngineTidy     = "tidy"
	EngineGraphviz = "graphviz"
)

// Engine computes node positions for a tree within a rectangle.
//
// Implementations must place coordinates inside [0,width] x [0,height] with
// y growing along the depth axis (root row at y=0) and must preserve sibling
// order. The input tree is never mutated.
type Engine interface {
	// Layout positions every node of the tree rooted at root.
	// The context bounds engines that shell out or allocate native state.
	Layout(ctx context.Context, root *tree.Node, width, height float64) (Layout, error)

	// Name returns the engine identifier (e.g. "tidy").
	Name() string
}

// Layout is the result of a layout computation.
type Layout struct {
	Nodes  []Node  // Positioned nodes in pre-order
	Links  []Link  // One link per parent-child pair
	Width  float64 // Rectangle width the coordinates were fit into
	Height float64 // Rectangle height the coordinates were fit into
}

// Node is a positioned tree node.
type Node struct {
	ID     string  // Stable identifier within one layout (pre-order index)
	Label  string  // Display label copied from the source node
	Digest string  // Secondary label copied from the source node
	Depth  int     // Distance from the root (root is 0)
	X, Y   float64 // Position inside the layout rectangle
}

// Link connects a parent node to one of its children, by node ID.
type Link struct {
	Source string // Parent node ID
	Target string // Child node ID
}

// NodeByID returns the positioned node with the given ID.
func (l Layout) NodeByID(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// ForName returns the engine registered under the given name.
func ForName(name string) (Engine, error) {
	switch name {
	case EngineTidy, "":
		return NewTidyEngine(), nil
	case EngineGraphviz:
		return NewGraphvizEngine(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidEngine, "unknown layout engine: %s", name)
	}
}
