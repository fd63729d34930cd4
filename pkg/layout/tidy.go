package layout

import (
	"context"
	"fmt"

	"github.com/treescope/treescope/pkg/errors"
	"github.com/treescope/treescope/pkg/tree"
)

// TidyEngine is the built-in layout engine.
//
// It produces the classic tidy tree shape: leaves are spaced evenly across
// the width in traversal order, every parent is centered over the mean of
// its children, and rows are spaced evenly down the height. The result is
// deterministic for a given tree.
type TidyEngine struct{}

// NewTidyEngine returns the default layout engine.
func NewTidyEngine() *TidyEngine { return &TidyEngine{} }

// Name returns "tidy".
func (e *TidyEngine) Name() string { return EngineTidy }

// Layout implements [Engine].
func (e *TidyEngine) Layout(_ context.Context, root *tree.Node, width, height float64) (Layout, error) {
	if err := tree.Validate(root); err != nil {
		return Layout{}, err
	}
	if width < 0 || height < 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput, "layout rectangle must be non-negative, got %gx%g", width, height)
	}

	b := &tidyBuilder{}
	b.place(root, 0, "")

	b.normalize(width, height)

	return Layout{
		Nodes:  b.nodes,
		Links:  b.links,
		Width:  width,
		Height: height,
	}, nil
}

// tidyBuilder accumulates positions during the recursive walk.
// Raw x units are leaf slots; raw y units are depth rows. Both are
// rescaled to the target rectangle by normalize.
type tidyBuilder struct {
	nodes    []Node
	links    []Link
	nextLeaf float64
	maxDepth int
}

// place positions the subtree rooted at n and returns the index of its
// node entry. Leaves claim the next free slot; internal nodes sit at the
// midpoint of their first and last child.
func (b *tidyBuilder) place(n *tree.Node, depth int, parentID string) int {
	id := fmt.Sprintf("n%d", len(b.nodes))
	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{
		ID:     id,
		Label:  n.Label,
		Digest: n.Digest,
		Depth:  depth,
		Y:      float64(depth),
	})
	if parentID != "" {
		b.links = append(b.links, Link{Source: parentID, Target: id})
	}
	if depth > b.maxDepth {
		b.maxDepth = depth
	}

	if len(n.Children) == 0 {
		b.nodes[idx].X = b.nextLeaf
		b.nextLeaf++
		return idx
	}

	first := -1
	last := -1
	for _, c := range n.Children {
		last = b.place(c, depth+1, id)
		if first < 0 {
			first = last
		}
	}
	b.nodes[idx].X = (b.nodes[first].X + b.nodes[last].X) / 2
	return idx
}

// normalize rescales raw slot coordinates into [0,width] x [0,height].
// A single column of nodes is centered horizontally; a single row stays
// at y=0.
func (b *tidyBuilder) normalize(width, height float64) {
	minX, maxX := b.nodes[0].X, b.nodes[0].X
	for _, n := range b.nodes {
		if n.X < minX {
			minX = n.X
		}
		if n.X > maxX {
			maxX = n.X
		}
	}

	for i := range b.nodes {
		if maxX > minX {
			b.nodes[i].X = (b.nodes[i].X - minX) / (maxX - minX) * width
		} else {
			b.nodes[i].X = width / 2
		}
		if b.maxDepth > 0 {
			b.nodes[i].Y = b.nodes[i].Y / float64(b.maxDepth) * height
		} else {
			b.nodes[i].Y = 0
		}
	}
}
