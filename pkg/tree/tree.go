// Package tree defines the hierarchical input structure for diagram rendering.
//
// A tree is a finite rooted hierarchy of labeled nodes. Each node carries a
// display label and an optional digest string (a hash shown as a secondary
// label when digest display is enabled). Sibling order is significant and is
// preserved through layout and rendering.
//
// The package performs no cycle detection: a structure with cycles is outside
// the contract and will hang the layout delegate.
package tree

import (
	"github.com/treescope/treescope/pkg/errors"
)

// Node is a single node of the input tree.
type Node struct {
	// Label is the text drawn on the node.
	Label string `json:"text"`

	// Digest is the optional secondary label (typically a hash). It is kept
	// in the data model even when digest rendering is disabled.
	Digest string `json:"digest,omitempty"`

	// Children are the ordered child nodes.
	Children []*Node `json:"children,omitempty"`
}

// Validate checks that the root is usable as render input.
// A nil root is the only rejected shape; deeper malformations (cycles,
// shared subtrees) are undefined behavior by contract.
func Validate(root *Node) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidInput, "tree root is missing")
	}
	return nil
}

// Count returns the number of nodes in the subtree rooted at n.
// A nil node counts as zero.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Depth returns the number of levels in the subtree rooted at n.
// A single node has depth 1; a nil node has depth 0.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, c := range n.Children {
		if d := c.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Walk visits the subtree in pre-order, calling fn with each node and its
// depth (root depth 0). Traversal stops when fn returns false.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(0, fn)
}

func (n *Node) walk(depth int, fn func(n *Node, depth int) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(depth+1, fn) {
			return false
		}
	}
	return true
}
