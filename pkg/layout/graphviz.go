package layout

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/treescope/treescope/pkg/errors"
	"github.com/treescope/treescope/pkg/tree"
)

// GraphvizEngine delegates node placement to Graphviz dot.
//
// The tree is converted to DOT with rankdir=TB, laid out by Graphviz, and
// the resulting node positions are read back from the attributed DOT output
// and rescaled into the requested rectangle. Graphviz grows y upward, so
// positions are inverted to put the root row at y=0.
type GraphvizEngine struct{}

// NewGraphvizEngine returns a Graphviz-backed layout engine.
func NewGraphvizEngine() *GraphvizEngine { return &GraphvizEngine{} }

// Name returns "graphviz".
func (e *GraphvizEngine) Name() string { return EngineGraphviz }

// Layout implements [Engine].
func (e *GraphvizEngine) Layout(ctx context.Context, root *tree.Node, width, height float64) (Layout, error) {
	if err := tree.Validate(root); err != nil {
		return Layout{}, err
	}

	nodes, links := flatten(root)
	dot := toDOT(nodes, links)

	attributed, err := runDot(ctx, dot)
	if err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeLayoutFailed, err, "graphviz layout")
	}

	positions, err := parsePositions(attributed)
	if err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeLayoutFailed, err, "parse graphviz output")
	}

	for i := range nodes {
		p, ok := positions[nodes[i].ID]
		if !ok {
			return Layout{}, errors.New(errors.ErrCodeLayoutFailed, "graphviz output is missing node %s", nodes[i].ID)
		}
		nodes[i].X = p.x
		nodes[i].Y = p.y
	}
	fit(nodes, width, height)

	return Layout{Nodes: nodes, Links: links, Width: width, Height: height}, nil
}

// flatten walks the tree in pre-order and produces unpositioned layout
// nodes plus the parent-child link list.
func flatten(root *tree.Node) ([]Node, []Link) {
	var nodes []Node
	var links []Link

	var walk func(n *tree.Node, depth int, parentID string)
	walk = func(n *tree.Node, depth int, parentID string) {
		id := fmt.Sprintf("n%d", len(nodes))
		nodes = append(nodes, Node{
			ID:     id,
			Label:  n.Label,
			Digest: n.Digest,
			Depth:  depth,
		})
		if parentID != "" {
			links = append(links, Link{Source: parentID, Target: id})
		}
		for _, c := range n.Children {
			walk(c, depth+1, id)
		}
	}
	walk(root, 0, "")
	return nodes, links
}

// toDOT builds the DOT source handed to Graphviz. Labels are not included:
// only topology matters for placement, and omitting them keeps node sizes
// uniform so ranks line up.
func toDOT(nodes []Node, links []Link) string {
	var buf bytes.Buffer
	buf.WriteString("digraph tree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, width=1.5, height=0.6, fixedsize=true, label=\"\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n\n")

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %q;\n", n.ID)
	}
	buf.WriteString("\n")
	for _, l := range links {
		fmt.Fprintf(&buf, "  %q -> %q;\n", l.Source, l.Target)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// runDot executes the dot layout and returns the attributed DOT output,
// which carries a pos attribute for every node.
func runDot(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

type point struct {
	x, y float64
}

// posRe matches a node statement with its pos attribute in attributed DOT
// output, e.g. `"n3" [pos="54,18", ...]`. Statements may span lines.
var posRe = regexp.MustCompile(`(?s)"(n\d+)"\s*\[[^\]]*?pos="(-?[0-9.]+),(-?[0-9.]+)"`)

// parsePositions extracts node center positions from attributed DOT output.
func parsePositions(out []byte) (map[string]point, error) {
	matches := posRe.FindAllSubmatch(out, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no node positions found")
	}

	positions := make(map[string]point, len(matches))
	for _, m := range matches {
		x, err := strconv.ParseFloat(string(m[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad x for %s: %w", m[1], err)
		}
		y, err := strconv.ParseFloat(string(m[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad y for %s: %w", m[1], err)
		}
		positions[string(m[1])] = point{x: x, y: y}
	}
	return positions, nil
}

// fit rescales Graphviz point coordinates into [0,width] x [0,height] and
// inverts y so the root row sits at y=0 with depth growing downward.
func fit(nodes []Node, width, height float64) {
	minX, maxX := nodes[0].X, nodes[0].X
	minY, maxY := nodes[0].Y, nodes[0].Y
	for _, n := range nodes {
		minX = min(minX, n.X)
		maxX = max(maxX, n.X)
		minY = min(minY, n.Y)
		maxY = max(maxY, n.Y)
	}

	for i := range nodes {
		if maxX > minX {
			nodes[i].X = (nodes[i].X - minX) / (maxX - minX) * width
		} else {
			nodes[i].X = width / 2
		}
		if maxY > minY {
			nodes[i].Y = (maxY - nodes[i].Y) / (maxY - minY) * height
		} else {
			nodes[i].Y = 0
		}
	}
}
