package layout

import (
	"strings"
	"testing"
)

func TestFlatten(t *testing.T) {
	nodes, links := flatten(balanced())

	if len(nodes) != 7 {
		t.Fatalf("got %d nodes, want 7", len(nodes))
	}
	if len(links) != 6 {
		t.Fatalf("got %d links, want 6", len(links))
	}

	// Pre-order IDs and depths.
	wantDepths := []int{0, 1, 2, 2, 1, 2, 2}
	for i, n := range nodes {
		if n.Depth != wantDepths[i] {
			t.Errorf("node %s: depth %d, want %d", n.ID, n.Depth, wantDepths[i])
		}
	}
}

func TestToDOT(t *testing.T) {
	nodes, links := flatten(balanced())
	dot := toDOT(nodes, links)

	for _, want := range []string{
		"digraph tree {",
		"rankdir=TB",
		`"n0";`,
		`"n6";`,
		`"n0" -> "n1";`,
		`"n4" -> "n6";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}

	// Node statements must not carry labels, or Graphviz would size
	// boxes by text and skew the ranks.
	if strings.Contains(dot, "label=\"n0\"") {
		t.Error("DOT output should not label individual nodes")
	}
}

func TestParsePositions(t *testing.T) {
	out := []byte(`digraph tree {
	graph [bb="0,0,306,252"];
	node [fixedsize=true, label="", shape=box];
	"n0"	[height=0.6, pos="153,226", width=1.5];
	"n1"	[height=0.6, pos="81,126",
		width=1.5];
	"n2"	[height=0.6, pos="27,26", width=1.5];
	"n0" -> "n1"	[pos="e,95.864,147.64 138.64,204.04 128.13,190.18 113.86,171.36 102.09,155.85"];
}`)

	positions, err := parsePositions(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 3 {
		t.Fatalf("got %d positions, want 3", len(positions))
	}

	if p := positions["n0"]; !approx(p.x, 153) || !approx(p.y, 226) {
		t.Errorf("n0 at (%g,%g), want (153,226)", p.x, p.y)
	}
	// The statement for n1 spans two lines.
	if p := positions["n1"]; !approx(p.x, 81) || !approx(p.y, 126) {
		t.Errorf("n1 at (%g,%g), want (81,126)", p.x, p.y)
	}
}

func TestParsePositionsEmpty(t *testing.T) {
	if _, err := parsePositions([]byte("digraph {}")); err == nil {
		t.Fatal("parsePositions should fail when no positions are present")
	}
}

func TestFitRescalesAndInvertsY(t *testing.T) {
	// Graphviz y grows upward: the root has the largest y.
	nodes := []Node{
		{ID: "n0", Depth: 0, X: 150, Y: 200},
		{ID: "n1", Depth: 1, X: 50, Y: 100},
		{ID: "n2", Depth: 1, X: 250, Y: 100},
	}
	fit(nodes, 600, 400)

	// After fitting, depth grows downward with the root row at y=0.
	if !approx(nodes[0].Y, 0) {
		t.Errorf("root y = %g, want 0", nodes[0].Y)
	}
	if !approx(nodes[1].Y, 400) || !approx(nodes[2].Y, 400) {
		t.Errorf("child rows at y %g and %g, want 400", nodes[1].Y, nodes[2].Y)
	}

	// X spans the full width.
	if !approx(nodes[1].X, 0) || !approx(nodes[2].X, 600) {
		t.Errorf("children at x %g and %g, want 0 and 600", nodes[1].X, nodes[2].X)
	}
	if !approx(nodes[0].X, 300) {
		t.Errorf("root x = %g, want 300", nodes[0].X)
	}
}

func TestFitSingleNode(t *testing.T) {
	nodes := []Node{{ID: "n0", X: 27, Y: 26}}
	fit(nodes, 600, 400)
	if !approx(nodes[0].X, 300) || !approx(nodes[0].Y, 0) {
		t.Errorf("single node at (%g,%g), want (300,0)", nodes[0].X, nodes[0].Y)
	}
}
