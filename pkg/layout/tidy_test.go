package layout

import (
	"context"
	"math"
	"testing"

	"github.com/treescope/treescope/pkg/errors"
	"github.com/treescope/treescope/pkg/tree"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

// balanced returns a tree with four leaves under two internal nodes:
//
//	root
//	├── l
//	│   ├── a
//	│   └── b
//	└── r
//	    ├── c
//	    └── d
func balanced() *tree.Node {
	return &tree.Node{Label: "root", Children: []*tree.Node{
		{Label: "l", Children: []*tree.Node{
			{Label: "a"}, {Label: "b"},
		}},
		{Label: "r", Children: []*tree.Node{
			{Label: "c"}, {Label: "d"},
		}},
	}}
}

func TestTidyNilRoot(t *testing.T) {
	_, err := NewTidyEngine().Layout(context.Background(), nil, 100, 100)
	if err == nil {
		t.Fatal("nil root should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %s", errors.GetCode(err))
	}
}

func TestTidyNegativeRect(t *testing.T) {
	_, err := NewTidyEngine().Layout(context.Background(), &tree.Node{Label: "x"}, -1, 100)
	if err == nil {
		t.Fatal("negative width should fail")
	}
}

func TestTidySingleNode(t *testing.T) {
	l, err := NewTidyEngine().Layout(context.Background(), &tree.Node{Label: "only"}, 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Nodes) != 1 || len(l.Links) != 0 {
		t.Fatalf("got %d nodes, %d links", len(l.Nodes), len(l.Links))
	}

	// A single node is centered horizontally at the root row.
	n := l.Nodes[0]
	if !approx(n.X, 200) || !approx(n.Y, 0) {
		t.Errorf("single node at (%g,%g), want (200,0)", n.X, n.Y)
	}
}

func TestTidyPreOrderIDs(t *testing.T) {
	l, err := NewTidyEngine().Layout(context.Background(), balanced(), 600, 400)
	if err != nil {
		t.Fatal(err)
	}

	wantLabels := []string{"root", "l", "a", "b", "r", "c", "d"}
	for i, want := range wantLabels {
		n := l.Nodes[i]
		if n.Label != want {
			t.Errorf("node %d: label %q, want %q", i, n.Label, want)
		}
		wantID := "n" + string(rune('0'+i))
		if n.ID != wantID {
			t.Errorf("node %d: ID %q, want %q", i, n.ID, wantID)
		}
	}
}

func TestTidyLinksMatchParentChildPairs(t *testing.T) {
	l, err := NewTidyEngine().Layout(context.Background(), balanced(), 600, 400)
	if err != nil {
		t.Fatal(err)
	}

	want := []Link{
		{Source: "n0", Target: "n1"},
		{Source: "n1", Target: "n2"},
		{Source: "n1", Target: "n3"},
		{Source: "n0", Target: "n4"},
		{Source: "n4", Target: "n5"},
		{Source: "n4", Target: "n6"},
	}
	if len(l.Links) != len(want) {
		t.Fatalf("got %d links, want %d", len(l.Links), len(want))
	}
	for i, w := range want {
		if l.Links[i] != w {
			t.Errorf("link %d: %+v, want %+v", i, l.Links[i], w)
		}
	}
}

func TestTidyLeavesEvenlySpaced(t *testing.T) {
	l, err := NewTidyEngine().Layout(context.Background(), balanced(), 600, 400)
	if err != nil {
		t.Fatal(err)
	}

	// Leaves a, b, c, d in traversal order span the full width evenly.
	leaves := []string{"n2", "n3", "n5", "n6"}
	for i, id := range leaves {
		n, ok := l.NodeByID(id)
		if !ok {
			t.Fatalf("missing node %s", id)
		}
		want := float64(i) / 3 * 600
		if !approx(n.X, want) {
			t.Errorf("leaf %s: x = %g, want %g", id, n.X, want)
		}
	}
}

func TestTidyParentsCentered(t *testing.T) {
	l, err := NewTidyEngine().Layout(context.Background(), balanced(), 600, 400)
	if err != nil {
		t.Fatal(err)
	}

	// Each parent sits at the midpoint of its first and last child.
	checks := []struct{ parent, first, last string }{
		{"n1", "n2", "n3"},
		{"n4", "n5", "n6"},
		{"n0", "n1", "n4"},
	}
	for _, c := range checks {
		p, _ := l.NodeByID(c.parent)
		f, _ := l.NodeByID(c.first)
		la, _ := l.NodeByID(c.last)
		want := (f.X + la.X) / 2
		if !approx(p.X, want) {
			t.Errorf("parent %s: x = %g, want midpoint %g", c.parent, p.X, want)
		}
	}
}

func TestTidyRowsEvenlySpaced(t *testing.T) {
	l, err := NewTidyEngine().Layout(context.Background(), balanced(), 600, 400)
	if err != nil {
		t.Fatal(err)
	}

	// Depth 0, 1, 2 map to y = 0, 200, 400.
	for _, n := range l.Nodes {
		want := float64(n.Depth) / 2 * 400
		if !approx(n.Y, want) {
			t.Errorf("node %s depth %d: y = %g, want %g", n.ID, n.Depth, n.Y, want)
		}
	}
}

func TestTidyDeterministic(t *testing.T) {
	e := NewTidyEngine()
	a, err := e.Layout(context.Background(), balanced(), 600, 400)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Layout(context.Background(), balanced(), 600, 400)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Nodes {
		if a.Nodes[i] != b.Nodes[i] {
			t.Errorf("node %d differs between runs: %+v vs %+v", i, a.Nodes[i], b.Nodes[i])
		}
	}
}

func TestForName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"tidy", EngineTidy, false},
		{"", EngineTidy, false},
		{"graphviz", EngineGraphviz, false},
		{"circular", "", true},
	}
	for _, tt := range tests {
		e, err := ForName(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ForName(%q) should fail", tt.name)
			} else if !errors.Is(err, errors.ErrCodeInvalidEngine) {
				t.Errorf("ForName(%q): expected INVALID_ENGINE, got %s", tt.name, errors.GetCode(err))
			}
			continue
		}
		if err != nil {
			t.Errorf("ForName(%q) error: %v", tt.name, err)
			continue
		}
		if e.Name() != tt.want {
			t.Errorf("ForName(%q).Name() = %q, want %q", tt.name, e.Name(), tt.want)
		}
	}
}
