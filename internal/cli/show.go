package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/treescope/treescope/pkg/tree"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newShowCmd creates the show command for browsing a tree in the terminal.
func newShowCmd() *cobra.Command {
	var digests bool

	cmd := &cobra.Command{
		Use:   "show [tree.json]",
		Short: "Browse a tree interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := tree.ReadFile(args[0])
			if err != nil {
				return err
			}
			model := newTreeBrowser(root, digests)
			p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&digests, "digests", false, "show node digests")

	return cmd
}

// treeRow is one visible line in the browser: a node plus its position in
// the hierarchy.
type treeRow struct {
	node     *tree.Node
	depth    int
	path     string // index chain from the root, e.g. "0.1.2"
	expanded bool
}

// TreeBrowser is the bubbletea model for interactive tree browsing.
// Collapsed subtrees are tracked by path so toggling one node never
// disturbs the expansion state of its siblings.
type TreeBrowser struct {
	root        *tree.Node
	collapsed   map[string]bool
	showDigests bool
	Cursor      int
	Height      int
	Offset      int
}

// newTreeBrowser creates a browser with every node expanded.
func newTreeBrowser(root *tree.Node, showDigests bool) TreeBrowser {
	return TreeBrowser{
		root:        root,
		collapsed:   make(map[string]bool),
		showDigests: showDigests,
		Height:      15,
	}
}

func (m TreeBrowser) Init() tea.Cmd {
	return nil
}

// visibleRows flattens the tree, skipping the children of collapsed nodes.
func (m TreeBrowser) visibleRows() []treeRow {
	var rows []treeRow
	var walk func(n *tree.Node, depth int, path string)
	walk = func(n *tree.Node, depth int, path string) {
		rows = append(rows, treeRow{
			node:     n,
			depth:    depth,
			path:     path,
			expanded: !m.collapsed[path],
		})
		if m.collapsed[path] {
			return
		}
		for i, child := range n.Children {
			walk(child, depth+1, path+"."+strconv.Itoa(i))
		}
	}
	walk(m.root, 0, "0")
	return rows
}

func (m TreeBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	rows := m.visibleRows()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			row := rows[m.Cursor]
			if len(row.node.Children) > 0 {
				m.collapsed[row.path] = !m.collapsed[row.path]
			}
		case "e":
			m.collapsed = make(map[string]bool)
		case "c":
			for _, row := range rows {
				if len(row.node.Children) > 0 && row.path != "0" {
					m.collapsed[row.path] = true
				}
			}
			m.Cursor = 0
			m.Offset = 0
		case "d":
			m.showDigests = !m.showDigests
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TreeBrowser) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tree Browser"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ fold  e expand all  c collapse all  d digests  q quit"))
	b.WriteString("\n\n")

	rows := m.visibleRows()
	if m.Cursor >= len(rows) {
		m.Cursor = len(rows) - 1
	}

	end := m.Offset + m.Height
	if end > len(rows) {
		end = len(rows)
	}

	for i := m.Offset; i < end; i++ {
		row := rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		marker := "  "
		if len(row.node.Children) > 0 {
			if row.expanded {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}

		line := cursor + strings.Repeat("  ", row.depth) + marker + row.node.Label
		if m.showDigests && row.node.Digest != "" {
			line += "  " + listDimStyle.Render(shortDigest(row.node.Digest))
		}

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(rows))))

	return b.String()
}

// shortDigest truncates long hex digests for single-line display.
func shortDigest(d string) string {
	if len(d) <= 16 {
		return d
	}
	return d[:8] + "…" + d[len(d)-8:]
}
