package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hasse/pkg/lattice"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorText)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	detailStyle       = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted).
				Padding(0, 1).
				MarginLeft(2)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [lattice.json]",
		Short: "Page through the ranks of a lattice interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := readLattice(args[0])
			if err != nil {
				return err
			}
			if l.NodeCount() == 0 {
				printWarning("Lattice is empty")
				return nil
			}
			p := tea.NewProgram(newBrowseModel(l), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// browseModel - Interactive rank browser
// =============================================================================

// browseModel shows the nodes of one rank and the covers of the selected node.
type browseModel struct {
	l      *lattice.Lattice
	ranks  []int
	rank   int // index into ranks
	cursor int
	offset int
	height int
}

func newBrowseModel(l *lattice.Lattice) browseModel {
	return browseModel{l: l, ranks: l.Ranks(), height: 15}
}

func (m browseModel) nodes() []int {
	if len(m.ranks) == 0 {
		return nil
	}
	return m.l.NodesOfRank(m.ranks[m.rank])
}

func (m browseModel) selected() (int, bool) {
	nodes := m.nodes()
	if m.cursor >= len(nodes) {
		return 0, false
	}
	return nodes[m.cursor], true
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.rank > 0 {
				m.rank--
				m.cursor, m.offset = 0, 0
			}
		case "right", "l":
			if m.rank < len(m.ranks)-1 {
				m.rank++
				m.cursor, m.offset = 0, 0
			}
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.nodes())-1 {
				m.cursor++
			}
		case "u":
			if id, ok := m.selected(); ok {
				m = m.follow(m.l.OutAdjacent(id))
			}
		case "d":
			if id, ok := m.selected(); ok {
				m = m.follow(m.l.InAdjacent(id))
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	m.scroll()
	return m, nil
}

// follow moves the selection to the first of the given covers.
func (m browseModel) follow(covers []int) browseModel {
	if len(covers) == 0 {
		return m
	}
	target := slices.Min(covers)
	r, ok := m.l.RankOf(target)
	if !ok {
		return m
	}
	i := slices.Index(m.ranks, r)
	if i < 0 {
		return m
	}
	m.rank = i
	m.cursor = max(slices.Index(m.nodes(), target), 0)
	return m
}

func (m *browseModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	nodes := m.nodes()
	r := 0
	if len(m.ranks) > 0 {
		r = m.ranks[m.rank]
	}
	b.WriteString(styleHeading.Render(fmt.Sprintf("Rank %d", r)))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d nodes", m.rank+1, len(m.ranks), len(nodes))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ rank  ↑/↓ node  u/d follow cover  q quit"))
	b.WriteString("\n\n")

	var list strings.Builder
	end := min(m.offset+m.height, len(nodes))
	for i := m.offset; i < end; i++ {
		id := nodes[i]
		line := fmt.Sprintf("%5d  %s", id, m.l.Face(id))
		if m.l.IsArtificial(id) {
			line += " *"
		}
		if i == m.cursor {
			list.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			list.WriteString(listNormalStyle.Render("  " + line))
		}
		list.WriteString("\n")
	}

	detail := ""
	if id, ok := m.selected(); ok {
		detail = detailStyle.Render(m.detail(id))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list.String(), detail))
	return b.String()
}

func (m browseModel) detail(id int) string {
	var b strings.Builder
	r, _ := m.l.RankOf(id)
	fmt.Fprintf(&b, "%s %d\n", styleMuted.Render("node "), id)
	fmt.Fprintf(&b, "%s %d\n", styleMuted.Render("rank "), r)
	fmt.Fprintf(&b, "%s %s\n", styleMuted.Render("face "), m.l.Face(id))
	fmt.Fprintf(&b, "%s %s\n", styleMuted.Render("above"), coverList(m.l.OutAdjacent(id)))
	fmt.Fprintf(&b, "%s %s", styleMuted.Render("below"), coverList(m.l.InAdjacent(id)))
	switch {
	case id == m.l.TopNode():
		b.WriteString("\n" + styleAccent.Render("top"))
	case id == m.l.BottomNode():
		b.WriteString("\n" + styleAccent.Render("bottom"))
	case m.l.IsArtificial(id):
		b.WriteString("\n" + styleWarn.Render("artificial"))
	}
	return b.String()
}

func coverList(ids []int) string {
	if len(ids) == 0 {
		return "-"
	}
	const limit = 12
	if len(ids) > limit {
		return joinInts(ids[:limit]) + fmt.Sprintf(", … (%d more)", len(ids)-limit)
	}
	return joinInts(ids)
}
