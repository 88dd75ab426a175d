package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/lineage/pkg/genealogy"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// IndividualListModel - Interactive root selection
// =============================================================================

// IndividualRow is one selectable individual.
type IndividualRow struct {
	ID      string
	Name    string
	Born    string
	Parents int
}

// IndividualListModel is the bubbletea model for choosing the root of an
// ancestor walk.
type IndividualListModel struct {
	Rows     []IndividualRow
	Cursor   int
	Selected *IndividualRow
	Height   int
	Offset   int
}

// NewIndividualListModel lists every individual of g in file order.
func NewIndividualListModel(g *genealogy.Graph) IndividualListModel {
	inds := g.Individuals()
	rows := make([]IndividualRow, len(inds))
	for i, ind := range inds {
		rows[i] = IndividualRow{
			ID:      ind.ID,
			Name:    ind.DisplayName(),
			Born:    firstDate(ind.Births),
			Parents: len(parents(g, ind)),
		}
	}
	return IndividualListModel{Rows: rows, Height: 15}
}

func (m IndividualListModel) Init() tea.Cmd {
	return nil
}

func (m IndividualListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Rows) == 0 {
				return m, tea.Quit
			}
			row := m.Rows[m.Cursor]
			m.Selected = &row
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m IndividualListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Individual"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))

	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r.ID, r.Name, orDash(r.Born), fmt.Sprintf("%d", r.Parents)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Born", "Parents").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			switch {
			case idx == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case m.Rows[min(idx, len(m.Rows)-1)].Parents == 0:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Rows)), len(m.Rows))))

	return b.String()
}
