package toolkit

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Styles renders tool output. The zero value renders plain text.
type Styles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Total  lipgloss.Style
	Muted  lipgloss.Style
	Alert  lipgloss.Style

	renderer *lipgloss.Renderer
	color    bool
}

// NewStyles returns styles for w. Without color every style is plain.
func NewStyles(w io.Writer, color bool) Styles {
	r := lipgloss.NewRenderer(w)
	cell := r.NewStyle().Padding(0, 1)

	s := Styles{
		Header:   cell,
		Cell:     cell,
		Total:    cell,
		Muted:    r.NewStyle(),
		Alert:    r.NewStyle(),
		renderer: r,
		color:    color,
	}
	if !color {
		return s
	}

	s.Header = cell.Bold(true).Foreground(lipgloss.Color("12"))
	s.Total = cell.Bold(true)
	s.Muted = r.NewStyle().Foreground(lipgloss.Color("8"))
	s.Alert = r.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	return s
}

// Swatch renders a block filled with the given hex colour, or nothing when
// colour is off.
func (s Styles) Swatch(hex string) string {
	if !s.color || s.renderer == nil {
		return ""
	}
	return s.renderer.NewStyle().Background(lipgloss.Color(hex)).Render("      ")
}

// Table renders rows under headers. When total is set the last row is
// rendered with the Total style.
func (s Styles) Table(headers []string, rows [][]string, total bool) string {
	last := len(rows) - 1

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.Header
			case total && row == last:
				return s.Total
			default:
				return s.Cell
			}
		})
	return t.String()
}
