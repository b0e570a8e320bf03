package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/model"
	"github.com/matzehuels/massform/pkg/units"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// surfaceFilters cycles with tab: all surfaces, then one facade at a time.
var surfaceFilters = append([]geom.Facade{geom.FacadeNone}, geom.Facades...)

// =============================================================================
// SurfaceListModel - Interactive surface browser
// =============================================================================

// SurfaceListModel is the bubbletea model for browsing an envelope's surfaces.
type SurfaceListModel struct {
	Env      *model.Envelope
	Surfaces []*model.Surface
	Cursor   int
	Height   int
	Offset   int
	Detail   bool
	filter   int
}

// NewSurfaceListModel creates a new surface list model.
func NewSurfaceListModel(env *model.Envelope) SurfaceListModel {
	return SurfaceListModel{
		Env:      env,
		Surfaces: env.Surfaces(),
		Height:   15,
	}
}

func (m SurfaceListModel) Init() tea.Cmd {
	return nil
}

func (m SurfaceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.Detail && msg.String() == "esc" {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Surfaces)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Surfaces) > 0 {
				m.Detail = !m.Detail
			}
		case "tab":
			m.filter = (m.filter + 1) % len(surfaceFilters)
			m.Surfaces = m.filtered()
			m.Cursor, m.Offset, m.Detail = 0, 0, false
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m SurfaceListModel) filtered() []*model.Surface {
	f := surfaceFilters[m.filter]
	if f == geom.FacadeNone {
		return m.Env.Surfaces()
	}
	var out []*model.Surface
	for _, s := range m.Env.Surfaces() {
		if s.Kind == model.KindWall && s.Facade() == f {
			out = append(out, s)
		}
	}
	return out
}

func (m SurfaceListModel) View() string {
	var b strings.Builder

	heading := "Surfaces"
	if f := surfaceFilters[m.filter]; f != geom.FacadeNone {
		heading += " · " + f.String() + " walls"
	}
	b.WriteString(StyleTitle.Render(heading))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  tab facade  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Surfaces) {
		end = len(m.Surfaces)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Surfaces[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		space := "—"
		if sp := m.Env.SpaceOf(s); sp != nil {
			space = sp.Name
		}
		openings := "—"
		if n := len(m.Env.SubSurfacesOf(s.ID)); n > 0 {
			openings = fmt.Sprint(n)
		}
		rows = append(rows, []string{cursor, s.Name, space, s.Kind.String(), s.Boundary.String(), units.Format(s.Area(), 1), openings})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Surface", "Space", "Kind", "Boundary", "ft2", "Openings").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Surfaces) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if s := m.Surfaces[idx]; s.Boundary == model.Outdoors {
				base = base.Foreground(colorWhite)
			} else {
				base = base.Foreground(colorGray)
			}
			if idx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.Detail && m.Cursor < len(m.Surfaces) {
		b.WriteString(m.detail(m.Surfaces[m.Cursor]))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Surfaces)), len(m.Surfaces))))

	return b.String()
}

// detail lists the vertices, adjacency and openings of s.
func (m SurfaceListModel) detail(s *model.Surface) string {
	var b strings.Builder
	line := func(k, v string) {
		fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render(fmt.Sprintf("%-10s", k)), StyleValue.Render(v))
	}
	line("id", s.ID)
	line("facade", s.Facade().String())
	line("tilt", units.Format(s.Tilt(), 1)+"°")
	if s.Adjacent != "" {
		if o := m.Env.Surface(s.Adjacent); o != nil {
			line("adjacent", o.Name)
		}
	}
	for i, p := range s.Polygon {
		line(fmt.Sprintf("v%d", i), fmt.Sprintf("(%s, %s, %s)", units.Format(p.X, 2), units.Format(p.Y, 2), units.Format(p.Z, 2)))
	}
	for _, ss := range m.Env.SubSurfacesOf(s.ID) {
		line(strings.ToLower(ss.Kind.String()), ss.Name+" "+units.Format(ss.Polygon.Area(), 2)+" ft2")
	}
	return b.String()
}
