package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/massform/pkg/geom"
	modelio "github.com/matzehuels/massform/pkg/io"
	"github.com/matzehuels/massform/pkg/model"
	"github.com/matzehuels/massform/pkg/units"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect MODEL.json",
		Short: "Summarize a model file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := modelio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if interactive {
				return browse(cmd.Context(), env)
			}
			printSummary(env)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse surfaces interactively")
	return cmd
}

// facadeSummary is the gross outdoor wall and window area of one facade.
type facadeSummary struct {
	wall, window float64
	windows      int
}

// summarize totals the conditioned outdoor walls and their windows by facade.
func summarize(env *model.Envelope) map[geom.Facade]*facadeSummary {
	out := map[geom.Facade]*facadeSummary{}
	for _, f := range geom.Facades {
		out[f] = &facadeSummary{}
	}
	for _, sp := range env.ConditionedSpaces() {
		for _, s := range env.SurfacesOf(sp.ID) {
			if s.Kind != model.KindWall || s.Boundary != model.Outdoors {
				continue
			}
			fs, ok := out[s.Facade()]
			if !ok {
				continue
			}
			fs.wall += s.Area()
			for _, ss := range env.SubSurfacesOf(s.ID) {
				if ss.Kind == model.Window {
					fs.window += ss.Polygon.Area()
					fs.windows++
				}
			}
		}
	}
	return out
}

func printSummary(env *model.Envelope) {
	fmt.Println(StyleTitle.Render(env.Name))
	printKeyValue("Orientation", units.Format(env.Orientation, 1)+"°")
	printKeyValue("Zones", fmt.Sprint(len(env.Zones())))
	printKeyValue("Spaces", fmt.Sprint(len(env.Spaces())))
	printKeyValue("Surfaces", fmt.Sprint(len(env.Surfaces())))
	printKeyValue("Openings", fmt.Sprint(len(env.SubSurfaces())))
	if h, ok := env.ConditionedAtticHeight(); ok {
		printKeyValue("Attic", units.Format(h, 2)+" ft conditioned")
	}
	printNewline()

	sums := summarize(env)
	rows := make([][]string, 0, len(geom.Facades))
	for _, f := range geom.Facades {
		s := sums[f]
		wwr := 0.0
		if s.wall > 0 {
			wwr = s.window / s.wall
		}
		rows = append(rows, []string{
			title(f),
			units.Format(s.wall, 1),
			fmt.Sprint(s.windows),
			units.Format(s.window, 1),
			units.Format(wwr, 3),
		})
	}
	fmt.Println(newTable("Facade", "Wall ft2", "Windows", "Window ft2", "WWR").Rows(rows...).Render())
	printNewline()
	printNextStep("Browse surfaces", "massform inspect -i "+env.Name+".json")
}

func title(f geom.Facade) string {
	s := f.String()
	return string(s[0]-'a'+'A') + s[1:]
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func browse(ctx context.Context, env *model.Envelope) error {
	p := tea.NewProgram(NewSurfaceListModel(env), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
