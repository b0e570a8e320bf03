package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/export"
	modelio "github.com/matzehuels/massform/pkg/io"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph MODEL.json",
		Short: "Draw the space adjacency graph of a model",
		Long: `Graph draws every space and the boundaries its surfaces face, with one
edge per adjacent pair. The output format follows the extension of -o:
.dot writes Graphviz source, anything else renders SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = baseName(args[0]) + ".svg"
			}
			return runGraph(cmd.Context(), args[0], output, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.svg or .dot)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label edges with surface count and area")
	return cmd
}

func runGraph(ctx context.Context, input, output string, detailed bool) error {
	env, err := modelio.ImportJSON(input)
	if err != nil {
		return err
	}
	dot := export.AdjacencyDOT(env, export.DOTOptions{Detailed: detailed})

	data := []byte(dot)
	if !strings.EqualFold(filepath.Ext(output), ".dot") {
		spinner := newSpinner(ctx, "Rendering adjacency graph", 0)
		spinner.Start()
		data, err = export.RenderSVG(ctx, dot)
		spinner.Stop()
		if err != nil {
			return err
		}
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
	}
	printSuccess("Graph written")
	printFile(output)
	return nil
}
