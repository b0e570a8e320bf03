package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/export"
	modelio "github.com/matzehuels/massform/pkg/io"
)

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	var (
		output string
		metric bool
		z      float64
	)

	cmd := &cobra.Command{
		Use:   "plan MODEL.json",
		Short: "Export floor plates and openings as GeoJSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = baseName(args[0]) + ".geojson"
			}
			env, err := modelio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			opts := export.PlanOptions{Metric: metric}
			if cmd.Flags().Changed("z") {
				opts.Elevation = &z
			}
			data, err := export.PlanJSON(env, opts)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
			}
			printSuccess("Plan written")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&metric, "metric", false, "write coordinates in meters")
	cmd.Flags().Float64Var(&z, "z", 0, "keep only floors at this elevation, in ft")
	return cmd
}
