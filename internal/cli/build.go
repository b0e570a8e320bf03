package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/massform/pkg/diag"
	modelio "github.com/matzehuels/massform/pkg/io"
	"github.com/matzehuels/massform/pkg/pipeline"
	"github.com/matzehuels/massform/pkg/units"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	outDir      string
	noCache     bool
	refresh     bool
	cacheURL    string
	parallel    int
	orientation float64
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{parallel: 4, orientation: -1}

	cmd := &cobra.Command{
		Use:   "build CONFIG.toml...",
		Short: "Build envelopes from building configs",
		Long: `Build masses each configured building, places its door, windows and
skylights, and writes the model as <name>.json. Several configs are built
in parallel.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the envelope cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even when cached")
	cmd.Flags().StringVar(&opts.cacheURL, "cache-url", os.Getenv(envPrefix+"_CACHE_URL"), "redis:// or mongodb:// cache (default: local files)")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", opts.parallel, "builds to run at once")
	cmd.Flags().Float64Var(&opts.orientation, "orientation", opts.orientation, "azimuth the front faces, overriding the configs")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, paths []string, opts buildOpts) error {
	logger := loggerFromContext(ctx)

	builds := make([]pipeline.Options, 0, len(paths))
	for _, p := range paths {
		o, err := loadConfig(p)
		if err != nil {
			return err
		}
		o.Refresh = opts.refresh
		if opts.orientation >= 0 {
			v := opts.orientation
			o.Orientation = &v
		}
		builds = append(builds, o)
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache, opts.cacheURL)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinner(ctx, "Building envelopes", len(builds))
	spinner.Start()
	results, buildErr := runner.ExecuteAll(ctx, builds, opts.parallel, func(int, error) { spinner.Advance() })
	spinner.Stop()

	for i, res := range results {
		if res == nil {
			printError("%s failed", builds[i].Name)
			continue
		}
		printBuild(builds[i].Name, res)
		out := filepath.Join(opts.outDir, builds[i].Name+".json")
		if err := modelio.ExportJSON(res.Envelope, out); err != nil {
			return err
		}
		printFile(out)
	}
	if buildErr != nil {
		return buildErr
	}
	prog.done("Built %d envelope(s)", len(results))
	return nil
}

// printBuild prints one build's stats and its warnings.
func printBuild(name string, res *pipeline.Result) {
	printSuccess("%s", StyleTitle.Render(name))
	s := res.Stats
	printStats(res.CacheHit,
		fmt.Sprintf("%d surfaces", s.Surfaces),
		fmt.Sprintf("%d windows (%s ft2)", s.Windows, units.Format(s.WindowArea, 1)),
		fmt.Sprintf("%d skylights", s.Skylights),
		fmt.Sprintf("%d doors", s.Doors))
	for _, m := range res.Diagnostics {
		if m.Level == diag.LevelWarning {
			printWarning("%s", m.Text)
		}
	}
}
