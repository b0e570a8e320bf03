package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/massform/internal/api"
	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/observability"
)

// serveConfig is read from flags, MASSFORM_* environment variables and an
// optional massform.yaml, in that order of precedence.
type serveConfig struct {
	Addr     string `mapstructure:"addr"`
	CacheURL string `mapstructure:"cache_url"`
	NoCache  bool   `mapstructure:"no_cache"`
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the envelope API over HTTP",
		Long: `Serve answers POST /v1/envelopes with built models and exposes
Prometheus metrics on /metrics. Settings come from flags, MASSFORM_ADDR,
MASSFORM_CACHE_URL and MASSFORM_NO_CACHE, or a massform.yaml in the
working or config directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(v)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("cache-url", "", "redis:// or mongodb:// cache (default: local files)")
	cmd.Flags().Bool("no-cache", false, "disable the envelope cache")
	v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	v.BindPFlag("cache_url", cmd.Flags().Lookup("cache-url"))
	v.BindPFlag("no_cache", cmd.Flags().Lookup("no-cache"))

	return cmd
}

func loadServeConfig(v *viper.Viper) (serveConfig, error) {
	var cfg serveConfig

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, appName))
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", v.ConfigFileUsed())
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid serve config")
	}
	return cfg, nil
}

func (c *CLI) runServe(ctx context.Context, cfg serveConfig) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := api.NewMetrics(reg)
	observability.SetPipelineHooks(metrics)
	observability.SetCacheHooks(metrics)
	observability.SetHTTPHooks(metrics)

	runner, err := c.newRunner(ctx, cfg.NoCache, cfg.CacheURL)
	if err != nil {
		return err
	}
	defer runner.Close()

	return api.New(runner, c.Logger, reg).ListenAndServe(ctx, cfg.Addr)
}
