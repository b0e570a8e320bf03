package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/matzehuels/massform/pkg/cache"
	"github.com/matzehuels/massform/pkg/diag"
	modelio "github.com/matzehuels/massform/pkg/io"
	"github.com/matzehuels/massform/pkg/model"
	"github.com/matzehuels/massform/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no build state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedBuild is the cache entry of one build.
type cachedBuild struct {
	Envelope    json.RawMessage `json:"envelope"`
	Diagnostics []diag.Message  `json:"diagnostics"`
}

// Execute runs massing and placement with caching. Diagnostics go to
// opts.Sink and the runner's logger as they are emitted, and are returned
// in the result. A cache hit replays the diagnostics of the original build.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger.With("building", opts.Name)

	hash, err := opts.configHash()
	if err != nil {
		return nil, fmt.Errorf("hash options: %w", err)
	}
	key := r.Keyer.EnvelopeKey(hash, opts.EnvelopeKeyOpts())

	if !opts.Refresh {
		if res, ok := r.load(ctx, key, opts); ok {
			res.Hash = hash
			logger.Info("loaded envelope from cache", "surfaces", res.Stats.Surfaces)
			return res, nil
		}
	}

	rec := &diag.Recorder{}
	sinks := diag.Tee{rec, diag.NewLogSink(logger)}
	if opts.Sink != nil {
		sinks = append(sinks, opts.Sink)
	}

	start := time.Now()
	env, err := Mass(ctx, opts, sinks)
	if err != nil {
		return nil, fmt.Errorf("massing: %w", err)
	}
	massingTime := time.Since(start)
	logger.Info("massed building",
		"variant", opts.Variant(),
		"surfaces", len(env.Surfaces()),
		"duration", massingTime)

	start = time.Now()
	if err := Place(ctx, env, opts, sinks); err != nil {
		return nil, fmt.Errorf("placement: %w", err)
	}

	result := &Result{
		Envelope:    env,
		Diagnostics: rec.Messages(),
		Hash:        hash,
		Stats:       countStats(env),
	}
	result.Stats.MassingTime = massingTime
	result.Stats.PlacementTime = time.Since(start)
	observability.Pipeline().OnEnvelopeBuilt(ctx, string(opts.Variant()), result.Stats.Surfaces, result.Stats.SubSurfaces)

	logger.Info("placed openings",
		"windows", result.Stats.Windows,
		"skylights", result.Stats.Skylights,
		"doors", result.Stats.Doors,
		"duration", result.Stats.PlacementTime)

	r.store(ctx, key, result)
	return result, nil
}

// load returns a cached build, or false on a miss or an unreadable entry.
func (r *Runner) load(ctx context.Context, key string, opts Options) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "envelope")
		return nil, false
	}

	var entry cachedBuild
	if err := json.Unmarshal(data, &entry); err != nil {
		observability.Cache().OnCacheMiss(ctx, "envelope")
		return nil, false
	}
	env, err := modelio.ReadJSON(bytes.NewReader(entry.Envelope))
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "envelope")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "envelope")

	if opts.Sink != nil {
		for _, m := range entry.Diagnostics {
			switch m.Level {
			case diag.LevelError:
				opts.Sink.Error(m.Text)
			case diag.LevelWarning:
				opts.Sink.Warning(m.Text)
			default:
				opts.Sink.Info(m.Text)
			}
		}
	}
	return &Result{
		Envelope:    env,
		Diagnostics: entry.Diagnostics,
		Stats:       countStats(env),
		CacheHit:    true,
	}, true
}

// store caches a build; failures are logged, not returned.
func (r *Runner) store(ctx context.Context, key string, res *Result) {
	var buf bytes.Buffer
	if err := modelio.WriteJSON(res.Envelope, &buf); err != nil {
		r.Logger.Warn("encode envelope for cache", "error", err)
		return
	}
	data, err := json.Marshal(cachedBuild{Envelope: buf.Bytes(), Diagnostics: res.Diagnostics})
	if err != nil {
		r.Logger.Warn("encode cache entry", "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLEnvelope); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "envelope", len(data))
}

// ExecuteAll runs independent builds on up to parallel goroutines. Results
// keep the order of opts; a failed build leaves a nil entry and its error
// is joined into the returned error. progress, when set, is called as each
// build finishes, from the build's goroutine.
func (r *Runner) ExecuteAll(ctx context.Context, opts []Options, parallel int, progress func(i int, err error)) ([]*Result, error) {
	if parallel < 1 {
		parallel = 1
	}
	results := make([]*Result, len(opts))

	p := pool.New().WithMaxGoroutines(parallel).WithErrors()
	for i := range opts {
		o := opts[i]
		p.Go(func() error {
			res, err := r.Execute(ctx, o)
			if progress != nil {
				progress(i, err)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", o.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	return results, p.Wait()
}

// Build runs the pipeline without the cache and returns the envelope.
func Build(ctx context.Context, opts Options, sink diag.Sink) (*model.Envelope, error) {
	env, err := Mass(ctx, opts, sink)
	if err != nil {
		return nil, err
	}
	if err := Place(ctx, env, opts, sink); err != nil {
		return nil, err
	}
	return env, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
