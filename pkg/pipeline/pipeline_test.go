package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/massform/pkg/cache"
	"github.com/matzehuels/massform/pkg/diag"
	"github.com/matzehuels/massform/pkg/fenestration"
	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/massing"
	"github.com/matzehuels/massform/pkg/observability"
)

func ptr[T any](v T) *T { return &v }

func houseOptions() Options {
	return Options{
		Name: "house",
		Building: Building{Detached: &massing.DetachedConfig{
			CFA:         1250,
			WallHeight:  8,
			NumFloors:   1,
			AspectRatio: 2,
			Roof:        massing.Roof{Type: massing.RoofFlat},
		}},
		Door: ptr(20.0),
		Windows: &fenestration.WindowParams{
			WWR: map[geom.Facade]float64{geom.FacadeFront: 0.15, geom.FacadeBack: 0.15},
		},
		Skylights: &fenestration.SkylightParams{
			Area: map[geom.Facade]float64{geom.FacadeFront: 10},
		},
	}
}

func TestValidateOrientation(t *testing.T) {
	tests := []struct {
		deg     float64
		wantErr bool
	}{
		{0, false},
		{180, false},
		{359.9, false},
		{-1, true},
		{400, true},
	}
	for _, tt := range tests {
		err := ValidateOrientation(tt.deg)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateOrientation(%v) error = %v, wantErr %v", tt.deg, err, tt.wantErr)
		}
	}
}

func TestBuildingConfig(t *testing.T) {
	d := &massing.DetachedConfig{}
	a := &massing.AttachedConfig{}
	tests := []struct {
		name    string
		b       Building
		want    massing.Variant
		wantErr bool
	}{
		{"none", Building{}, "", true},
		{"detached", Building{Detached: d}, massing.VariantDetached, false},
		{"attached", Building{Attached: a}, massing.VariantAttached, false},
		{"multifamily", Building{Multifamily: &massing.MultifamilyConfig{}}, massing.VariantMultifamily, false},
		{"two", Building{Detached: d, Attached: a}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.b.Config()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Config() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.Variant() != tt.want {
				t.Errorf("Variant() = %v, want %v", c.Variant(), tt.want)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{
		Building: Building{Detached: &massing.DetachedConfig{}},
		Windows:  &fenestration.WindowParams{},
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Name != DefaultName {
		t.Errorf("Name = %q, want %q", opts.Name, DefaultName)
	}
	if *opts.Orientation != DefaultOrientation {
		t.Errorf("Orientation = %v, want %v", *opts.Orientation, DefaultOrientation)
	}
	if opts.Windows.AspectRatio != fenestration.DefaultWindowAspectRatio {
		t.Errorf("AspectRatio = %v, want %v", opts.Windows.AspectRatio, fenestration.DefaultWindowAspectRatio)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := houseOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	opts.Orientation = ptr(-5.0)
	// A second call returns early and does not revalidate.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call error = %v", err)
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Options)
	}{
		{"no building", func(o *Options) { o.Building = Building{} }},
		{"bad name", func(o *Options) { o.Name = "../house" }},
		{"bad orientation", func(o *Options) { o.Orientation = ptr(361.0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := houseOptions()
			tt.mod(&opts)
			if err := opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEnvelopeKeyOpts(t *testing.T) {
	opts := houseOptions()
	_ = opts.ValidateAndSetDefaults()
	k := opts.EnvelopeKeyOpts()
	want := cache.EnvelopeKeyOpts{
		Variant: string(massing.VariantDetached), Windows: true, Skylights: true, Door: true, Orientation: 180,
	}
	if k != want {
		t.Errorf("EnvelopeKeyOpts() = %+v, want %+v", k, want)
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := houseOptions()
	opts.Orientation = ptr(90.0)

	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.CacheHit {
		t.Error("NullCache run should not hit")
	}
	if res.Envelope.Orientation != 90 {
		t.Errorf("Orientation = %v, want 90", res.Envelope.Orientation)
	}
	if res.Stats.Doors != 1 || res.Stats.Skylights != 1 || res.Stats.Windows == 0 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	// Front 400 ft² and back 400 ft² at 15%.
	if got := res.Stats.WindowArea; got < 119.9 || got > 120.1 {
		t.Errorf("WindowArea = %v, want 120", got)
	}
	if err := res.Envelope.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if res.Hash == "" {
		t.Error("Hash should be set")
	}
}

func TestExecuteSkipsUnsetStages(t *testing.T) {
	opts := houseOptions()
	opts.Door, opts.Windows, opts.Skylights = nil, nil, nil

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.SubSurfaces != 0 {
		t.Errorf("SubSurfaces = %d, want 0", res.Stats.SubSurfaces)
	}
}

func TestExecuteError(t *testing.T) {
	opts := houseOptions()
	opts.Building.Detached.CFA = -1
	rec := &diag.Recorder{}
	opts.Sink = rec

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts); err == nil {
		t.Fatal("expected error")
	}
	if len(rec.Errors()) != 1 {
		t.Errorf("Errors() = %v, want one message", rec.Errors())
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRunner(nil, nil, nil).Execute(ctx, houseOptions()); err == nil {
		t.Error("canceled context should fail")
	}
}

func TestExecuteCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()
	ctx := context.Background()

	first, err := r.Execute(ctx, houseOptions())
	if err != nil {
		t.Fatal(err)
	}
	rec := &diag.Recorder{}
	opts := houseOptions()
	opts.Sink = rec
	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit || !second.CacheHit {
		t.Errorf("CacheHit = %v, %v, want false, true", first.CacheHit, second.CacheHit)
	}
	if first.Hash != second.Hash {
		t.Error("identical options should hash equally")
	}
	if second.Stats.Surfaces != first.Stats.Surfaces || second.Stats.Windows != first.Stats.Windows {
		t.Errorf("cached stats = %+v, want %+v", second.Stats, first.Stats)
	}
	if len(second.Diagnostics) != len(first.Diagnostics) || len(rec.Messages()) != len(first.Diagnostics) {
		t.Errorf("replayed %d diagnostics, want %d", len(rec.Messages()), len(first.Diagnostics))
	}

	opts = houseOptions()
	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestExecuteAll(t *testing.T) {
	bad := houseOptions()
	bad.Name = "bad"
	bad.Building.Detached.WallHeight = 0
	other := houseOptions()
	other.Name = "other"

	var mu sync.Mutex
	failed := map[int]bool{}
	calls := 0
	progress := func(i int, err error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		failed[i] = err != nil
	}

	results, err := NewRunner(nil, nil, nil).ExecuteAll(context.Background(), []Options{houseOptions(), bad, other}, 2, progress)
	if err == nil {
		t.Error("ExecuteAll should report the failed build")
	}
	if calls != 3 {
		t.Errorf("progress calls = %d, want 3", calls)
	}
	if !failed[1] || failed[0] || failed[2] {
		t.Errorf("progress failures = %v, want only 1", failed)
	}
	if results[0] == nil || results[2] == nil {
		t.Fatal("successful builds should have results")
	}
	if results[1] != nil {
		t.Error("failed build should have a nil result")
	}
	if results[2].Envelope.Name != "other" {
		t.Errorf("results out of order: %s", results[2].Envelope.Name)
	}
}

type stageRecorder struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	stages []string
}

func (h *stageRecorder) OnStageComplete(_ context.Context, stage, _ string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stages = append(h.stages, stage)
}

func TestExecuteHooks(t *testing.T) {
	h := &stageRecorder{}
	observability.SetPipelineHooks(h)
	defer observability.Reset()

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), houseOptions()); err != nil {
		t.Fatal(err)
	}
	want := []string{observability.StageMassing, observability.StageDoor, observability.StageWindows, observability.StageSkylights}
	if len(h.stages) != len(want) {
		t.Fatalf("stages = %v, want %v", h.stages, want)
	}
	for i := range want {
		if h.stages[i] != want[i] {
			t.Errorf("stages[%d] = %s, want %s", i, h.stages[i], want[i])
		}
	}
}
