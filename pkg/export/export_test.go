package export

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/massform/pkg/diag"
	"github.com/matzehuels/massform/pkg/fenestration"
	"github.com/matzehuels/massform/pkg/massing"
	"github.com/matzehuels/massform/pkg/model"
)

func envelope(t *testing.T, floors int) *model.Envelope {
	t.Helper()
	c := massing.DetachedConfig{
		CFA:         1250 * float64(floors),
		WallHeight:  8,
		NumFloors:   floors,
		AspectRatio: 2,
		Roof:        massing.Roof{Type: massing.RoofFlat},
	}
	b := model.New("plan")
	if err := c.Build(b, diag.Nop{}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	env, err := model.Finalize(b)
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return env
}

func floorCount(e *model.Envelope) int {
	n := 0
	for _, s := range e.Surfaces() {
		if s.Kind == model.KindFloor {
			n++
		}
	}
	return n
}

func TestPlanFloors(t *testing.T) {
	env := envelope(t, 2)
	fc := Plan(env, PlanOptions{})

	if len(fc.Features) != floorCount(env) {
		t.Fatalf("features = %d, want %d", len(fc.Features), floorCount(env))
	}
	for _, f := range fc.Features {
		poly, ok := f.Geometry.(orb.Polygon)
		if !ok {
			t.Fatalf("geometry = %T, want orb.Polygon", f.Geometry)
		}
		r := poly[0]
		if !r.Closed() {
			t.Error("ring should be closed")
		}
		if r.Orientation() != orb.CCW {
			t.Error("ring should be counter-clockwise")
		}
		if f.Properties["kind"] != "floor" {
			t.Errorf("kind = %v, want floor", f.Properties["kind"])
		}
	}
}

func TestPlanElevation(t *testing.T) {
	env := envelope(t, 2)
	tests := []struct {
		z    float64
		want int
	}{
		{0, 1},
		{8, 1},
		{100, 0},
	}
	for _, tt := range tests {
		z := tt.z
		if got := len(Plan(env, PlanOptions{Elevation: &z}).Features); got != tt.want {
			t.Errorf("Plan(z=%v) features = %d, want %d", tt.z, got, tt.want)
		}
	}
}

func TestPlanMetric(t *testing.T) {
	env := envelope(t, 1)
	ft := Plan(env, PlanOptions{}).Features[0].Properties["area"].(float64)
	m := Plan(env, PlanOptions{Metric: true}).Features[0].Properties["area"].(float64)
	if math.Abs(ft-1250) > 1e-6 {
		t.Errorf("area = %v ft2, want 1250", ft)
	}
	if math.Abs(m-1250*0.09290304) > 1e-6 {
		t.Errorf("area = %v m2, want %v", m, 1250*0.09290304)
	}
}

func TestPlanOpenings(t *testing.T) {
	env := envelope(t, 1)
	if err := fenestration.AddDoor(env, 20, diag.Nop{}); err != nil {
		t.Fatal(err)
	}
	var doors int
	for _, f := range Plan(env, PlanOptions{}).Features {
		if f.Properties["kind"] != "Door" {
			continue
		}
		doors++
		if _, ok := f.Geometry.(orb.LineString); !ok {
			t.Errorf("door geometry = %T, want orb.LineString", f.Geometry)
		}
		if f.Properties["facade"] != "front" {
			t.Errorf("door facade = %v, want front", f.Properties["facade"])
		}
	}
	if doors != 1 {
		t.Errorf("doors = %d, want 1", doors)
	}
}

func TestPlanJSON(t *testing.T) {
	data, err := PlanJSON(envelope(t, 1), PlanOptions{})
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Type != "FeatureCollection" {
		t.Errorf("type = %q, want FeatureCollection", doc.Type)
	}
}

func TestAdjacencyDOT(t *testing.T) {
	env := envelope(t, 2)
	dot := AdjacencyDOT(env, DOTOptions{})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Errorf("DOT should start with graph G, got %q", dot[:20])
	}
	for _, sp := range env.Spaces() {
		if !strings.Contains(dot, `"`+sp.ID+`"`) {
			t.Errorf("DOT missing space %s", sp.Name)
		}
	}
	if !strings.Contains(dot, `"Outdoors" [shape=ellipse`) {
		t.Error("DOT missing Outdoors boundary node")
	}
	if dot != AdjacencyDOT(env, DOTOptions{}) {
		t.Error("AdjacencyDOT should be deterministic")
	}
	if strings.Contains(dot, "ft2") {
		t.Error("plain DOT should not label edges")
	}
	if !strings.Contains(AdjacencyDOT(env, DOTOptions{Detailed: true}), "ft2") {
		t.Error("detailed DOT should label edges with areas")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), AdjacencyDOT(envelope(t, 1), DOTOptions{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output should contain an svg element")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" viewBox="0.00 0.00 120.25 80.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120.25 80.00" width="120" height="80"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %s, want %s", out, want)
	}
}
