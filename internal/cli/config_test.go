package cli

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/massform/pkg/errors"
	"github.com/matzehuels/massform/pkg/geom"
	"github.com/matzehuels/massform/pkg/massing"
)

const ranchConfig = `
name = "ranch"
orientation = 90
door_area = 20

[detached]
cfa = 1800
wall_height = 8
num_floors = 1
aspect_ratio = 1.5
attic = "vented"
foundation = { type = "crawlspace-vented", height = 3 }
roof = { type = "gable", pitch = "6:12" }

[windows]
wwr = { front = 0.18, back = 0.18 }
area = { left = 20 }

[skylights]
area = { front = 10 }
`

func TestParseConfig(t *testing.T) {
	opts, err := parseConfig([]byte(ranchConfig))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if opts.Name != "ranch" {
		t.Errorf("Name = %q, want ranch", opts.Name)
	}
	if opts.Orientation == nil || *opts.Orientation != 90 {
		t.Errorf("Orientation = %v, want 90", opts.Orientation)
	}
	if opts.Door == nil || *opts.Door != 20 {
		t.Errorf("Door = %v, want 20", opts.Door)
	}

	d := opts.Building.Detached
	if d == nil {
		t.Fatal("Detached = nil")
	}
	if opts.Building.Attached != nil || opts.Building.Multifamily != nil {
		t.Error("more than one building set")
	}
	if d.CFA != 1800 || d.NumFloors != 1 || d.AspectRatio != 1.5 {
		t.Errorf("Detached = %+v", d)
	}
	if d.Foundation.Type != massing.FoundationCrawlspaceVented || d.Foundation.Height != 3 {
		t.Errorf("Foundation = %+v", d.Foundation)
	}
	if d.Roof.Type != massing.RoofGable || d.Roof.Pitch != 0.5 {
		t.Errorf("Roof = %+v, want gable 0.5", d.Roof)
	}

	if got := opts.Windows.WWR[geom.FacadeFront]; got != 0.18 {
		t.Errorf("front WWR = %v, want 0.18", got)
	}
	if got := opts.Windows.Area[geom.FacadeLeft]; got != 20 {
		t.Errorf("left window area = %v, want 20", got)
	}
	if got := opts.Skylights.Area[geom.FacadeFront]; got != 10 {
		t.Errorf("front skylight area = %v, want 10", got)
	}
}

func TestParseConfigSI(t *testing.T) {
	opts, err := parseConfig([]byte(`
units = "SI"
door_area = 2

[multifamily]
cfa = 80
wall_height = 2.5
num_floors = 3
num_units = 12
aspect_ratio = 1.2
level = "top"
corridor = { position = "double-loaded-interior", width = 2 }
`))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	m := opts.Building.Multifamily
	if m == nil {
		t.Fatal("Multifamily = nil")
	}
	approx := func(name string, got, want float64) {
		t.Helper()
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	approx("CFA", m.CFA, 80/0.09290304)
	approx("WallHeight", m.WallHeight, 2.5/0.3048)
	approx("Corridor.Width", m.Corridor.Width, 2/0.3048)
	approx("Door", *opts.Door, 2/0.09290304)
	if m.Level == nil || *m.Level != massing.LevelTop {
		t.Errorf("Level = %v, want top", m.Level)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"unknown key", "[detached]\ncfa = 1\ncolour = \"red\"\n", errors.ErrCodeInvalidConfig},
		{"bad units", "units = \"imperial\"\n", errors.ErrCodeInvalidUnit},
		{"bad facade", "[windows]\nwwr = { top = 0.2 }\n", ""},
		{"facade none", "[skylights]\narea = { none = 5 }\n", errors.ErrCodeInvalidConfig},
		{"bad pitch", "[detached]\nroof = { type = \"gable\", pitch = \"steep\" }\n", ""},
		{"bad enum", "[detached]\nattic = \"loft\"\n", ""},
		{"bad toml", "[detached\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig([]byte(tt.data))
			if err == nil {
				t.Fatal("parseConfig() error = nil")
			}
			if tt.code != "" && !errors.Is(err, tt.code) {
				t.Errorf("code = %q, want %q", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bungalow.toml")
	data := "[detached]\ncfa = 1000\nwall_height = 8\nnum_floors = 1\naspect_ratio = 1\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if opts.Name != "bungalow" {
		t.Errorf("Name = %q, want file name", opts.Name)
	}

	_, err = loadConfig(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ranch.toml", "ranch"},
		{"/a/b/duplex.json", "duplex"},
		{"noext", "noext"},
		{"dir/two.dots.toml", "two.dots"},
	}
	for _, tt := range tests {
		if got := baseName(tt.in); got != tt.want {
			t.Errorf("baseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
