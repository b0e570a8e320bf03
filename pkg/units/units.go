// Package units converts lengths, areas, volumes and angles between the
// imperial units massform computes in and the SI units configs may use.
package units

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/massform/pkg/errors"
)

type dimension int

const (
	dimLength dimension = iota
	dimArea
	dimVolume
	dimAngle
)

type unit struct {
	dim    dimension
	factor float64 // multiples of the dimension's base unit (m, m^2, m^3, rad)
}

var table = map[string]unit{
	"ft": {dimLength, 0.3048},
	"in": {dimLength, 0.0254},
	"m":  {dimLength, 1},
	"cm": {dimLength, 0.01},
	"mm": {dimLength, 0.001},

	"ft^2": {dimArea, 0.3048 * 0.3048},
	"in^2": {dimArea, 0.0254 * 0.0254},
	"m^2":  {dimArea, 1},
	"cm^2": {dimArea, 1e-4},

	"ft^3": {dimVolume, 0.3048 * 0.3048 * 0.3048},
	"m^3":  {dimVolume, 1},
	"gal":  {dimVolume, 0.003785411784},

	"deg": {dimAngle, math.Pi / 180},
	"rad": {dimAngle, 1},
}

// Convert expresses value, given in unit from, in unit to.
// Unit names are case-insensitive; "ft2" and "ft^2" are equivalent.
func Convert(value float64, from, to string) (float64, error) {
	f, ok := lookup(from)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidUnit, "unknown unit %q", from)
	}
	t, ok := lookup(to)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidUnit, "unknown unit %q", to)
	}
	if f.dim != t.dim {
		return 0, errors.New(errors.ErrCodeInvalidUnit, "cannot convert %s to %s", from, to)
	}
	if f.factor == t.factor {
		return value, nil
	}
	return value * f.factor / t.factor, nil
}

// MustConvert is Convert for unit pairs known at compile time.
func MustConvert(value float64, from, to string) float64 {
	v, err := Convert(value, from, to)
	if err != nil {
		panic(err)
	}
	return v
}

// Format rounds v to places decimals and prints the shortest form that
// keeps one decimal: 0.5, 0.417, 1.0. Diagnostics print quantities this way.
func Format(v float64, places int) string {
	p := math.Pow(10, float64(places))
	s := strconv.FormatFloat(math.Round(v*p)/p, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func lookup(name string) (unit, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if u, ok := table[n]; ok {
		return u, true
	}
	// ft2, m3
	if len(n) > 1 {
		last := n[len(n)-1]
		if last == '2' || last == '3' {
			u, ok := table[n[:len(n)-1]+"^"+string(last)]
			return u, ok
		}
	}
	return unit{}, false
}
