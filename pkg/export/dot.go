package export

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/massform/pkg/model"
	"github.com/matzehuels/massform/pkg/units"
)

// DOTOptions configures [AdjacencyDOT].
type DOTOptions struct {
	// Detailed adds surface counts and areas to edge labels and the zone
	// to space labels.
	Detailed bool
}

type edgeKey struct{ from, to string }

type edgeStat struct {
	count int
	area  float64
}

// AdjacencyDOT returns an undirected graph with a node per space and a
// node per outside boundary condition in use. Each edge aggregates the
// surfaces between two nodes.
func AdjacencyDOT(e *model.Envelope, opts DOTOptions) string {
	stats := map[edgeKey]*edgeStat{}
	add := func(k edgeKey, area float64) {
		st := stats[k]
		if st == nil {
			st = &edgeStat{}
			stats[k] = st
		}
		st.count++
		st.area += area
	}
	boundaries := map[string]bool{}

	for _, s := range e.Surfaces() {
		if s.Boundary != model.InteriorAdjacent {
			b := s.Boundary.String()
			boundaries[b] = true
			add(edgeKey{s.SpaceID, b}, s.Area())
			continue
		}
		o := e.Surface(s.Adjacent)
		// Each link is seen from both sides; count it once.
		if o == nil || s.ID > o.ID {
			continue
		}
		from, to := s.SpaceID, o.SpaceID
		if from > to {
			from, to = to, from
		}
		add(edgeKey{from, to}, s.Area())
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, sp := range e.Spaces() {
		label := sp.Name
		if opts.Detailed {
			label = fmt.Sprintf("%s\n%s\nzone: %s", sp.Name, sp.Role, e.ZoneOf(sp).Name)
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if e.IsConditioned(sp) {
			attrs = append(attrs, "fillcolor=\"#fde3c8\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", sp.ID, strings.Join(attrs, ", "))
	}
	for _, b := range slices.Sorted(maps.Keys(boundaries)) {
		fmt.Fprintf(&buf, "  %q [shape=ellipse, style=dashed];\n", b)
	}

	buf.WriteString("\n")
	keys := make([]edgeKey, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b edgeKey) int {
		if c := strings.Compare(a.from, b.from); c != 0 {
			return c
		}
		return strings.Compare(a.to, b.to)
	})
	for _, k := range keys {
		st := stats[k]
		if opts.Detailed {
			label := fmt.Sprintf("%d, %s ft2", st.count, units.Format(st.area, 1))
			fmt.Fprintf(&buf, "  %q -- %q [label=%q];\n", k.from, k.to, label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", k.from, k.to)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out a DOT graph with Graphviz and returns the SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element to a zero-origin viewBox so
// the SVG scales when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
