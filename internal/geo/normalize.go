package geo

import (
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

// Coordinates is the normalized coordinate tree of a feature.
type Coordinates struct {
	MultiPolygon orb.MultiPolygon

	// Skipped counts elements dropped because they were not coordinate pair lists.
	Skipped int
}

// Empty reports whether no usable ring was found.
func (c Coordinates) Empty() bool {
	return len(c.MultiPolygon) == 0
}

// PointCount returns the number of points across all rings.
func (c Coordinates) PointCount() int {
	n := 0
	for _, polygon := range c.MultiPolygon {
		for _, ring := range polygon {
			n += len(ring)
		}
	}

	return n
}

// Normalize extracts the MultiPolygon stored under the geometry coordinates.
//
// Absent geometry or coordinates yield an empty result. Polygon, ring and point
// shaped trees are lifted into a MultiPolygon. When swap is set every point is
// written as (y, x). The input is never modified.
func Normalize(g *Geometry, swap bool) Coordinates {
	var c Coordinates
	if g == nil || g.Coordinates == nil {
		return c
	}

	switch v := g.Coordinates.(type) {
	case orb.MultiPolygon:
		c.MultiPolygon = dropEmpty(v.Clone())
	case orb.Polygon:
		c.MultiPolygon = dropEmpty(orb.MultiPolygon{v.Clone()})
	case orb.Ring:
		c.MultiPolygon = dropEmpty(orb.MultiPolygon{{v.Clone()}})
	case orb.Point:
		c.MultiPolygon = orb.MultiPolygon{{{v}}}
	default:
		items, ok := asList(v)
		if !ok {
			c.Skipped++
			break
		}
		if len(items) == 0 {
			break
		}

		switch nestingDepth(v) {
		case 1:
			c.MultiPolygon = c.multiPolygon([]any{[]any{[]any{v}}})
		case 2:
			c.MultiPolygon = c.multiPolygon([]any{[]any{v}})
		case 3:
			c.MultiPolygon = c.multiPolygon([]any{v})
		default:
			c.MultiPolygon = c.multiPolygon(items)
		}
	}

	if swap {
		SwapAxes(c.MultiPolygon)
	}

	if c.Skipped > 0 {
		log.Debug().
			Int("skipped", c.Skipped).
			Int("points", c.PointCount()).
			Msg("Skipped malformed coordinate elements")
	}

	return c
}

func (c *Coordinates) multiPolygon(items []any) orb.MultiPolygon {
	mp := make(orb.MultiPolygon, 0, len(items))
	for _, item := range items {
		rings, ok := asList(item)
		if !ok {
			c.Skipped++
			continue
		}

		polygon := make(orb.Polygon, 0, len(rings))
		for _, r := range rings {
			points, ok := asList(r)
			if !ok {
				c.Skipped++
				continue
			}

			ring := make(orb.Ring, 0, len(points))
			for _, p := range points {
				point, ok := asPoint(p)
				if !ok {
					c.Skipped++
					continue
				}
				ring = append(ring, point)
			}

			if len(ring) > 0 {
				polygon = append(polygon, ring)
			}
		}

		if len(polygon) > 0 {
			mp = append(mp, polygon)
		}
	}

	return mp
}

// SwapAxes swaps x and y of every point in place. Callers pass a copy they own.
func SwapAxes(mp orb.MultiPolygon) {
	for _, polygon := range mp {
		for _, ring := range polygon {
			for i := range ring {
				ring[i] = orb.Point{ring[i][1], ring[i][0]}
			}
		}
	}
}

// CloseRing returns a copy of r whose last point equals its first.
// An already closed ring is copied unchanged.
func CloseRing(r orb.Ring) orb.Ring {
	if len(r) == 0 {
		return orb.Ring{}
	}

	closed := make(orb.Ring, len(r), len(r)+1)
	copy(closed, r)
	if len(r) > 1 && r[0] == r[len(r)-1] {
		return closed
	}

	return append(closed, r[0])
}

// ClosePolygons returns a copy of mp with every ring closed.
func ClosePolygons(mp orb.MultiPolygon) orb.MultiPolygon {
	out := make(orb.MultiPolygon, 0, len(mp))
	for _, polygon := range mp {
		p := make(orb.Polygon, 0, len(polygon))
		for _, ring := range polygon {
			p = append(p, CloseRing(ring))
		}
		out = append(out, p)
	}

	return out
}

func dropEmpty(mp orb.MultiPolygon) orb.MultiPolygon {
	out := make(orb.MultiPolygon, 0, len(mp))
	for _, polygon := range mp {
		p := make(orb.Polygon, 0, len(polygon))
		for _, ring := range polygon {
			if len(ring) > 0 {
				p = append(p, ring)
			}
		}
		if len(p) > 0 {
			out = append(out, p)
		}
	}

	return out
}

// nestingDepth returns how many list levels lead to the first scalar.
// Empty lists are passed over so a leading empty ring or polygon does not
// decide the shape of the whole tree.
func nestingDepth(v any) int {
	items, ok := asList(v)
	if !ok {
		return 0
	}

	hasList := false
	for _, item := range items {
		inner, isList := asList(item)
		if !isList {
			continue
		}
		if len(inner) > 0 {
			return 1 + nestingDepth(item)
		}
		hasList = true
	}

	if hasList {
		return 2
	}

	return 1
}

func asList(v any) ([]any, bool) {
	switch items := v.(type) {
	case []any:
		return items, true
	case []float64:
		out := make([]any, len(items))
		for i, f := range items {
			out[i] = f
		}
		return out, true
	}

	return nil, false
}

func asPoint(v any) (orb.Point, bool) {
	items, ok := asList(v)
	if !ok || len(items) < 2 {
		return orb.Point{}, false
	}

	x, ok := asFloat(items[0])
	if !ok {
		return orb.Point{}, false
	}
	y, ok := asFloat(items[1])
	if !ok {
		return orb.Point{}, false
	}

	return orb.Point{x, y}, true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}

	return 0, false
}
