package geo

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeCoordinates(t *testing.T, raw string) any {
	t.Helper()

	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestNormalize_Absent(t *testing.T) {
	tests := []struct {
		name string
		geom *Geometry
	}{
		{"nil geometry", nil},
		{"nil coordinates", &Geometry{Type: "Polygon"}},
		{"empty list", &Geometry{Coordinates: []any{}}},
		{"empty nested lists", &Geometry{Coordinates: []any{[]any{[]any{}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Normalize(tt.geom, false)
			assert.True(t, c.Empty())
			assert.Zero(t, c.Skipped)
			assert.Zero(t, c.PointCount())
		})
	}
}

func TestNormalize_MultiPolygon(t *testing.T) {
	g := &Geometry{
		Type: "POLYGON",
		Coordinates: decodeCoordinates(t, `[
			[[[0,0],[10,0],[10,10],[0,0]], [[2,2],[3,2],[3,3]]],
			[[[20,20],[21,20],[21,21]]]
		]`),
	}

	c := Normalize(g, false)
	require.Len(t, c.MultiPolygon, 2)
	require.Len(t, c.MultiPolygon[0], 2)
	assert.Equal(t, orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 0}}, c.MultiPolygon[0][0])
	assert.Equal(t, orb.Ring{{2, 2}, {3, 2}, {3, 3}}, c.MultiPolygon[0][1])
	assert.Equal(t, 10, c.PointCount())
	assert.Zero(t, c.Skipped)
}

func TestNormalize_LiftsShallowTrees(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		points int
	}{
		{"polygon", `[[[1,2],[3,4],[5,6]]]`, 3},
		{"ring", `[[1,2],[3,4]]`, 2},
		{"point", `[1,2]`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Normalize(&Geometry{Coordinates: decodeCoordinates(t, tt.raw)}, false)
			require.Len(t, c.MultiPolygon, 1)
			require.Len(t, c.MultiPolygon[0], 1)
			assert.Equal(t, tt.points, c.PointCount())
			assert.Equal(t, orb.Point{1, 2}, c.MultiPolygon[0][0][0])
		})
	}
}

func TestNormalize_SkipsMalformed(t *testing.T) {
	g := &Geometry{Coordinates: decodeCoordinates(t, `[
		[[[1,2],[3],"x",[5,6],[7,"y"]], 42],
		"junk"
	]`)}

	c := Normalize(g, false)
	require.Len(t, c.MultiPolygon, 1)
	assert.Equal(t, orb.Ring{{1, 2}, {5, 6}}, c.MultiPolygon[0][0])
	// [3], "x", [7,"y"], 42, "junk"
	assert.Equal(t, 5, c.Skipped)
}

func TestNormalize_LeadingEmptyLists(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty leading polygon", `[[], [[[30.1,50.2],[30.3,50.2],[30.3,50.4]]]]`},
		{"empty leading ring", `[[[], [[30.1,50.2],[30.3,50.2],[30.3,50.4]]]]`},
		{"empty leading ring in polygon", `[[], [[30.1,50.2],[30.3,50.2],[30.3,50.4]]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Normalize(&Geometry{Coordinates: decodeCoordinates(t, tt.raw)}, false)
			require.Len(t, c.MultiPolygon, 1)
			require.Len(t, c.MultiPolygon[0], 1)
			assert.Equal(t, orb.Ring{{30.1, 50.2}, {30.3, 50.2}, {30.3, 50.4}}, c.MultiPolygon[0][0])
			assert.Zero(t, c.Skipped)
		})
	}
}

func TestNormalize_AllMalformed(t *testing.T) {
	c := Normalize(&Geometry{Coordinates: decodeCoordinates(t, `[[[["a","b"],[1]]]]`)}, false)
	assert.True(t, c.Empty())
	assert.Equal(t, 2, c.Skipped)
}

func TestNormalize_NumericTypes(t *testing.T) {
	raw := []any{[]any{[]any{
		[]any{int(30), float32(50.5)},
		[]any{int64(31), uint64(51)},
		[]any{json.Number("32.25"), 52.0},
		[]any{1.0, 2.0, 150.0},
	}}}

	c := Normalize(&Geometry{Coordinates: raw}, false)
	assert.Equal(t, orb.Ring{{30, 50.5}, {31, 51}, {32.25, 52}, {1, 2}}, c.MultiPolygon[0][0])
}

func TestNormalize_SwapDoesNotMutateInput(t *testing.T) {
	raw := decodeCoordinates(t, `[[[[30.1,50.2],[30.3,50.4]]]]`)
	g := &Geometry{Coordinates: raw}

	swapped := Normalize(g, true)
	assert.Equal(t, orb.Ring{{50.2, 30.1}, {50.4, 30.3}}, swapped.MultiPolygon[0][0])

	plain := Normalize(g, false)
	assert.Equal(t, orb.Ring{{30.1, 50.2}, {30.3, 50.4}}, plain.MultiPolygon[0][0])
}

func TestNormalize_OrbInputIsCopied(t *testing.T) {
	mp := orb.MultiPolygon{{{{1, 2}, {3, 4}}, {}}}

	c := Normalize(&Geometry{Coordinates: mp}, true)
	assert.Equal(t, orb.MultiPolygon{{{{2, 1}, {4, 3}}}}, c.MultiPolygon)
	assert.Equal(t, orb.Point{1, 2}, mp[0][0][0])
}

func TestCloseRing(t *testing.T) {
	open := orb.Ring{{0, 0}, {1, 0}, {1, 1}}

	closed := CloseRing(open)
	assert.Equal(t, orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, closed)
	assert.Len(t, open, 3, "input ring must not grow")

	again := CloseRing(closed)
	assert.Equal(t, closed, again, "closing a closed ring is idempotent")

	assert.Equal(t, orb.Ring{{5, 5}, {5, 5}}, CloseRing(orb.Ring{{5, 5}}))
	assert.Empty(t, CloseRing(nil))
}

func TestClosePolygons(t *testing.T) {
	mp := orb.MultiPolygon{
		{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, {{0.2, 0.2}, {0.3, 0.2}, {0.3, 0.3}}},
	}

	closed := ClosePolygons(mp)
	for _, polygon := range closed {
		for _, ring := range polygon {
			assert.Equal(t, ring[0], ring[len(ring)-1])
		}
	}
	assert.Len(t, closed[0][0], 4)
	assert.Len(t, closed[0][1], 4)
	assert.Len(t, mp[0][1], 3)
}
