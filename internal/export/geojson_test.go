package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/cadexport/internal/geo"
)

func renderGeoJSON(t *testing.T, doc *GeoJSONDocument) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	return buf.Bytes()
}

func TestEncodeGeoJSON_Parcel(t *testing.T) {
	f := newFeature(t, "POLYGON", parcelCoordinates)
	f.Properties = map[string]any{"name": "Участок №1"}

	doc, err := EncodeGeoJSON(&f, Options{})
	require.NoError(t, err)

	data := renderGeoJSON(t, doc)
	assert.Contains(t, string(data), "Участок №1", "non-ASCII text is written unescaped")
	assert.Contains(t, string(data), "\n    \"type\": \"Feature\"", "4-space indentation")

	var out geo.GeoJSONFeature
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Feature", out.Type)
	assert.Equal(t, "Участок №1", out.Properties["name"])
	require.NotNil(t, out.CRS)
	assert.Equal(t, "name", out.CRS.Type)
	assert.Equal(t, geo.DefaultCRS, out.CRS.Properties.Name)

	require.NotNil(t, out.Geometry)
	assert.Equal(t, "MultiPolygon", out.Geometry.Type)
	assert.Equal(t,
		orb.MultiPolygon{{{{30.1, 50.2}, {30.3, 50.2}, {30.3, 50.4}, {30.1, 50.2}}}},
		out.Geometry.Coordinates)
}

func TestEncodeGeoJSON_ClosesEveryRing(t *testing.T) {
	f := newFeature(t, "POLYGON", `[
		[[[0,0],[4,0],[4,4]], [[1,1],[2,1],[2,2],[1,1]]],
		[[[10,10],[11,10],[11,11]]]
	]`)

	doc, err := EncodeGeoJSON(&f, Options{})
	require.NoError(t, err)

	feature := doc.Object.(*geo.GeoJSONFeature)
	mp := feature.Geometry.Coordinates.(orb.MultiPolygon)
	require.Len(t, mp, 2)

	for _, polygon := range mp {
		for _, ring := range polygon {
			assert.Equal(t, ring[0], ring[len(ring)-1])
		}
	}
	assert.Len(t, mp[0][0], 4, "open ring gains one point")
	assert.Len(t, mp[0][1], 4, "closed ring is not closed twice")
}

func TestEncodeGeoJSON_Attrs(t *testing.T) {
	f := newFeature(t, "POLYGON", parcelCoordinates)
	f.Attrs = map[string]any{"area": 1200}

	doc, err := EncodeGeoJSON(&f, Options{CRSName: "EPSG:3857"})
	require.NoError(t, err)
	feature := doc.Object.(*geo.GeoJSONFeature)
	assert.Equal(t, map[string]any{"area": 1200}, feature.Properties)
	assert.Equal(t, "EPSG:3857", feature.CRS.Properties.Name)

	doc, err = EncodeGeoJSON(&f, Options{OmitAttrs: true})
	require.NoError(t, err)
	assert.Empty(t, doc.Object.(*geo.GeoJSONFeature).Properties)
	assert.Contains(t, string(renderGeoJSON(t, doc)), `"properties": {}`)

	noAttrs := newFeature(t, "POLYGON", parcelCoordinates)
	doc, err = EncodeGeoJSON(&noAttrs, Options{})
	require.NoError(t, err)
	assert.NotNil(t, doc.Object.(*geo.GeoJSONFeature).Properties)
}

func TestEncodeGeoJSON_Points(t *testing.T) {
	f := newFeature(t, "point", `[[[[30.1,50.2],[30.3,50.4]]],[[[31,51]]]]`)

	doc, err := EncodeGeoJSON(&f, Options{})
	require.NoError(t, err)
	assert.Equal(t, "FeatureCollection", doc.Object.GeoJSONType())

	var out map[string]any
	require.NoError(t, json.Unmarshal(renderGeoJSON(t, doc), &out))
	assert.Equal(t, "FeatureCollection", out["type"])
	assert.NotNil(t, out["crs"])

	features := out["features"].([]any)
	require.Len(t, features, 3)
	first := features[0].(map[string]any)
	assert.Equal(t, map[string]any{"hole": false}, first["properties"])
	assert.Equal(t, map[string]any{
		"type":        "Point",
		"coordinates": []any{30.1, 50.2},
	}, first["geometry"])
}

func TestEncodeGeoJSON_Errors(t *testing.T) {
	empty := newFeature(t, "POLYGON", "")
	_, err := EncodeGeoJSON(&empty, Options{})
	assert.True(t, errors.Is(err, ErrEmptyGeometry))

	line := newFeature(t, "LineString", parcelCoordinates)
	_, err = EncodeGeoJSON(&line, Options{})
	var encErr *EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.True(t, errors.Is(err, ErrUnsupportedGeometry))
	assert.True(t, strings.Contains(err.Error(), "LineString"))
}

func TestEncodeGeoJSONPolygon_IgnoresKind(t *testing.T) {
	f := newFeature(t, "POINT", parcelCoordinates)

	feature, err := EncodeGeoJSONPolygon(&f, Options{})
	require.NoError(t, err)
	assert.Equal(t, "MultiPolygon", feature.Geometry.Type)
}
