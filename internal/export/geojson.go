package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/woozymasta/cadexport/internal/geo"
)

// GeoJSONDocument wraps a Feature or a FeatureCollection.
type GeoJSONDocument struct {
	Object geo.GeoJSONObject
}

// Format implements Document.
func (d *GeoJSONDocument) Format() Format { return FormatGeoJSON }

// Encode writes the object with 4-space indentation and unescaped non-ASCII text.
func (d *GeoJSONDocument) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")

	return enc.Encode(d.Object)
}

// EncodeGeoJSON builds a MultiPolygon Feature, or a FeatureCollection of Point
// features when the geometry type is POINT.
func EncodeGeoJSON(f *geo.Feature, opts Options) (*GeoJSONDocument, error) {
	coords := geo.Normalize(f.Geometry, opts.SwapAxes)
	if coords.Empty() {
		return nil, emptyOrMalformed(FormatGeoJSON, featureName(f), coords.Skipped)
	}

	switch f.Kind() {
	case "POINT":
		return &GeoJSONDocument{Object: pointCollection(coords.MultiPolygon, opts)}, nil
	case "", "POLYGON", "MULTIPOLYGON":
		return &GeoJSONDocument{Object: polygonFeature(f, coords.MultiPolygon, opts)}, nil
	}

	return nil, NewEncodingError(FormatGeoJSON, featureName(f),
		fmt.Errorf("%w: %s", ErrUnsupportedGeometry, f.Geometry.Type))
}

// EncodeGeoJSONPolygon always builds the MultiPolygon Feature, whatever the geometry type.
func EncodeGeoJSONPolygon(f *geo.Feature, opts Options) (*geo.GeoJSONFeature, error) {
	coords := geo.Normalize(f.Geometry, opts.SwapAxes)
	if coords.Empty() {
		return nil, emptyOrMalformed(FormatGeoJSON, featureName(f), coords.Skipped)
	}

	return polygonFeature(f, coords.MultiPolygon, opts), nil
}

func polygonFeature(f *geo.Feature, mp orb.MultiPolygon, opts Options) *geo.GeoJSONFeature {
	properties := map[string]any{}
	if !opts.OmitAttrs && f.Attributes() != nil {
		properties = f.Attributes()
	}

	return &geo.GeoJSONFeature{
		Type:       "Feature",
		Properties: properties,
		Geometry:   geojson.NewGeometry(geo.ClosePolygons(mp)),
		CRS:        opts.crs(),
	}
}

func pointCollection(mp orb.MultiPolygon, opts Options) *geo.GeoJSONFeatureCollection {
	points := appendRows(nil, mp)

	fc := geo.NewFeatureCollection(opts.crs(), len(points))
	for _, p := range points {
		fc.Features = append(fc.Features, &geo.GeoJSONFeature{
			Type:       "Feature",
			Properties: map[string]any{"hole": false},
			Geometry:   geojson.NewGeometry(p),
		})
	}

	return fc
}
