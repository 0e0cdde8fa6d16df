// Package geo handles cadastral features, their coordinate trees and GeoJSON structures.
package geo

import (
	"github.com/paulmach/orb/geojson"
)

// DefaultCRS is the coordinate reference system name written when none is configured.
const DefaultCRS = "EPSG:4326"

// GeoJSONObject is either a single feature or a feature collection.
type GeoJSONObject interface {
	GeoJSONType() string
}

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure with a named CRS member.
type GeoJSONFeatureCollection struct {
	Type     string            `json:"type" yaml:"type"`
	CRS      *CRS              `json:"crs,omitempty" yaml:"crs,omitempty"`
	Features []*GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Type       string            `json:"type" yaml:"type"`
	Properties map[string]any    `json:"properties" yaml:"properties"`
	Geometry   *geojson.Geometry `json:"geometry" yaml:"-"`
	CRS        *CRS              `json:"crs,omitempty" yaml:"crs,omitempty"`
}

// CRS is a named coordinate reference system member.
type CRS struct {
	Type       string        `json:"type" yaml:"type"`
	Properties CRSProperties `json:"properties" yaml:"properties"`
}

// CRSProperties holds the CRS name.
type CRSProperties struct {
	Name string `json:"name" yaml:"name"`
}

// NewNamedCRS returns a "name" CRS, falling back to DefaultCRS for an empty name.
func NewNamedCRS(name string) *CRS {
	if name == "" {
		name = DefaultCRS
	}

	return &CRS{Type: "name", Properties: CRSProperties{Name: name}}
}

// NewFeatureCollection returns an empty collection with a non-nil features slice.
func NewFeatureCollection(crs *CRS, capacity int) *GeoJSONFeatureCollection {
	return &GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		CRS:      crs,
		Features: make([]*GeoJSONFeature, 0, capacity),
	}
}

// GeoJSONType implements GeoJSONObject.
func (fc *GeoJSONFeatureCollection) GeoJSONType() string { return fc.Type }

// GeoJSONType implements GeoJSONObject.
func (f *GeoJSONFeature) GeoJSONType() string { return f.Type }
