package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/woozymasta/cadexport/internal/geo"
)

// Format identifies an export format. Its value doubles as the file extension
// and the default output subdirectory.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatGeoJSON Format = "geojson"
	FormatKML     Format = "kml"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatGeoJSON, FormatKML}

// ParseFormat parses a case-insensitive format name. "json" is accepted for GeoJSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "geojson", "json":
		return FormatGeoJSON, nil
	case "kml":
		return FormatKML, nil
	}

	return "", fmt.Errorf("unknown export format %q", s)
}

// Extension returns the file extension without the leading dot.
func (f Format) Extension() string { return string(f) }

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatGeoJSON:
		return "application/geo+json"
	case FormatKML:
		return "application/vnd.google-earth.kml+xml"
	}

	return "application/octet-stream"
}

// Options control encoding.
type Options struct {
	// CRSName is written into GeoJSON crs members; empty means geo.DefaultCRS.
	CRSName string

	// SwapAxes writes every point as (y, x).
	SwapAxes bool

	// OmitAttrs writes empty GeoJSON properties instead of feature attributes.
	OmitAttrs bool
}

func (o Options) crs() *geo.CRS {
	return geo.NewNamedCRS(o.CRSName)
}

// Document is an encoded export ready to be serialized.
type Document interface {
	Format() Format
	Encode(w io.Writer) error
}

// Encode builds the single-feature document of the requested format.
func Encode(format Format, f *geo.Feature, opts Options) (Document, error) {
	switch format {
	case FormatCSV:
		return asDocument(EncodeCSV(f, opts))
	case FormatGeoJSON:
		return asDocument(EncodeGeoJSON(f, opts))
	case FormatKML:
		return asDocument(EncodeKML(f, opts))
	}

	return nil, fmt.Errorf("unknown export format %q", format)
}

// asDocument keeps a failed encode from returning a non-nil interface around a nil pointer.
func asDocument[T Document](doc T, err error) (Document, error) {
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// EncodeBatch merges features into one document. KML has no batch form.
func EncodeBatch(format Format, features []geo.Feature, opts Options) (Document, BatchStats, error) {
	switch format {
	case FormatCSV:
		return BatchCSV(features, opts)
	case FormatGeoJSON:
		return BatchGeoJSON(features, opts)
	}

	return nil, BatchStats{}, fmt.Errorf("batch export is not supported for %q", format)
}

// featureName is used to label errors and log entries.
func featureName(f *geo.Feature) string {
	if name := f.LogicalName(); name != "" {
		return name
	}

	return "<unnamed>"
}
