package export

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/paulmach/orb"

	"github.com/woozymasta/cadexport/internal/geo"
)

const (
	// KMLNamespace is the OGC KML 2.2 namespace.
	KMLNamespace = "http://www.opengis.net/kml/2.2"

	kmlLineColor = "ff0000ff"
	kmlPolyFill  = "0"
)

// KMLDocument is the root <kml> element.
type KMLDocument struct {
	XMLName  xml.Name   `xml:"kml"`
	Xmlns    string     `xml:"xmlns,attr"`
	Document KMLDocBody `xml:"Document"`
}

// KMLDocBody is the <Document> element.
type KMLDocBody struct {
	Folder KMLFolder `xml:"Folder"`
}

// KMLFolder groups the placemark under the feature name.
type KMLFolder struct {
	Name      string       `xml:"name"`
	Placemark KMLPlacemark `xml:"Placemark"`
}

// KMLPlacemark holds the outline style and the geometry.
type KMLPlacemark struct {
	Style         KMLStyle         `xml:"Style"`
	MultiGeometry KMLMultiGeometry `xml:"MultiGeometry"`
}

// KMLStyle draws a red outline without fill.
type KMLStyle struct {
	LineColor string `xml:"LineStyle>color"`
	PolyFill  string `xml:"PolyStyle>fill"`
}

// KMLMultiGeometry holds one Polygon per polygon of the feature.
type KMLMultiGeometry struct {
	Polygons []KMLPolygon `xml:"Polygon"`
}

// KMLPolygon is an outer boundary plus holes.
type KMLPolygon struct {
	Outer KMLBoundary   `xml:"outerBoundaryIs"`
	Inner []KMLBoundary `xml:"innerBoundaryIs"`
}

// KMLBoundary wraps one LinearRing.
type KMLBoundary struct {
	Coordinates string `xml:"LinearRing>coordinates"`
}

// Format implements Document.
func (d *KMLDocument) Format() Format { return FormatKML }

// Encode writes the XML declaration and the indented element tree.
func (d *KMLDocument) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")
	return err
}

// EncodeKML builds the KML tree; ring 0 of each polygon is the outer boundary.
func EncodeKML(f *geo.Feature, opts Options) (*KMLDocument, error) {
	coords := geo.Normalize(f.Geometry, opts.SwapAxes)
	if coords.Empty() {
		return nil, emptyOrMalformed(FormatKML, featureName(f), coords.Skipped)
	}

	polygons := make([]KMLPolygon, 0, len(coords.MultiPolygon))
	for _, polygon := range coords.MultiPolygon {
		p := KMLPolygon{Outer: KMLBoundary{Coordinates: kmlCoordinates(polygon[0])}}
		for _, hole := range polygon[1:] {
			p.Inner = append(p.Inner, KMLBoundary{Coordinates: kmlCoordinates(hole)})
		}
		polygons = append(polygons, p)
	}

	return &KMLDocument{
		Xmlns: KMLNamespace,
		Document: KMLDocBody{
			Folder: KMLFolder{
				Name: f.DisplayName(),
				Placemark: KMLPlacemark{
					Style:         KMLStyle{LineColor: kmlLineColor, PolyFill: kmlPolyFill},
					MultiGeometry: KMLMultiGeometry{Polygons: polygons},
				},
			},
		},
	}, nil
}

// kmlCoordinates renders a closed ring as "x,y x,y ...".
func kmlCoordinates(r orb.Ring) string {
	closed := geo.CloseRing(r)

	var b strings.Builder
	for i, p := range closed {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatFloat(p[0]))
		b.WriteByte(',')
		b.WriteString(formatFloat(p[1]))
	}

	return b.String()
}
