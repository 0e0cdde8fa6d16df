package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/woozymasta/cadexport/internal/geo"
)

// CSVHeader is written once at the top of every CSV export.
var CSVHeader = []string{"longitude", "latitude"}

// CSVHeaderSwapped names the columns of an export written with swapped axes.
var CSVHeaderSwapped = []string{"latitude", "longitude"}

// CSVDocument is a header plus one row per point.
type CSVDocument struct {
	Header []string // nil means CSVHeader
	Rows   []orb.Point
}

// Format implements Document.
func (d *CSVDocument) Format() Format { return FormatCSV }

// Encode writes the header and every row.
func (d *CSVDocument) Encode(w io.Writer) error {
	writer := csv.NewWriter(w)

	header := d.Header
	if header == nil {
		header = CSVHeader
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	row := make([]string, 2)
	for _, p := range d.Rows {
		row[0] = formatFloat(p[0])
		row[1] = formatFloat(p[1])
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// EncodeCSV emits one row per point of every ring of every polygon.
func EncodeCSV(f *geo.Feature, opts Options) (*CSVDocument, error) {
	coords := geo.Normalize(f.Geometry, opts.SwapAxes)
	if coords.Empty() {
		return nil, emptyOrMalformed(FormatCSV, featureName(f), coords.Skipped)
	}

	return &CSVDocument{
		Header: opts.csvHeader(),
		Rows:   appendRows(make([]orb.Point, 0, coords.PointCount()), coords.MultiPolygon),
	}, nil
}

func appendRows(rows []orb.Point, mp orb.MultiPolygon) []orb.Point {
	for _, polygon := range mp {
		for _, ring := range polygon {
			rows = append(rows, ring...)
		}
	}

	return rows
}

func (o Options) csvHeader() []string {
	if o.SwapAxes {
		return CSVHeaderSwapped
	}

	return CSVHeader
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
