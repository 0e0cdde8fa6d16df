package export

import (
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/cadexport/internal/geo"
)

// BatchStats reports how a batch was assembled.
type BatchStats struct {
	Encoded int      // Features that contributed output
	Skipped []string // Names of features without usable geometry, in input order
}

// BatchCSV concatenates the rows of every feature under a single header.
// Features without usable geometry contribute no rows.
func BatchCSV(features []geo.Feature, opts Options) (*CSVDocument, BatchStats, error) {
	var stats BatchStats
	rows := make([]orb.Point, 0)

	for i := range features {
		doc, err := EncodeCSV(&features[i], opts)
		if err != nil {
			stats.skip(FormatCSV, &features[i], err)
			continue
		}

		rows = append(rows, doc.Rows...)
		stats.Encoded++
	}

	return &CSVDocument{Header: opts.csvHeader(), Rows: rows}, stats, nil
}

// BatchGeoJSON collects one polygon Feature per input feature into a FeatureCollection.
// Features without usable geometry are left out; order follows the input.
func BatchGeoJSON(features []geo.Feature, opts Options) (*GeoJSONDocument, BatchStats, error) {
	var stats BatchStats
	fc := geo.NewFeatureCollection(opts.crs(), len(features))

	for i := range features {
		feature, err := EncodeGeoJSONPolygon(&features[i], opts)
		if err != nil {
			stats.skip(FormatGeoJSON, &features[i], err)
			continue
		}

		fc.Features = append(fc.Features, feature)
		stats.Encoded++
	}

	return &GeoJSONDocument{Object: fc}, stats, nil
}

func (s *BatchStats) skip(format Format, f *geo.Feature, err error) {
	name := featureName(f)
	s.Skipped = append(s.Skipped, name)

	log.Warn().
		Err(err).
		Str("format", string(format)).
		Str("feature", name).
		Msg("Feature skipped in batch export")
}
