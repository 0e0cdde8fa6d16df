package processor

import (
	"path/filepath"
	"strings"

	"github.com/woozymasta/cadexport/internal/export"
	"github.com/woozymasta/cadexport/internal/geo"

	"github.com/rs/zerolog/log"
)

// InputExtensions lists the feature file extensions ProcessFile understands.
var InputExtensions = []string{".json", ".geojson", ".yaml", ".yml"}

// IsInputFile reports whether path has a feature file extension.
func IsInputFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range InputExtensions {
		if ext == e {
			return true
		}
	}

	return false
}

// ProcessFile loads the features from path and exports them in every format.
// Multi-feature files become one batch file per format, named after the input file.
func (p *Processor) ProcessFile(path string, formats []export.Format, subpath string) ([]Result, error) {
	features, err := geo.LoadFeatures(path)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("source", path).
		Int("features", len(features)).
		Msg("Processing feature file")

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	results := make([]Result, 0, len(formats))
	for _, format := range formats {
		var res Result
		if len(features) == 1 {
			res, err = p.ExportFeature(&features[0], format, subpath)
		} else {
			res, err = p.ExportBatch(features, name, format, subpath)
		}
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	return results, nil
}
