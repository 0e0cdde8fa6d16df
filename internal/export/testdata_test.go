package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woozymasta/cadexport/internal/geo"
)

// parcelCoordinates is one polygon with one closed outer ring.
const parcelCoordinates = `[[[[30.1,50.2],[30.3,50.2],[30.3,50.4],[30.1,50.2]]]]`

func newFeature(t *testing.T, kind, coordinates string) geo.Feature {
	t.Helper()

	f := geo.Feature{FileName: "77:01:0001001:1"}
	if coordinates != "" {
		var raw any
		require.NoError(t, json.Unmarshal([]byte(coordinates), &raw))
		f.Geometry = &geo.Geometry{Type: kind, Coordinates: raw}
	}

	return f
}
