package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolylineFromCoords(t *testing.T) {
	testCases := []struct {
		name   string
		coords []Coordinate
		want   string
	}{
		{
			name:   "empty",
			coords: nil,
			want:   "",
		},
		{
			name: "google reference line",
			coords: []Coordinate{
				NewCoordinate(38.5, -120.2),
				NewCoordinate(40.7, -120.95),
				NewCoordinate(43.252, -126.453),
			},
			want: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PolylineFromCoords(tc.coords))
		})
	}
}

func TestCoordsFromPolyline(t *testing.T) {
	coords, err := CoordsFromPolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, coords, 3)
	assert.InDelta(t, 38.5, coords[0].Lat, 1e-9)
	assert.InDelta(t, -126.453, coords[2].Lon, 1e-9)

	_, err = CoordsFromPolyline("_p~iF~ps|U_")
	assert.Error(t, err)
}
