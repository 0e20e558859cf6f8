package geo

import (
	"github.com/golang/geo/s2"
)

func (c Coordinate) toLatLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat, c.Lon)
}

// IsValid reports whether lat is within [-90,90] and lon within [-180,180].
func (c Coordinate) IsValid() bool {
	return c.toLatLng().IsValid()
}

// PathLength returns the length of the polyline through path, in meters.
func PathLength(path []Coordinate) float64 {
	if len(path) < 2 {
		return 0
	}
	lls := make([]s2.LatLng, len(path))
	for i, c := range path {
		lls[i] = c.toLatLng()
	}
	polyline := s2.PolylineFromLatLngs(lls)
	return polyline.Length().Radians() * earthRadiusKM * 1000
}
