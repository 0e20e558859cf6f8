package geo

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/routeplanner/pkg/util"
)

// Coordinate is a geographic point in degrees. It is a value type and is never mutated after creation.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// String formats the coordinate as "lat,lon", the stop format used by routing services.
func (c Coordinate) String() string {
	return fmt.Sprintf("%s,%s", formatDegrees(c.Lat), formatDegrees(c.Lon))
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

const (
	earthRadiusKM = 6371.0
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

// CalculateHaversineDistance. calculate haversine distance in km
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = util.DegreeToRadians(latOne)
	longOne = util.DegreeToRadians(longOne)
	latTwo = util.DegreeToRadians(latTwo)
	longTwo = util.DegreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusKM * c
}

// GetDestinationPoint returns the destination point given the starting point, bearing and distance
// dist in km
func GetDestinationPoint(lat1, lon1 float64, bearing float64, dist float64) (float64, float64) {

	dr := dist / earthRadiusKM

	bearing = util.DegreeToRadians(bearing)
	lat1 = util.DegreeToRadians(lat1)
	lon1 = util.DegreeToRadians(lon1)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(dr) + math.Cos(lat1)*math.Sin(dr)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(math.Sin(bearing)*math.Sin(dr)*math.Cos(lat1),
		math.Cos(dr)-math.Sin(lat1)*math.Sin(lat2))

	return util.RadiansToDegree(lat2), normalizeLongitude(util.RadiansToDegree(lon2))
}

// BoundingBoxes returns the (min, max) corners of the boxes covering the circle of
// radiusKM around c. A circle crossing the antimeridian is split into two boxes; a
// circle reaching a pole spans every longitude.
func BoundingBoxes(c Coordinate, radiusKM float64) [][2]Coordinate {
	dr := radiusKM / earthRadiusKM
	lat := util.DegreeToRadians(c.Lat)

	minLat, maxLat := lat-dr, lat+dr
	minLon, maxLon := -180.0, 180.0
	if minLat > -math.Pi/2 && maxLat < math.Pi/2 {
		dLon := util.RadiansToDegree(math.Asin(math.Sin(dr) / math.Cos(lat)))
		minLon, maxLon = c.Lon-dLon, c.Lon+dLon
	}
	south := math.Max(util.RadiansToDegree(minLat), -90)
	north := math.Min(util.RadiansToDegree(maxLat), 90)

	switch {
	case minLon < -180:
		return [][2]Coordinate{
			{NewCoordinate(south, minLon+360), NewCoordinate(north, 180)},
			{NewCoordinate(south, -180), NewCoordinate(north, maxLon)},
		}
	case maxLon > 180:
		return [][2]Coordinate{
			{NewCoordinate(south, minLon), NewCoordinate(north, 180)},
			{NewCoordinate(south, -180), NewCoordinate(north, maxLon-360)},
		}
	default:
		return [][2]Coordinate{{NewCoordinate(south, minLon), NewCoordinate(north, maxLon)}}
	}
}

// normalizeLongitude. long in degree
func normalizeLongitude(long float64) float64 {
	return math.Mod((long+540), 360) - 180.0
}

// formatDegrees prints the shortest representation that round-trips, so 37.1 stays "37.1".
func formatDegrees(v float64) string {
	return util.FormatFloat(v)
}
