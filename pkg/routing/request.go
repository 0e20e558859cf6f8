package routing

import (
	"errors"
	"strings"

	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/util"
)

var (
	ErrOriginUnknown  = errors.New("current position is not known yet")
	ErrNoDestinations = errors.New("select at least one destination")
)

// Request is the ordered stop list sent to a routing service: origin first, then
// waypoints in the order they were placed.
type Request struct {
	stops []geo.Coordinate
}

// BuildRequest validates that an origin is known and at least one waypoint exists,
// in that order.
func BuildRequest(origin *geo.Coordinate, waypoints []geo.Coordinate) (*Request, error) {
	if origin == nil {
		return nil, util.WrapErrorf(ErrOriginUnknown, util.ErrBadParamInput, "%s", ErrOriginUnknown.Error())
	}
	if len(waypoints) == 0 {
		return nil, util.WrapErrorf(ErrNoDestinations, util.ErrBadParamInput, "%s", ErrNoDestinations.Error())
	}

	stops := make([]geo.Coordinate, 0, len(waypoints)+1)
	stops = append(stops, *origin)
	stops = append(stops, waypoints...)
	return &Request{stops: stops}, nil
}

func (r *Request) Stops() []geo.Coordinate {
	stops := make([]geo.Coordinate, len(r.stops))
	copy(stops, r.stops)
	return stops
}

func (r *Request) Origin() geo.Coordinate {
	return r.stops[0]
}

func (r *Request) Destinations() []geo.Coordinate {
	return r.Stops()[1:]
}

// Locations joins the stops as "lat,lon" separated by sep.
func (r *Request) Locations(sep string) string {
	parts := make([]string, len(r.stops))
	for i, s := range r.stops {
		parts[i] = s.String()
	}
	return strings.Join(parts, sep)
}

// IsValidationError reports whether err is a precondition failure raised before any network call.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrOriginUnknown) || errors.Is(err, ErrNoDestinations)
}
