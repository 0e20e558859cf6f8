package controllers

import (
	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/http/usecases"
	"github.com/lintang-b-s/routeplanner/pkg/mapengine/memory"
	"github.com/lintang-b-s/routeplanner/pkg/util"
	"github.com/paulmach/orb/geojson"
)

type coordinateRequest struct {
	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon *float64 `json:"lon" validate:"required,min=-180,max=180"`
}

func (c coordinateRequest) ToCoordinate() geo.Coordinate {
	return geo.NewCoordinate(*c.Lat, *c.Lon)
}

type positionErrorRequest struct {
	Message string `json:"message" validate:"max=256"`
}

type boundsRequest struct {
	SouthWestLat float64 `validate:"min=-90,max=90"`
	SouthWestLon float64 `validate:"min=-180,max=180"`
	NorthEastLat float64 `validate:"min=-90,max=90,gtefield=SouthWestLat"`
	NorthEastLon float64 `validate:"min=-180,max=180,gtefield=SouthWestLon"`
}

type nearRequest struct {
	Lat      float64 `validate:"min=-90,max=90"`
	Lon      float64 `validate:"min=-180,max=180"`
	RadiusKM float64 `validate:"gt=0,max=100"`
}

type waypointResponse struct {
	ID     string  `json:"id"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Marker string  `json:"marker"`
}

type markerResponse struct {
	ID    string  `json:"id"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Color string  `json:"color"`
}

type routeResponse struct {
	Path              []geo.Coordinate           `json:"path"`
	Polyline          string                     `json:"polyline"`
	LengthMeters      int                        `json:"length_meters"`
	TravelTimeSeconds float64                    `json:"travel_time_seconds"`
	PathLengthMeters  float64                    `json:"path_length_meters"`
	GeoJSON           *geojson.FeatureCollection `json:"geojson,omitempty"`
}

type stateResponse struct {
	State           string             `json:"state"`
	CanComputeRoute bool               `json:"can_compute_route"`
	Origin          *geo.Coordinate    `json:"origin"`
	Waypoints       []waypointResponse `json:"waypoints"`
	Route           *routeResponse     `json:"route"`
	Markers         []markerResponse   `json:"markers"`
}

func NewMarkersResponse(markers []memory.Marker) []markerResponse {
	resp := make([]markerResponse, len(markers))
	for i, m := range markers {
		resp[i] = markerResponse{
			ID:    string(m.Handle),
			Lat:   m.Position.Lat,
			Lon:   m.Position.Lon,
			Color: m.Color,
		}
	}
	return resp
}

func NewStateResponse(snap *usecases.Snapshot) stateResponse {
	resp := stateResponse{
		State:           snap.State,
		CanComputeRoute: snap.CanComputeRoute,
		Origin:          snap.Origin,
		Waypoints:       make([]waypointResponse, len(snap.Waypoints)),
		Markers:         NewMarkersResponse(snap.Markers),
	}
	for i, wp := range snap.Waypoints {
		pos := wp.Position()
		resp.Waypoints[i] = waypointResponse{
			ID:     string(wp.ID()),
			Lat:    pos.Lat,
			Lon:    pos.Lon,
			Marker: string(wp.Marker()),
		}
	}
	if rv := snap.Route; rv != nil {
		resp.Route = &routeResponse{
			Path:              rv.Path,
			Polyline:          rv.Polyline,
			LengthMeters:      rv.Summary.LengthMeters,
			TravelTimeSeconds: rv.Summary.TravelTime.Seconds(),
			PathLengthMeters:  util.RoundFloat(rv.PathLengthM, 2),
			GeoJSON:           rv.Source,
		}
	}
	return resp
}
