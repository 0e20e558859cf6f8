package gmaps

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

func encodeStep(coords ...[]float64) map[string]any {
	return map[string]any{
		"polyline": map[string]string{"points": string(polyline.EncodeCoords(coords))},
	}
}

func mapsStep(coords ...[]float64) *maps.Step {
	return &maps.Step{Polyline: maps.Polyline{Points: string(polyline.EncodeCoords(coords))}}
}

func directionsBody(t *testing.T, status string, routes []any) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"status": status,
		"routes": routes,
	})
	require.NoError(t, err)
	return body
}

func newRequest(t *testing.T) *routing.Request {
	t.Helper()
	origin := geo.NewCoordinate(37.0, -122.0)
	req, err := routing.BuildRequest(&origin, []geo.Coordinate{
		geo.NewCoordinate(37.1, -122.1),
		geo.NewCoordinate(37.2, -122.2),
	})
	require.NoError(t, err)
	return req
}

func TestDirectionsRequestKeepsOrder(t *testing.T) {
	dr := directionsRequest(newRequest(t), maps.TravelModeBicycling)
	assert.Equal(t, "37,-122", dr.Origin)
	assert.Equal(t, "37.2,-122.2", dr.Destination)
	assert.Equal(t, []string{"37.1,-122.1"}, dr.Waypoints)
	assert.False(t, dr.Optimize)
	assert.Equal(t, maps.TravelModeBicycling, dr.Mode)
}

func TestTravelModeOf(t *testing.T) {
	assert.Equal(t, maps.TravelModeDriving, travelModeOf("car"))
	assert.Equal(t, maps.TravelModeBicycling, travelModeOf("bicycle"))
	assert.Equal(t, maps.TravelModeWalking, travelModeOf("pedestrian"))
	assert.Equal(t, maps.TravelModeTransit, travelModeOf("TRANSIT"))
}

func TestFetchRouteSuccess(t *testing.T) {
	var gotWaypoints, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotWaypoints = r.URL.Query().Get("waypoints")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(directionsBody(t, "OK", []any{
			map[string]any{
				"legs": []any{
					map[string]any{
						"distance": map[string]any{"value": 15000, "text": "15 km"},
						"duration": map[string]any{"value": 600, "text": "10 mins"},
						"steps": []any{
							encodeStep([]float64{37.0, -122.0}, []float64{37.05, -122.05}),
							encodeStep([]float64{37.05, -122.05}, []float64{37.1, -122.1}),
						},
					},
					map[string]any{
						"distance": map[string]any{"value": 14000, "text": "14 km"},
						"duration": map[string]any{"value": 540, "text": "9 mins"},
						"steps": []any{
							encodeStep([]float64{37.1, -122.1}, []float64{37.2, -122.2}),
						},
					},
				},
			},
		}))
	}))
	defer srv.Close()

	c, err := NewClient(zap.NewNop(), srv.Client(), srv.URL, "AIza-test-key", "car")
	require.NoError(t, err)

	res := c.FetchRoute(context.Background(), newRequest(t))
	require.Equal(t, routing.StatusSuccess, res.Status(), "cause: %v", res.Cause())
	assert.Equal(t, "AIza-test-key", gotKey)
	assert.Contains(t, gotWaypoints, "37.1,-122.1")
	assert.NotContains(t, gotWaypoints, "optimize:true")

	want := []geo.Coordinate{
		geo.NewCoordinate(37.0, -122.0),
		geo.NewCoordinate(37.05, -122.05),
		geo.NewCoordinate(37.1, -122.1),
		geo.NewCoordinate(37.2, -122.2),
	}
	path := res.Path()
	require.Len(t, path, len(want))
	for i := range want {
		assert.InDelta(t, want[i].Lat, path[i].Lat, 1e-9)
		assert.InDelta(t, want[i].Lon, path[i].Lon, 1e-9)
	}
	assert.Equal(t, 29000, res.Summary().LengthMeters)
	assert.Equal(t, 19*time.Minute, res.Summary().TravelTime)
}

func TestFetchRouteNoRoute(t *testing.T) {
	testCases := []struct {
		name   string
		status string
	}{
		{name: "zero results", status: "ZERO_RESULTS"},
		{name: "ok without routes", status: "OK"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write(directionsBody(t, tt.status, []any{}))
			}))
			defer srv.Close()

			c, err := NewClient(zap.NewNop(), srv.Client(), srv.URL, "AIza-test-key", "car")
			require.NoError(t, err)

			res := c.FetchRoute(context.Background(), newRequest(t))
			assert.Equal(t, routing.StatusNoRoute, res.Status())
		})
	}
}

func TestFetchRouteRequestDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid.", "routes": []}`))
	}))
	defer srv.Close()

	c, err := NewClient(zap.NewNop(), srv.Client(), srv.URL, "AIza-test-key", "car")
	require.NoError(t, err)

	res := c.FetchRoute(context.Background(), newRequest(t))
	assert.Equal(t, routing.StatusRequestFailed, res.Status())
	assert.Contains(t, res.Cause().Error(), "REQUEST_DENIED")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(zap.NewNop(), nil, "", "", "car")
	assert.Error(t, err)
}

func TestFlattenRouteJoinsSteps(t *testing.T) {
	a, b, c := []float64{-7.80, 110.36}, []float64{-7.81, 110.37}, []float64{-7.82, 110.38}
	route := maps.Route{Legs: []*maps.Leg{
		{Steps: []*maps.Step{mapsStep(a, b), mapsStep(b, c)}},
		{Steps: []*maps.Step{mapsStep(c, a)}},
	}}

	path, _, err := flattenRoute(route)
	require.NoError(t, err)

	want := [][]float64{a, b, c, a}
	require.Len(t, path, len(want))
	for i, w := range want {
		assert.InDelta(t, w[0], path[i].Lat, 1e-5)
		assert.InDelta(t, w[1], path[i].Lon, 1e-5)
	}
}
