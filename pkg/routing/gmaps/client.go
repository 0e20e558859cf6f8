package gmaps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/routing"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

const zeroResults = "ZERO_RESULTS"

// Client computes routes with the Google Directions API. Waypoints are sent in
// request order with optimization disabled.
type Client struct {
	log    *zap.Logger
	client *maps.Client
	mode   maps.Mode
}

func NewClient(log *zap.Logger, httpClient *http.Client, baseURL, apiKey, travelMode string) (*Client, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, maps.WithHTTPClient(httpClient))
	}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}
	c, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("maps.NewClient: %w", err)
	}
	return &Client{
		log:    log,
		client: c,
		mode:   travelModeOf(travelMode),
	}, nil
}

// travelModeOf maps the configured travel mode onto the Directions API modes.
func travelModeOf(mode string) maps.Mode {
	switch strings.ToLower(mode) {
	case "bicycle", "bicycling":
		return maps.TravelModeBicycling
	case "pedestrian", "walking":
		return maps.TravelModeWalking
	case "transit":
		return maps.TravelModeTransit
	default:
		return maps.TravelModeDriving
	}
}

func directionsRequest(req *routing.Request, mode maps.Mode) *maps.DirectionsRequest {
	stops := req.Stops()
	dr := &maps.DirectionsRequest{
		Origin:      stops[0].String(),
		Destination: stops[len(stops)-1].String(),
		Mode:        mode,
		Optimize:    false,
	}
	for _, s := range stops[1 : len(stops)-1] {
		dr.Waypoints = append(dr.Waypoints, s.String())
	}
	return dr
}

func (c *Client) FetchRoute(ctx context.Context, req *routing.Request) routing.Result {
	start := time.Now()
	result := c.fetchRoute(ctx, req)

	fields := []zap.Field{
		zap.Int("stops", len(req.Stops())),
		zap.String("status", result.Status().String()),
		zap.Duration("latency", time.Since(start)),
	}
	if result.Cause() != nil {
		fields = append(fields, zap.Error(result.Cause()))
	}
	c.log.Info("google directions", fields...)
	return result
}

func (c *Client) fetchRoute(ctx context.Context, req *routing.Request) routing.Result {
	routes, _, err := c.client.Directions(ctx, directionsRequest(req, c.mode))
	if err != nil {
		if strings.Contains(err.Error(), zeroResults) {
			return routing.NewNoRouteResult()
		}
		return routing.NewRequestFailedResult(err)
	}
	if len(routes) == 0 {
		return routing.NewNoRouteResult()
	}

	path, summary, err := flattenRoute(routes[0])
	if err != nil {
		return routing.NewRequestFailedResult(err)
	}
	return routing.NewSuccessResult(path, summary)
}

// flattenRoute concatenates the step polylines of every leg in order. A step starts
// where the previous one ended, so that repeated point is dropped once.
func flattenRoute(r maps.Route) ([]geo.Coordinate, routing.Summary, error) {
	var summary routing.Summary
	path := make([]geo.Coordinate, 0, 64)
	for i, leg := range r.Legs {
		if leg == nil {
			continue
		}
		summary.LengthMeters += leg.Distance.Meters
		summary.TravelTime += leg.Duration
		for j, step := range leg.Steps {
			if step == nil {
				continue
			}
			points, err := step.Polyline.Decode()
			if err != nil {
				return nil, routing.Summary{}, fmt.Errorf("malformed route: leg %d step %d: %w", i, j, err)
			}
			for _, p := range points {
				c := geo.NewCoordinate(p.Lat, p.Lng)
				if len(path) > 0 && path[len(path)-1] == c {
					continue
				}
				path = append(path, c)
			}
		}
	}
	if len(path) == 0 {
		return nil, routing.Summary{}, errors.New("malformed route: route has no points")
	}
	return path, summary, nil
}
