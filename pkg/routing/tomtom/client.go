package tomtom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/routing"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.tomtom.com"

	stopSeparator   = ":"
	noRouteCode     = "NO_ROUTE_FOUND"
	maxErrorBodyLen = 4096
)

type calculateRouteResponse struct {
	Routes []route `json:"routes"`
}

type route struct {
	Summary summary `json:"summary"`
	Legs    []leg   `json:"legs"`
}

type summary struct {
	LengthInMeters      int `json:"lengthInMeters"`
	TravelTimeInSeconds int `json:"travelTimeInSeconds"`
}

type leg struct {
	Points []point `json:"points"`
}

type point struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type errorResponse struct {
	Error *struct {
		Description string `json:"description"`
	} `json:"error"`
	DetailedError *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"detailedError"`
}

// Client calls the TomTom Routing API calculateRoute endpoint.
type Client struct {
	log        *zap.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	travelMode string
}

func NewClient(log *zap.Logger, httpClient *http.Client, baseURL, apiKey, travelMode string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		log:        log,
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		travelMode: travelMode,
	}
}

func (c *Client) routeURL(req *routing.Request) string {
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("routeRepresentation", "polyline")
	if c.travelMode != "" {
		query.Set("travelMode", c.travelMode)
	}
	return fmt.Sprintf("%s/routing/1/calculateRoute/%s/json?%s", c.baseURL,
		req.Locations(stopSeparator), query.Encode())
}

// FetchRoute performs exactly one HTTP round trip.
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
	c.log.Info("tomtom calculateRoute", fields...)
	return result
}

func (c *Client) fetchRoute(ctx context.Context, req *routing.Request) routing.Result {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.routeURL(req), nil)
	if err != nil {
		return routing.NewRequestFailedResult(err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return routing.NewRequestFailedResult(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.errorResult(resp)
	}

	var body calculateRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return routing.NewRequestFailedResult(fmt.Errorf("decode calculateRoute response: %w", err))
	}
	if len(body.Routes) == 0 {
		return routing.NewNoRouteResult()
	}

	path, err := flattenLegs(body.Routes[0].Legs)
	if err != nil {
		return routing.NewRequestFailedResult(err)
	}
	s := body.Routes[0].Summary
	return routing.NewSuccessResult(path, routing.Summary{
		LengthMeters: s.LengthInMeters,
		TravelTime:   time.Duration(s.TravelTimeInSeconds) * time.Second,
	})
}

// flattenLegs concatenates the points of every leg, keeping leg and point order.
func flattenLegs(legs []leg) ([]geo.Coordinate, error) {
	path := make([]geo.Coordinate, 0, 64)
	for i, l := range legs {
		for j, p := range l.Points {
			if p.Latitude == nil || p.Longitude == nil {
				return nil, fmt.Errorf("malformed route: leg %d point %d has no coordinate", i, j)
			}
			path = append(path, geo.NewCoordinate(*p.Latitude, *p.Longitude))
		}
	}
	if len(path) == 0 {
		return nil, errors.New("malformed route: route has no points")
	}
	return path, nil
}

func (c *Client) errorResult(resp *http.Response) routing.Result {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))

	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.DetailedError != nil && body.DetailedError.Code == noRouteCode {
			return routing.NewNoRouteResult()
		}
		if body.DetailedError != nil && body.DetailedError.Message != "" {
			return routing.NewRequestFailedResult(fmt.Errorf("tomtom: status %d: %s", resp.StatusCode, body.DetailedError.Message))
		}
		if body.Error != nil && body.Error.Description != "" {
			return routing.NewRequestFailedResult(fmt.Errorf("tomtom: status %d: %s", resp.StatusCode, body.Error.Description))
		}
	}
	return routing.NewRequestFailedResult(fmt.Errorf("tomtom: unexpected status %d", resp.StatusCode))
}
