package mapengine

import (
	"errors"

	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/paulmach/orb/geojson"
)

var (
	ErrLayerExists    = errors.New("layer already exists")
	ErrLayerNotFound  = errors.New("layer not found")
	ErrSourceExists   = errors.New("source already exists")
	ErrSourceNotFound = errors.New("source not found")
	ErrSourceInUse    = errors.New("source is still referenced by a layer")
	ErrMarkerNotFound = errors.New("marker not found")
)

// MarkerHandle references a marker rendered by the engine. The engine owns the marker.
type MarkerHandle string

type Config struct {
	Center      geo.Coordinate
	Zoom        float64
	ShowZoom    bool
	ShowCompass bool
}

type LayerType string

const (
	LayerTypeLine LayerType = "line"
)

type Layer struct {
	ID     string
	Type   LayerType
	Source string
	Layout map[string]any
	Paint  map[string]any
}

type ClickHandler func(geo.Coordinate)

// Engine is the rendering engine of one instantiated map.
type Engine interface {
	AddMarker(position geo.Coordinate, color string) (MarkerHandle, error)
	RemoveMarker(h MarkerHandle) error
	OnClick(handler ClickHandler)

	HasLayer(id string) bool
	HasSource(id string) bool
	AddSource(id string, data *geojson.FeatureCollection) error
	AddLayer(layer Layer) error
	// RemoveLayer must be called before RemoveSource for the layer's source.
	RemoveLayer(id string) error
	RemoveSource(id string) error
}

type Factory interface {
	Instantiate(cfg Config) (Engine, error)
}
