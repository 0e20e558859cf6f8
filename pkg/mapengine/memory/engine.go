package memory

import (
	"fmt"
	"sort"

	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/mapengine"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/rtree"
)

type Marker struct {
	Handle   mapengine.MarkerHandle `json:"id"`
	Position geo.Coordinate         `json:"position"`
	Color    string                 `json:"color"`
}

// Engine keeps the rendered state of one map in memory and enforces the
// engine contracts: ids are unique and a source cannot be removed while a
// layer still references it. Not safe for concurrent use.
type Engine struct {
	config   mapengine.Config
	markers  map[mapengine.MarkerHandle]Marker
	tr       *rtree.RTreeG[mapengine.MarkerHandle]
	nextID   int
	layers   map[string]mapengine.Layer
	layerSeq []string
	sources  map[string]*geojson.FeatureCollection
	handlers []mapengine.ClickHandler
}

func NewEngine(cfg mapengine.Config) *Engine {
	var tr rtree.RTreeG[mapengine.MarkerHandle]
	return &Engine{
		config:  cfg,
		markers: make(map[mapengine.MarkerHandle]Marker),
		tr:      &tr,
		layers:  make(map[string]mapengine.Layer),
		sources: make(map[string]*geojson.FeatureCollection),
	}
}

func point(c geo.Coordinate) [2]float64 {
	return [2]float64{c.Lon, c.Lat}
}

func (e *Engine) Config() mapengine.Config {
	return e.config
}

func (e *Engine) AddMarker(position geo.Coordinate, color string) (mapengine.MarkerHandle, error) {
	e.nextID++
	h := mapengine.MarkerHandle(fmt.Sprintf("marker-%d", e.nextID))
	e.markers[h] = Marker{Handle: h, Position: position, Color: color}
	e.tr.Insert(point(position), point(position), h)
	return h, nil
}

func (e *Engine) RemoveMarker(h mapengine.MarkerHandle) error {
	m, ok := e.markers[h]
	if !ok {
		return fmt.Errorf("%w: %s", mapengine.ErrMarkerNotFound, h)
	}
	delete(e.markers, h)
	e.tr.Delete(point(m.Position), point(m.Position), h)
	return nil
}

func (e *Engine) OnClick(handler mapengine.ClickHandler) {
	e.handlers = append(e.handlers, handler)
}

// Click delivers a click at position to every registered handler.
func (e *Engine) Click(position geo.Coordinate) {
	for _, h := range e.handlers {
		h(position)
	}
}

func (e *Engine) HasLayer(id string) bool {
	_, ok := e.layers[id]
	return ok
}

func (e *Engine) HasSource(id string) bool {
	_, ok := e.sources[id]
	return ok
}

func (e *Engine) AddSource(id string, data *geojson.FeatureCollection) error {
	if e.HasSource(id) {
		return fmt.Errorf("%w: %s", mapengine.ErrSourceExists, id)
	}
	e.sources[id] = data
	return nil
}

func (e *Engine) AddLayer(layer mapengine.Layer) error {
	if e.HasLayer(layer.ID) {
		return fmt.Errorf("%w: %s", mapengine.ErrLayerExists, layer.ID)
	}
	if !e.HasSource(layer.Source) {
		return fmt.Errorf("%w: %s", mapengine.ErrSourceNotFound, layer.Source)
	}
	e.layers[layer.ID] = layer
	e.layerSeq = append(e.layerSeq, layer.ID)
	return nil
}

func (e *Engine) RemoveLayer(id string) error {
	if !e.HasLayer(id) {
		return fmt.Errorf("%w: %s", mapengine.ErrLayerNotFound, id)
	}
	delete(e.layers, id)
	for i, l := range e.layerSeq {
		if l == id {
			e.layerSeq = append(e.layerSeq[:i], e.layerSeq[i+1:]...)
			break
		}
	}
	return nil
}

func (e *Engine) RemoveSource(id string) error {
	if !e.HasSource(id) {
		return fmt.Errorf("%w: %s", mapengine.ErrSourceNotFound, id)
	}
	for _, l := range e.layers {
		if l.Source == id {
			return fmt.Errorf("%w: source %s, layer %s", mapengine.ErrSourceInUse, id, l.ID)
		}
	}
	delete(e.sources, id)
	return nil
}

func (e *Engine) Source(id string) (*geojson.FeatureCollection, bool) {
	fc, ok := e.sources[id]
	return fc, ok
}

func (e *Engine) Layer(id string) (mapengine.Layer, bool) {
	l, ok := e.layers[id]
	return l, ok
}

// Layers returns the layers in the order they were added.
func (e *Engine) Layers() []mapengine.Layer {
	layers := make([]mapengine.Layer, 0, len(e.layerSeq))
	for _, id := range e.layerSeq {
		layers = append(layers, e.layers[id])
	}
	return layers
}

// Markers returns every marker ordered by handle creation.
func (e *Engine) Markers() []Marker {
	markers := make([]Marker, 0, len(e.markers))
	for _, m := range e.markers {
		markers = append(markers, m)
	}
	sortMarkers(markers)
	return markers
}

// MarkersInBounds returns the markers inside the box spanned by min and max.
func (e *Engine) MarkersInBounds(min, max geo.Coordinate) []Marker {
	markers := make([]Marker, 0, 8)
	e.tr.Search(point(min), point(max),
		func(_, _ [2]float64, h mapengine.MarkerHandle) bool {
			markers = append(markers, e.markers[h])
			return true
		})
	sortMarkers(markers)
	return markers
}

// MarkersWithinRadius returns the markers within radius (in km) of center. The
// rtree is searched with the circle's bounding boxes and hits are filtered by
// haversine distance.
func (e *Engine) MarkersWithinRadius(center geo.Coordinate, radius float64) []Marker {
	markers := make([]Marker, 0, 8)
	for _, box := range geo.BoundingBoxes(center, radius) {
		for _, m := range e.MarkersInBounds(box[0], box[1]) {
			if geo.CalculateHaversineDistance(center.Lat, center.Lon, m.Position.Lat, m.Position.Lon) <= radius {
				markers = append(markers, m)
			}
		}
	}
	sortMarkers(markers)
	return markers
}

func sortMarkers(markers []Marker) {
	sort.Slice(markers, func(i, j int) bool {
		return handleSeq(markers[i].Handle) < handleSeq(markers[j].Handle)
	})
}

func handleSeq(h mapengine.MarkerHandle) int {
	var n int
	_, _ = fmt.Sscanf(string(h), "marker-%d", &n)
	return n
}

// Factory creates memory engines and remembers the most recent one.
type Factory struct {
	current *Engine
}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Instantiate(cfg mapengine.Config) (mapengine.Engine, error) {
	f.current = NewEngine(cfg)
	return f.current, nil
}

// Current returns the last instantiated engine, or nil before the first instantiation.
func (f *Factory) Current() *Engine {
	return f.current
}
