package overlay

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/mapengine"
	"github.com/lintang-b-s/routeplanner/pkg/routing"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

const (
	RouteLayerID  = "route"
	RouteSourceID = "route"
)

var ErrEmptyPath = errors.New("route path has no points")

type Style struct {
	LineJoin string
	LineCap  string
	Color    string
	Width    float64
}

func DefaultStyle() Style {
	return Style{
		LineJoin: "round",
		LineCap:  "round",
		Color:    "#ff0000",
		Width:    5,
	}
}

// RouteOverlay is the route currently drawn on the map.
type RouteOverlay struct {
	LayerID string
	Path    []geo.Coordinate
	Summary routing.Summary
}

// Reconciler owns the route source/layer pair of a map engine. At any time the
// engine holds either both of them or neither.
type Reconciler struct {
	log     *zap.Logger
	style   Style
	current *RouteOverlay
}

func NewReconciler(log *zap.Logger, style Style) *Reconciler {
	return &Reconciler{
		log:   log,
		style: style,
	}
}

// Apply draws a successful result in place of the previous route. A failed result
// leaves the map untouched and is returned as an error for the caller to report.
func (r *Reconciler) Apply(engine mapengine.Engine, result routing.Result) error {
	if result.Status() != routing.StatusSuccess {
		return result.Err()
	}
	path := result.Path()
	if len(path) == 0 {
		return ErrEmptyPath
	}

	if err := r.Remove(engine); err != nil {
		return err
	}

	if err := engine.AddSource(RouteSourceID, FeatureCollection(path)); err != nil {
		return fmt.Errorf("add route source: %w", err)
	}
	if err := engine.AddLayer(r.layer()); err != nil {
		if rerr := engine.RemoveSource(RouteSourceID); rerr != nil {
			r.log.Error("rolling back route source", zap.Error(rerr))
		}
		return fmt.Errorf("add route layer: %w", err)
	}

	r.current = &RouteOverlay{
		LayerID: RouteLayerID,
		Path:    path,
		Summary: result.Summary(),
	}
	r.log.Info("route overlay drawn", zap.Int("points", len(path)))
	return nil
}

// Remove deletes the route layer and then its source. Safe to call when nothing is drawn.
func (r *Reconciler) Remove(engine mapengine.Engine) error {
	if engine.HasLayer(RouteLayerID) {
		if err := engine.RemoveLayer(RouteLayerID); err != nil {
			return fmt.Errorf("remove route layer: %w", err)
		}
	}
	if engine.HasSource(RouteSourceID) {
		if err := engine.RemoveSource(RouteSourceID); err != nil {
			return fmt.Errorf("remove route source: %w", err)
		}
	}
	r.current = nil
	return nil
}

// Current returns the drawn route, or nil.
func (r *Reconciler) Current() *RouteOverlay {
	return r.current
}

func (r *Reconciler) layer() mapengine.Layer {
	return mapengine.Layer{
		ID:     RouteLayerID,
		Type:   mapengine.LayerTypeLine,
		Source: RouteSourceID,
		Layout: map[string]any{
			"line-join": r.style.LineJoin,
			"line-cap":  r.style.LineCap,
		},
		Paint: map[string]any{
			"line-color": r.style.Color,
			"line-width": r.style.Width,
		},
	}
}

// FeatureCollection wraps path as a single LineString feature in GeoJSON
// (lon, lat) order.
func FeatureCollection(path []geo.Coordinate) *geojson.FeatureCollection {
	ls := make(orb.LineString, len(path))
	for i, c := range path {
		ls[i] = orb.Point{c.Lon, c.Lat}
	}

	feature := geojson.NewFeature(ls)
	feature.Properties = geojson.Properties{
		"length_m": geo.PathLength(path),
	}

	fc := geojson.NewFeatureCollection()
	fc.Append(feature)
	fc.BBox = geojson.NewBBox(ls.Bound())
	return fc
}
