package usecases

import (
	"context"
	"errors"

	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/mapengine/memory"
	"github.com/lintang-b-s/routeplanner/pkg/overlay"
	"github.com/lintang-b-s/routeplanner/pkg/routing"
	"github.com/lintang-b-s/routeplanner/pkg/util"
	"github.com/lintang-b-s/routeplanner/pkg/waypoint"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

var (
	ErrMapNotReady     = errors.New("map is not instantiated yet")
	ErrInvalidPosition = errors.New("invalid coordinate")
)

type RouteView struct {
	Path        []geo.Coordinate
	Summary     routing.Summary
	Polyline    string
	PathLengthM float64
	Source      *geojson.FeatureCollection
}

type Snapshot struct {
	State           string
	CanComputeRoute bool
	Origin          *geo.Coordinate
	Waypoints       []*waypoint.Waypoint
	Route           *RouteView
	Markers         []memory.Marker
}

// PlannerService runs every planner operation as a job on the event loop, so
// HTTP handlers never touch planner state from their own goroutines.
type PlannerService struct {
	log       *zap.Logger
	loop      EventLoop
	positions PositionSink
	planner   Planner
	maps      MapView
}

func NewPlannerService(log *zap.Logger, loop EventLoop, positions PositionSink, planner Planner,
	maps MapView) *PlannerService {
	return &PlannerService{
		log:       log,
		loop:      loop,
		positions: positions,
		planner:   planner,
		maps:      maps,
	}
}

func (ps *PlannerService) PushPosition(ctx context.Context, c geo.Coordinate) (*Snapshot, error) {
	if !c.IsValid() {
		return nil, util.WrapErrorf(ErrInvalidPosition, util.ErrBadParamInput, "invalid coordinate %s", c.String())
	}
	if err := ps.positions.PushFix(c); err != nil {
		return nil, util.WrapErrorf(err, util.ErrConflict, "position fix rejected: %v", err)
	}
	// the fix is posted by the tracker; the snapshot job runs after it
	return ps.State(ctx)
}

func (ps *PlannerService) PushPositionError(ctx context.Context, reason string) (*Snapshot, error) {
	if err := ps.positions.PushError(errors.New(reason)); err != nil {
		return nil, util.WrapErrorf(err, util.ErrConflict, "position error rejected: %v", err)
	}
	return ps.State(ctx)
}

// Click delivers a map click at c, as if the user clicked the rendered map.
func (ps *PlannerService) Click(ctx context.Context, c geo.Coordinate) (*Snapshot, error) {
	if !c.IsValid() {
		return nil, util.WrapErrorf(ErrInvalidPosition, util.ErrBadParamInput, "invalid coordinate %s", c.String())
	}

	var (
		snap *Snapshot
		err  error
	)
	callErr := ps.loop.Call(ctx, func() {
		engine := ps.maps.Current()
		if engine == nil {
			err = util.WrapErrorf(ErrMapNotReady, util.ErrConflict, "%s", ErrMapNotReady.Error())
			return
		}
		engine.Click(c)
		snap = ps.snapshot()
	})
	if callErr != nil {
		return nil, callErr
	}
	return snap, err
}

// ComputeRoute starts a route computation and waits until its result has been
// applied to the map. The fetch is not tied to ctx: a caller that goes away does
// not cancel it.
func (ps *PlannerService) ComputeRoute(ctx context.Context) (*Snapshot, error) {
	var done <-chan error
	err := ps.loop.Call(ctx, func() {
		done = ps.planner.ComputeRoute(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}

	select {
	case err := <-done:
		if err != nil {
			if !routing.IsValidationError(err) {
				ps.log.Debug("route computation failed", zap.Error(err))
			}
			return nil, err
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return ps.State(ctx)
}

func (ps *PlannerService) Clear(ctx context.Context) (*Snapshot, error) {
	var (
		snap *Snapshot
		err  error
	)
	callErr := ps.loop.Call(ctx, func() {
		err = ps.planner.Clear()
		snap = ps.snapshot()
	})
	if callErr != nil {
		return nil, callErr
	}
	return snap, err
}

func (ps *PlannerService) State(ctx context.Context) (*Snapshot, error) {
	var snap *Snapshot
	if err := ps.loop.Call(ctx, func() { snap = ps.snapshot() }); err != nil {
		return nil, err
	}
	return snap, nil
}

// MarkersInBounds returns the markers inside the viewport spanned by sw and ne.
func (ps *PlannerService) MarkersInBounds(ctx context.Context, sw, ne geo.Coordinate) ([]memory.Marker, error) {
	var (
		markers []memory.Marker
		err     error
	)
	callErr := ps.loop.Call(ctx, func() {
		engine := ps.maps.Current()
		if engine == nil {
			err = util.WrapErrorf(ErrMapNotReady, util.ErrConflict, "%s", ErrMapNotReady.Error())
			return
		}
		markers = engine.MarkersInBounds(sw, ne)
	})
	if callErr != nil {
		return nil, callErr
	}
	return markers, err
}

// MarkersNear returns the markers within radiusKM of center.
func (ps *PlannerService) MarkersNear(ctx context.Context, center geo.Coordinate, radiusKM float64) ([]memory.Marker, error) {
	var (
		markers []memory.Marker
		err     error
	)
	callErr := ps.loop.Call(ctx, func() {
		engine := ps.maps.Current()
		if engine == nil {
			err = util.WrapErrorf(ErrMapNotReady, util.ErrConflict, "%s", ErrMapNotReady.Error())
			return
		}
		markers = engine.MarkersWithinRadius(center, radiusKM)
	})
	if callErr != nil {
		return nil, callErr
	}
	return markers, err
}

// snapshot must run on the loop.
func (ps *PlannerService) snapshot() *Snapshot {
	snap := &Snapshot{
		State:           ps.planner.State().String(),
		CanComputeRoute: ps.planner.CanComputeRoute(),
		Waypoints:       ps.planner.Waypoints(),
	}
	if origin := ps.planner.Origin(); origin != nil {
		p := origin.Position
		snap.Origin = &p
	}

	engine := ps.maps.Current()
	if engine != nil {
		snap.Markers = engine.Markers()
	}

	if ov := ps.planner.Overlay(); ov != nil {
		rv := &RouteView{
			Path:        ov.Path,
			Summary:     ov.Summary,
			Polyline:    geo.PolylineFromCoords(ov.Path),
			PathLengthM: geo.PathLength(ov.Path),
		}
		if engine != nil {
			if fc, ok := engine.Source(overlay.RouteSourceID); ok {
				rv.Source = fc
			}
		}
		snap.Route = rv
	}
	return snap
}
