package usecases

import (
	"context"

	"github.com/lintang-b-s/routeplanner/pkg/concurrent"
	"github.com/lintang-b-s/routeplanner/pkg/coordinator"
	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/mapengine/memory"
	"github.com/lintang-b-s/routeplanner/pkg/overlay"
	"github.com/lintang-b-s/routeplanner/pkg/waypoint"
)

type EventLoop interface {
	Call(ctx context.Context, job concurrent.JobFunc) error
}

type PositionSink interface {
	PushFix(c geo.Coordinate) error
	PushError(err error) error
}

type Planner interface {
	ComputeRoute(ctx context.Context) <-chan error
	Clear() error
	CanComputeRoute() bool
	State() coordinator.State
	Origin() *coordinator.Origin
	Waypoints() []*waypoint.Waypoint
	Overlay() *overlay.RouteOverlay
}

type MapView interface {
	Current() *memory.Engine
}
