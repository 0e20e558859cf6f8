package controllers

import (
	"context"

	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/http/usecases"
	"github.com/lintang-b-s/routeplanner/pkg/mapengine/memory"
)

type PlannerService interface {
	PushPosition(ctx context.Context, c geo.Coordinate) (*usecases.Snapshot, error)
	PushPositionError(ctx context.Context, reason string) (*usecases.Snapshot, error)
	Click(ctx context.Context, c geo.Coordinate) (*usecases.Snapshot, error)
	ComputeRoute(ctx context.Context) (*usecases.Snapshot, error)
	Clear(ctx context.Context) (*usecases.Snapshot, error)
	State(ctx context.Context) (*usecases.Snapshot, error)
	MarkersInBounds(ctx context.Context, sw, ne geo.Coordinate) ([]memory.Marker, error)
	MarkersNear(ctx context.Context, center geo.Coordinate, radiusKM float64) ([]memory.Marker, error)
}
