package waypoint

import (
	"github.com/google/uuid"
	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/mapengine"
)

type ID string

// Waypoint is a user placed destination. The marker is owned by the map engine;
// the waypoint only keeps its handle.
type Waypoint struct {
	id       ID
	position geo.Coordinate
	marker   mapengine.MarkerHandle
}

func (w *Waypoint) ID() ID {
	return w.id
}

func (w *Waypoint) Position() geo.Coordinate {
	return w.position
}

func (w *Waypoint) Marker() mapengine.MarkerHandle {
	return w.marker
}

func (w *Waypoint) SetMarker(h mapengine.MarkerHandle) {
	w.marker = h
}

// Store keeps waypoints in insertion order. The order is the stop order sent to
// the routing service and is never changed by the store.
type Store struct {
	waypoints []*Waypoint
}

func NewStore() *Store {
	return &Store{
		waypoints: make([]*Waypoint, 0, 8),
	}
}

func (s *Store) Add(position geo.Coordinate) *Waypoint {
	wp := &Waypoint{
		id:       ID(uuid.NewString()),
		position: position,
	}
	s.waypoints = append(s.waypoints, wp)
	return wp
}

// All returns a snapshot in insertion order.
func (s *Store) All() []*Waypoint {
	snapshot := make([]*Waypoint, len(s.waypoints))
	copy(snapshot, s.waypoints)
	return snapshot
}

func (s *Store) Positions() []geo.Coordinate {
	positions := make([]geo.Coordinate, len(s.waypoints))
	for i, wp := range s.waypoints {
		positions[i] = wp.position
	}
	return positions
}

// Clear removes every waypoint and returns them so the caller can release their markers.
func (s *Store) Clear() []*Waypoint {
	removed := s.waypoints
	s.waypoints = make([]*Waypoint, 0, 8)
	return removed
}

func (s *Store) Count() int {
	return len(s.waypoints)
}
