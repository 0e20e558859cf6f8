package waypoint

import (
	"testing"

	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/mapengine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreKeepsInsertionOrder(t *testing.T) {
	testCases := []struct {
		name   string
		points []geo.Coordinate
	}{
		{
			name:   "empty",
			points: nil,
		},
		{
			name:   "single",
			points: []geo.Coordinate{geo.NewCoordinate(37.1, -122.1)},
		},
		{
			name: "duplicates are kept",
			points: []geo.Coordinate{
				geo.NewCoordinate(37.1, -122.1),
				geo.NewCoordinate(37.1, -122.1),
				geo.NewCoordinate(37.2, -122.2),
			},
		},
		{
			name: "descending",
			points: []geo.Coordinate{
				geo.NewCoordinate(3, 3),
				geo.NewCoordinate(2, 2),
				geo.NewCoordinate(1, 1),
				geo.NewCoordinate(0, 0),
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			added := make([]*Waypoint, 0, len(tt.points))
			for _, p := range tt.points {
				added = append(added, s.Add(p))
			}

			assert.Equal(t, len(tt.points), s.Count())
			all := s.All()
			require.Len(t, all, len(tt.points))
			for i, wp := range all {
				assert.Same(t, added[i], wp)
				assert.Equal(t, tt.points[i], wp.Position())
			}
			if len(tt.points) > 0 {
				assert.Equal(t, tt.points, s.Positions())
			}

			ids := make(map[ID]struct{})
			for _, wp := range all {
				ids[wp.ID()] = struct{}{}
			}
			assert.Len(t, ids, len(tt.points))
		})
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	first := s.Add(geo.NewCoordinate(1, 1))
	second := s.Add(geo.NewCoordinate(2, 2))

	removed := s.Clear()
	require.Len(t, removed, 2)
	assert.Same(t, first, removed[0])
	assert.Same(t, second, removed[1])
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.All())

	third := s.Add(geo.NewCoordinate(3, 3))
	removed = s.Clear()
	require.Len(t, removed, 1)
	assert.Same(t, third, removed[0])

	assert.Empty(t, s.Clear())
}

func TestStoreSnapshotIsIsolated(t *testing.T) {
	s := NewStore()
	s.Add(geo.NewCoordinate(1, 1))
	snapshot := s.All()

	s.Add(geo.NewCoordinate(2, 2))
	assert.Len(t, snapshot, 1)
	assert.Equal(t, 2, s.Count())
}

func TestWaypointMarker(t *testing.T) {
	s := NewStore()
	wp := s.Add(geo.NewCoordinate(1, 1))
	assert.Equal(t, mapengine.MarkerHandle(""), wp.Marker())

	wp.SetMarker("marker-7")
	assert.Equal(t, mapengine.MarkerHandle("marker-7"), s.All()[0].Marker())
}
