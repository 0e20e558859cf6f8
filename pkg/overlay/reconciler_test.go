package overlay

import (
	"errors"
	"testing"

	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/lintang-b-s/routeplanner/pkg/mapengine"
	"github.com/lintang-b-s/routeplanner/pkg/mapengine/memory"
	"github.com/lintang-b-s/routeplanner/pkg/routing"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingEngine logs every layer/source call and can fail AddLayer.
type recordingEngine struct {
	*memory.Engine
	calls        []string
	addLayerFail error
}

func newRecordingEngine() *recordingEngine {
	return &recordingEngine{Engine: memory.NewEngine(mapengine.Config{})}
}

func (e *recordingEngine) AddSource(id string, data *geojson.FeatureCollection) error {
	e.calls = append(e.calls, "addSource:"+id)
	return e.Engine.AddSource(id, data)
}

func (e *recordingEngine) AddLayer(layer mapengine.Layer) error {
	e.calls = append(e.calls, "addLayer:"+layer.ID)
	if e.addLayerFail != nil {
		return e.addLayerFail
	}
	return e.Engine.AddLayer(layer)
}

func (e *recordingEngine) RemoveLayer(id string) error {
	e.calls = append(e.calls, "removeLayer:"+id)
	return e.Engine.RemoveLayer(id)
}

func (e *recordingEngine) RemoveSource(id string) error {
	e.calls = append(e.calls, "removeSource:"+id)
	return e.Engine.RemoveSource(id)
}

func pathA() []geo.Coordinate {
	return []geo.Coordinate{geo.NewCoordinate(37.0, -122.0), geo.NewCoordinate(37.1, -122.1)}
}

func pathB() []geo.Coordinate {
	return []geo.Coordinate{geo.NewCoordinate(37.0, -122.0), geo.NewCoordinate(37.1, -122.1), geo.NewCoordinate(37.2, -122.2)}
}

func lineOf(t *testing.T, e *memory.Engine) orb.LineString {
	t.Helper()
	fc, ok := e.Source(RouteSourceID)
	require.True(t, ok)
	require.Len(t, fc.Features, 1)
	ls, ok := fc.Features[0].Geometry.(orb.LineString)
	require.True(t, ok)
	return ls
}

func TestApplyDrawsRoute(t *testing.T) {
	e := newRecordingEngine()
	r := NewReconciler(zap.NewNop(), DefaultStyle())

	require.NoError(t, r.Apply(e, routing.NewSuccessResult(pathB(), routing.Summary{LengthMeters: 100})))

	assert.Equal(t, []string{"addSource:route", "addLayer:route"}, e.calls)
	assert.Equal(t, orb.LineString{{-122.0, 37.0}, {-122.1, 37.1}, {-122.2, 37.2}}, lineOf(t, e.Engine))

	layer, ok := e.Layer(RouteLayerID)
	require.True(t, ok)
	assert.Equal(t, mapengine.LayerTypeLine, layer.Type)
	assert.Equal(t, RouteSourceID, layer.Source)
	assert.Equal(t, "round", layer.Layout["line-join"])
	assert.Equal(t, "round", layer.Layout["line-cap"])
	assert.Equal(t, "#ff0000", layer.Paint["line-color"])
	assert.Equal(t, 5.0, layer.Paint["line-width"])

	require.NotNil(t, r.Current())
	assert.Equal(t, pathB(), r.Current().Path)
	assert.Equal(t, 100, r.Current().Summary.LengthMeters)
}

func TestApplyTwiceLeavesOneOverlay(t *testing.T) {
	e := newRecordingEngine()
	r := NewReconciler(zap.NewNop(), DefaultStyle())

	require.NoError(t, r.Apply(e, routing.NewSuccessResult(pathA(), routing.Summary{})))
	require.NoError(t, r.Apply(e, routing.NewSuccessResult(pathB(), routing.Summary{})))

	assert.Equal(t, []string{
		"addSource:route", "addLayer:route",
		"removeLayer:route", "removeSource:route",
		"addSource:route", "addLayer:route",
	}, e.calls)
	assert.Len(t, e.Layers(), 1)
	assert.Len(t, lineOf(t, e.Engine), 3)
	assert.Equal(t, pathB(), r.Current().Path)
}

func TestApplyFailureKeepsOverlay(t *testing.T) {
	testCases := []struct {
		name    string
		result  routing.Result
		wantErr error
	}{
		{
			name:    "no route",
			result:  routing.NewNoRouteResult(),
			wantErr: routing.ErrNoRoute,
		},
		{
			name:    "request failed",
			result:  routing.NewRequestFailedResult(errors.New("dial tcp: i/o timeout")),
			wantErr: routing.ErrRequestFailed,
		},
		{
			name:    "empty success",
			result:  routing.NewSuccessResult(nil, routing.Summary{}),
			wantErr: ErrEmptyPath,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			e := newRecordingEngine()
			r := NewReconciler(zap.NewNop(), DefaultStyle())
			require.NoError(t, r.Apply(e, routing.NewSuccessResult(pathA(), routing.Summary{})))
			e.calls = nil

			err := r.Apply(e, tt.result)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, e.calls)
			assert.True(t, e.HasLayer(RouteLayerID))
			assert.Len(t, lineOf(t, e.Engine), 2)
			assert.Equal(t, pathA(), r.Current().Path)
		})
	}
}

func TestApplyRollsBackSourceWhenLayerFails(t *testing.T) {
	e := newRecordingEngine()
	e.addLayerFail = errors.New("style error")
	r := NewReconciler(zap.NewNop(), DefaultStyle())

	err := r.Apply(e, routing.NewSuccessResult(pathA(), routing.Summary{}))
	require.Error(t, err)
	assert.False(t, e.HasLayer(RouteLayerID))
	assert.False(t, e.HasSource(RouteSourceID))
	assert.Nil(t, r.Current())
}

func TestRemoveIsIdempotent(t *testing.T) {
	e := newRecordingEngine()
	r := NewReconciler(zap.NewNop(), DefaultStyle())

	require.NoError(t, r.Remove(e))
	assert.Empty(t, e.calls)

	require.NoError(t, r.Apply(e, routing.NewSuccessResult(pathA(), routing.Summary{})))
	e.calls = nil

	require.NoError(t, r.Remove(e))
	require.NoError(t, r.Remove(e))
	assert.Equal(t, []string{"removeLayer:route", "removeSource:route"}, e.calls)
	assert.False(t, e.HasLayer(RouteLayerID))
	assert.False(t, e.HasSource(RouteSourceID))
	assert.Nil(t, r.Current())
}

func TestFeatureCollection(t *testing.T) {
	fc := FeatureCollection(pathB())
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "LineString", fc.Features[0].Geometry.GeoJSONType())
	assert.Equal(t, geojson.BBox{-122.2, 37.0, -122.0, 37.2}, fc.BBox)
	assert.Greater(t, fc.Features[0].Properties.MustFloat64("length_m"), 0.0)

	raw, err := fc.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"FeatureCollection"`)
}
