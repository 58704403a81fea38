package mapview

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gridscout/internal/model"
)

func TestComputeViewport_MeanCenter(t *testing.T) {
	points := []model.PlotPoint{
		{Lon: -74.0, Lat: 40.0},
		{Lon: -75.0, Lat: 41.0},
	}

	vp, err := ComputeViewport(points, DefaultViewport)
	require.NoError(t, err)
	assert.InDelta(t, -74.5, vp.CenterLon, 1e-9)
	assert.InDelta(t, 40.5, vp.CenterLat, 1e-9)
}

func TestComputeViewport_ZoomTiers(t *testing.T) {
	cfg := ViewportConfig{PointThreshold: 3, NearZoom: 12, FarZoom: 9}

	small := make([]model.PlotPoint, 2)
	vp, err := ComputeViewport(small, cfg)
	require.NoError(t, err)
	assert.Equal(t, 12, vp.Zoom)

	large := make([]model.PlotPoint, 3)
	vp, err = ComputeViewport(large, cfg)
	require.NoError(t, err)
	assert.Equal(t, 9, vp.Zoom)
}

func TestComputeViewport_EmptySet(t *testing.T) {
	_, err := ComputeViewport(nil, DefaultViewport)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrEmptyProjection))
}
