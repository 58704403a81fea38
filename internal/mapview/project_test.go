package mapview

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/gridscout/internal/model"
	"github.com/sells-group/gridscout/internal/projection"
)

func TestProject_PointsPassThrough(t *testing.T) {
	parcels := []model.Parcel{
		{PAMSPin: "a", ScoreTotal: 0, Geometry: geom.NewPointFlat(geom.XY, []float64{-74.1, 40.2})},
		{PAMSPin: "b", ScoreTotal: 25, Geometry: geom.NewPointFlat(geom.XY, []float64{-74.9, 39.8})},
	}

	points, err := Project(parcels, 4326, DefaultRamp)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "a", points[0].PAMSPin)
	assert.InDelta(t, -74.1, points[0].Lon, 1e-9)
	assert.InDelta(t, 40.2, points[0].Lat, 1e-9)
	assert.Equal(t, model.RGBA{R: 255, G: 0, B: 60, A: 160}, points[0].Color)
	assert.Equal(t, model.RGBA{R: 0, G: 255, B: 60, A: 160}, points[1].Color)
}

func TestProject_PolygonCentroid(t *testing.T) {
	// Unit square around (-74.5, 40.5).
	square := geom.NewPolygonFlat(geom.XY, []float64{
		-75, 40, -74, 40, -74, 41, -75, 41, -75, 40,
	}, []int{10})
	parcels := []model.Parcel{{PAMSPin: "sq", ScoreTotal: 10, Geometry: square}}

	points, err := Project(parcels, 4326, DefaultRamp)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.InDelta(t, -74.5, points[0].Lon, 1e-9)
	assert.InDelta(t, 40.5, points[0].Lat, 1e-9)
}

func TestProject_ReprojectsBeforeCentroid(t *testing.T) {
	crs, err := projection.Lookup(3424)
	require.NoError(t, err)

	// Project a geographic square into state plane, then confirm Project
	// recovers its geographic centroid.
	var flat []float64
	for _, c := range [][2]float64{
		{-74.6, 40.0}, {-74.4, 40.0}, {-74.4, 40.2}, {-74.6, 40.2}, {-74.6, 40.0},
	} {
		x, y := crs.Forward(c[0], c[1])
		flat = append(flat, x, y)
	}
	poly := geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
	parcels := []model.Parcel{{PAMSPin: "sp", ScoreTotal: 5, Geometry: poly}}

	points, err := Project(parcels, 3424, DefaultRamp)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.InDelta(t, -74.5, points[0].Lon, 1e-4)
	assert.InDelta(t, 40.1, points[0].Lat, 1e-4)
}

func TestProject_EmptyInput(t *testing.T) {
	points, err := Project(nil, 4326, DefaultRamp)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestProject_SkipsNilGeometry(t *testing.T) {
	parcels := []model.Parcel{
		{PAMSPin: "no-geom", ScoreTotal: 5},
		{PAMSPin: "ok", ScoreTotal: 5, Geometry: geom.NewPointFlat(geom.XY, []float64{-74, 40})},
	}

	points, err := Project(parcels, 4326, DefaultRamp)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "ok", points[0].PAMSPin)
}

func TestProject_UnknownCRS(t *testing.T) {
	parcels := []model.Parcel{
		{PAMSPin: "a", Geometry: geom.NewPointFlat(geom.XY, []float64{0, 0})},
	}

	_, err := Project(parcels, 99999, DefaultRamp)
	require.Error(t, err)
	assert.True(t, eris.Is(err, projection.ErrUnknownCRS))
}
