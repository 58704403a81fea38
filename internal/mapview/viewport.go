package mapview

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/gridscout/internal/model"
)

// ErrEmptyProjection signals that a projected set has no points, so no
// viewport can be centered (the mean of an empty set is undefined).
// Callers render an empty map and skip viewport centering; this is not a
// hard failure.
var ErrEmptyProjection = eris.New("mapview: empty projection set")

// ViewportConfig holds the zoom heuristic's tuning constants.
type ViewportConfig struct {
	PointThreshold int // sets smaller than this use NearZoom
	NearZoom       int
	FarZoom        int
}

// DefaultViewport mirrors the dashboard defaults.
var DefaultViewport = ViewportConfig{PointThreshold: 200, NearZoom: 12, FarZoom: 9}

// ComputeViewport returns the default camera for a projected set: center
// at the arithmetic mean of the points, zoom picked by a two-tier size
// threshold. Known limitation: this is a heuristic, not a bounding-box
// fit, so outlying points may start off screen.
func ComputeViewport(points []model.PlotPoint, cfg ViewportConfig) (model.Viewport, error) {
	if len(points) == 0 {
		return model.Viewport{}, ErrEmptyProjection
	}

	var sumLat, sumLon float64
	for _, pt := range points {
		sumLat += pt.Lat
		sumLon += pt.Lon
	}

	zoom := cfg.FarZoom
	if len(points) < cfg.PointThreshold {
		zoom = cfg.NearZoom
	}

	return model.Viewport{
		CenterLat: sumLat / float64(len(points)),
		CenterLon: sumLon / float64(len(points)),
		Zoom:      zoom,
	}, nil
}
