// Package mapview turns filtered parcels into map markers: geographic
// centroids colored by score, plus a default viewport.
package mapview

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/sells-group/gridscout/internal/model"
	"github.com/sells-group/gridscout/internal/projection"
)

// Project reprojects each parcel's geometry from the dataset CRS to
// longitude/latitude, reduces it to its centroid, and derives the display
// color from the score ramp. Input order is preserved; parcels without a
// usable geometry are skipped. An empty input produces an empty result.
func Project(parcels []model.Parcel, epsg int, ramp Ramp) ([]model.PlotPoint, error) {
	crs, err := projection.Lookup(epsg)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(zap.String("component", "mapview"))

	points := make([]model.PlotPoint, 0, len(parcels))
	for _, p := range parcels {
		if p.Geometry == nil {
			continue
		}

		c, ok := centroid(reproject(crs, p.Geometry))
		if !ok {
			log.Debug("skipping parcel without computable centroid",
				zap.String("pams_pin", p.PAMSPin))
			continue
		}

		points = append(points, model.PlotPoint{
			Lon:     c[0],
			Lat:     c[1],
			Color:   ramp.Color(p.ScoreTotal),
			PAMSPin: p.PAMSPin,
			Score:   p.ScoreTotal,
		})
	}
	return points, nil
}

// reproject converts every vertex of g through the CRS inverse transform,
// returning a geometry of the same type in lon/lat degrees.
func reproject(crs projection.CRS, g geom.T) geom.T {
	layout := g.Layout()
	flat := transformFlat(crs, g.FlatCoords(), layout.Stride())

	switch t := g.(type) {
	case *geom.Point:
		return geom.NewPointFlat(layout, flat)
	case *geom.Polygon:
		return geom.NewPolygonFlat(layout, flat, t.Ends())
	case *geom.MultiPolygon:
		return geom.NewMultiPolygonFlat(layout, flat, t.Endss())
	default:
		return nil
	}
}

func transformFlat(crs projection.CRS, flat []float64, stride int) []float64 {
	out := make([]float64, len(flat))
	copy(out, flat)
	for i := 0; i+1 < len(out); i += stride {
		out[i], out[i+1] = crs.Inverse(out[i], out[i+1])
	}
	return out
}

// centroid computes a representative point for a reprojected geometry.
func centroid(g geom.T) (geom.Coord, bool) {
	switch t := g.(type) {
	case *geom.Point:
		return t.Coords(), true
	case *geom.Polygon:
		return polygonCentroid(t)
	case *geom.MultiPolygon:
		return multiPolygonCentroid(t)
	default:
		return nil, false
	}
}

func polygonCentroid(p *geom.Polygon) (geom.Coord, bool) {
	c := xy.PolygonsCentroid(p)
	if coordOK(c) {
		return c, true
	}
	// Degenerate (zero-area) polygon: fall back to the vertex mean.
	c = xy.PointsCentroidFlat(p.Layout(), p.FlatCoords())
	return c, coordOK(c)
}

// multiPolygonCentroid is the area-weighted mean of the member polygon
// centroids.
func multiPolygonCentroid(mp *geom.MultiPolygon) (geom.Coord, bool) {
	var sumX, sumY, sumW float64
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		c, ok := polygonCentroid(poly)
		if !ok {
			continue
		}
		w := math.Abs(poly.Area())
		if w == 0 {
			w = 1 // point-like member, weight evenly
		}
		sumX += c[0] * w
		sumY += c[1] * w
		sumW += w
	}
	if sumW == 0 {
		return nil, false
	}
	return geom.Coord{sumX / sumW, sumY / sumW}, true
}

func coordOK(c geom.Coord) bool {
	return len(c) >= 2 && !math.IsNaN(c[0]) && !math.IsNaN(c[1])
}
