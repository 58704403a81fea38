// Package dataset loads scored parcel vector files into memory.
//
// Two on-disk formats are supported: ESRI shapefiles and GeoPackages
// (the format the scoring pipeline exports). A loaded Dataset is treated
// as read-only by every downstream view.
package dataset

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/gridscout/internal/model"
)

// Taxonomy for loader failures. Loader failures are fatal to the session:
// with no dataset there is nothing to display.
var (
	// ErrNotFound means the dataset path does not exist.
	ErrNotFound = eris.New("dataset: not found")
	// ErrFormat means the file exists but is not a parseable parcel dataset.
	ErrFormat = eris.New("dataset: format error")
)

// Required attribute fields in the scored exports.
const (
	fieldPIN     = "PAMS_PIN"
	fieldScore   = "SCORE_TOTA"
	fieldValid   = "IS_VALID"
	fieldLandUse = "lu23catn"

	fieldScoreEnv  = "SCORE_ENV"
	fieldScoreGrid = "SCORE_GRID"
)

// Dataset is an in-memory snapshot of one scored parcel file.
type Dataset struct {
	Name    string
	Path    string
	EPSG    int
	Parcels []model.Parcel
}

// Load reads a parcel dataset, dispatching on the file extension.
// defaultEPSG is used for formats that do not carry CRS metadata
// (shapefile .prj parsing is out of scope; the CRS is configured).
func Load(path string, defaultEPSG int) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Wrap(ErrNotFound, path)
		}
		return nil, eris.Wrapf(err, "dataset: stat %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return loadShapefile(path, defaultEPSG)
	case ".gpkg":
		return loadGeoPackage(path, defaultEPSG)
	default:
		return nil, eris.Wrapf(ErrFormat, "unsupported extension %s", filepath.Ext(path))
	}
}

// DisplayName derives a human name from a dataset file path,
// e.g. "data/sussex_scored.gpkg" -> "sussex".
func DisplayName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimSuffix(stem, "_scored")
}

func loadShapefile(path string, epsg int) (*Dataset, error) {
	log := zap.L().With(zap.String("component", "dataset.loader"))

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(ErrFormat, "open shapefile %s: %v", path, err)
	}
	defer func() { _ = reader.Close() }()

	pinIdx := fieldIndex(reader, fieldPIN)
	scoreIdx := fieldIndex(reader, fieldScore)
	validIdx := fieldIndex(reader, fieldValid)
	landUseIdx := fieldIndex(reader, fieldLandUse)
	if pinIdx < 0 || scoreIdx < 0 || validIdx < 0 || landUseIdx < 0 {
		return nil, eris.Wrapf(ErrFormat,
			"%s: required fields (%s, %s, %s, %s) not found",
			path, fieldPIN, fieldScore, fieldValid, fieldLandUse)
	}

	// Optional sub-scores, present in newer exports.
	envIdx := fieldIndex(reader, fieldScoreEnv)
	gridIdx := fieldIndex(reader, fieldScoreGrid)

	ds := &Dataset{Name: DisplayName(path), Path: path, EPSG: epsg}
	for reader.Next() {
		_, shape := reader.Shape()
		g := shapeToGeom(shape)
		if g == nil {
			log.Debug("skipping record with unsupported geometry", zap.String("path", path))
			continue
		}

		pin := strings.TrimSpace(reader.Attribute(pinIdx))
		if pin == "" {
			continue
		}

		score, err := strconv.ParseFloat(strings.TrimSpace(reader.Attribute(scoreIdx)), 64)
		if err != nil {
			return nil, eris.Wrapf(ErrFormat, "%s: parcel %s: bad %s value %q",
				path, pin, fieldScore, reader.Attribute(scoreIdx))
		}

		p := model.Parcel{
			PAMSPin:    pin,
			ScoreTotal: score,
			IsValid:    parseBool(reader.Attribute(validIdx)),
			LandUse:    strings.TrimSpace(reader.Attribute(landUseIdx)),
			Geometry:   g,
		}
		if envIdx >= 0 {
			p.ScoreEnv, _ = strconv.ParseFloat(strings.TrimSpace(reader.Attribute(envIdx)), 64)
		}
		if gridIdx >= 0 {
			p.ScoreGrid, _ = strconv.ParseFloat(strings.TrimSpace(reader.Attribute(gridIdx)), 64)
		}
		ds.Parcels = append(ds.Parcels, p)
	}

	log.Info("shapefile loaded",
		zap.String("path", path),
		zap.Int("parcels", len(ds.Parcels)),
		zap.Int("epsg", ds.EPSG),
	)
	return ds, nil
}

// fieldIndex returns the index of a named field in the shapefile, or -1.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// parseBool interprets the 0/1 (or true/false) IS_VALID attribute.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y":
		return true
	default:
		return false
	}
}

// shapeToGeom converts a shapefile shape to a go-geom geometry. Parcel
// layers are polygons; point layers are accepted for centroid-only data.
// Returns nil for unsupported or empty shapes.
func shapeToGeom(s shp.Shape) geom.T {
	switch shape := s.(type) {
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{shape.X, shape.Y})
	case *shp.Polygon:
		return polygonToGeom(shape)
	default:
		return nil
	}
}

// polygonToGeom converts a shapefile Polygon to a geom.Polygon. The first
// part becomes the outer ring, remaining parts become holes.
func polygonToGeom(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	poly := geom.NewPolygon(geom.XY)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("dataset: skipping malformed polygon ring",
				zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if poly.NumLinearRings() == 0 {
		return nil
	}
	return poly
}
