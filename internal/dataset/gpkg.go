package dataset

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/sells-group/gridscout/internal/model"
)

// loadGeoPackage reads the first features table of a GeoPackage. A
// GeoPackage is a SQLite database with gpkg_contents / gpkg_geometry_columns
// metadata tables and GPKG-framed WKB geometry blobs.
func loadGeoPackage(path string, defaultEPSG int) (*Dataset, error) {
	log := zap.L().With(zap.String("component", "dataset.gpkg"))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(ErrFormat, "open %s: %v", path, err)
	}
	defer func() { _ = db.Close() }()

	var table string
	err = db.QueryRow(
		`SELECT table_name FROM gpkg_contents WHERE data_type = 'features' LIMIT 1`,
	).Scan(&table)
	if err != nil {
		return nil, eris.Wrapf(ErrFormat, "%s: no features table: %v", path, err)
	}

	var geomCol string
	var srsID int
	err = db.QueryRow(
		`SELECT column_name, srs_id FROM gpkg_geometry_columns WHERE table_name = ?`, table,
	).Scan(&geomCol, &srsID)
	if err != nil {
		return nil, eris.Wrapf(ErrFormat, "%s: no geometry column for %s: %v", path, table, err)
	}

	epsg := srsID
	if epsg <= 0 {
		epsg = defaultEPSG
	}

	cols, err := tableColumns(db, table)
	if err != nil {
		return nil, eris.Wrapf(ErrFormat, "%s: describe %s: %v", path, table, err)
	}
	pinCol, ok1 := cols[strings.ToLower(fieldPIN)]
	scoreCol, ok2 := cols[strings.ToLower(fieldScore)]
	validCol, ok3 := cols[strings.ToLower(fieldValid)]
	landUseCol, ok4 := cols[strings.ToLower(fieldLandUse)]
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, eris.Wrapf(ErrFormat,
			"%s: required columns (%s, %s, %s, %s) not found in %s",
			path, fieldPIN, fieldScore, fieldValid, fieldLandUse, table)
	}

	selected := []string{pinCol, scoreCol, validCol, landUseCol, geomCol}
	envCol, hasEnv := cols[strings.ToLower(fieldScoreEnv)]
	gridCol, hasGrid := cols[strings.ToLower(fieldScoreGrid)]
	if hasEnv {
		selected = append(selected, envCol)
	}
	if hasGrid {
		selected = append(selected, gridCol)
	}

	quoted := make([]string, len(selected))
	for i, c := range selected {
		quoted[i] = quoteIdent(c)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY rowid`,
		strings.Join(quoted, ", "), quoteIdent(table))

	rows, err := db.Query(query)
	if err != nil {
		return nil, eris.Wrapf(ErrFormat, "%s: query %s: %v", path, table, err)
	}
	defer rows.Close()

	ds := &Dataset{Name: DisplayName(path), Path: path, EPSG: epsg}
	for rows.Next() {
		var (
			pin     sql.NullString
			score   sql.NullFloat64
			valid   sql.NullInt64
			landUse sql.NullString
			blob    []byte
			env     sql.NullFloat64
			grid    sql.NullFloat64
		)
		dest := []any{&pin, &score, &valid, &landUse, &blob}
		if hasEnv {
			dest = append(dest, &env)
		}
		if hasGrid {
			dest = append(dest, &grid)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, eris.Wrapf(ErrFormat, "%s: scan row: %v", path, err)
		}
		if !pin.Valid || strings.TrimSpace(pin.String) == "" {
			continue
		}

		g, err := decodeGPKGGeometry(blob)
		if err != nil {
			return nil, eris.Wrapf(ErrFormat, "%s: parcel %s: %v", path, pin.String, err)
		}
		if g == nil {
			log.Debug("skipping parcel with empty geometry", zap.String("pams_pin", pin.String))
			continue
		}

		ds.Parcels = append(ds.Parcels, model.Parcel{
			PAMSPin:    strings.TrimSpace(pin.String),
			ScoreTotal: score.Float64,
			ScoreEnv:   env.Float64,
			ScoreGrid:  grid.Float64,
			IsValid:    valid.Int64 != 0,
			LandUse:    strings.TrimSpace(landUse.String),
			Geometry:   g,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(ErrFormat, "%s: iterate rows: %v", path, err)
	}

	log.Info("geopackage loaded",
		zap.String("path", path),
		zap.String("table", table),
		zap.Int("parcels", len(ds.Parcels)),
		zap.Int("epsg", ds.EPSG),
	)
	return ds, nil
}

// tableColumns maps lowercased column names to their declared names.
func tableColumns(db *sql.DB, table string) (map[string]string, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]string)
	for rows.Next() {
		var (
			cid     int
			name    string
			colType sql.NullString
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = name
	}
	return cols, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Envelope sizes (in float64 values) by GPKG envelope indicator.
var envelopeSizes = [5]int{0, 4, 6, 6, 8}

// decodeGPKGGeometry strips the GeoPackage binary header and decodes the
// WKB payload. Returns nil for an empty geometry.
func decodeGPKGGeometry(blob []byte) (geom.T, error) {
	if len(blob) < 8 {
		return nil, eris.New("geometry blob too short")
	}
	if blob[0] != 'G' || blob[1] != 'P' {
		return nil, eris.New("bad geometry magic")
	}

	flags := blob[3]
	if flags&0x10 != 0 { // empty geometry flag
		return nil, nil
	}
	envIndicator := int(flags>>1) & 0x07
	if envIndicator > 4 {
		return nil, eris.Errorf("invalid envelope indicator %d", envIndicator)
	}

	offset := 8 + envelopeSizes[envIndicator]*8
	if len(blob) <= offset {
		return nil, eris.New("geometry blob truncated")
	}

	g, err := wkb.Unmarshal(blob[offset:])
	if err != nil {
		return nil, eris.Wrap(err, "decode WKB")
	}
	return g, nil
}

// encodeGPKGGeometry frames a WKB payload with a minimal GeoPackage
// header (no envelope). Used by the export tooling and test fixtures.
func encodeGPKGGeometry(g geom.T, srsID int32) ([]byte, error) {
	payload, err := wkb.Marshal(g, wkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "encode WKB")
	}

	header := make([]byte, 8)
	header[0], header[1] = 'G', 'P'
	header[2] = 0    // version
	header[3] = 0x01 // little-endian header, no envelope
	binary.LittleEndian.PutUint32(header[4:], uint32(srsID))
	return append(header, payload...), nil
}
