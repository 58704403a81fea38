// Package table formats filtered parcels for the dashboard table and the
// downloadable exports.
package table

import (
	"math"
	"sort"

	"github.com/sells-group/gridscout/internal/model"
)

// Format reduces parcels to display rows sorted by score descending.
// The sort is stable, so score ties keep their input order. Scores are
// rounded for display only; the underlying parcels stay unrounded.
func Format(parcels []model.Parcel) []model.DisplayRow {
	ordered := make([]model.Parcel, len(parcels))
	copy(ordered, parcels)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ScoreTotal > ordered[j].ScoreTotal
	})

	rows := make([]model.DisplayRow, len(ordered))
	for i, p := range ordered {
		rows[i] = model.DisplayRow{
			PAMSPin:   p.PAMSPin,
			Score:     int(math.Round(p.ScoreTotal)),
			LandUse:   p.LandUse,
			Buildable: p.IsValid,
		}
	}
	return rows
}
