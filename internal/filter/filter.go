// Package filter narrows a parcel dataset by score range and buildability.
package filter

import (
	"github.com/sells-group/gridscout/internal/model"
)

// Apply returns the parcels satisfying the criteria, preserving input
// order. An empty result is a valid state, not an error.
func Apply(parcels []model.Parcel, criteria model.FilterCriteria) []model.Parcel {
	out := make([]model.Parcel, 0, len(parcels))
	for _, p := range parcels {
		if criteria.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// ScoreBounds derives the observed [min, max] score interval from the
// dataset. Scores have no fixed bound, so ranges are always computed at
// runtime, never assumed. Returns ok=false for an empty dataset.
func ScoreBounds(parcels []model.Parcel) (model.ScoreRange, bool) {
	if len(parcels) == 0 {
		return model.ScoreRange{}, false
	}
	bounds := model.ScoreRange{Min: parcels[0].ScoreTotal, Max: parcels[0].ScoreTotal}
	for _, p := range parcels[1:] {
		if p.ScoreTotal < bounds.Min {
			bounds.Min = p.ScoreTotal
		}
		if p.ScoreTotal > bounds.Max {
			bounds.Max = p.ScoreTotal
		}
	}
	return bounds, true
}

// Normalize clamps the criteria's score range to the dataset's observed
// bounds. Out-of-range criteria are clamped, not rejected.
func Normalize(criteria model.FilterCriteria, parcels []model.Parcel) model.FilterCriteria {
	bounds, ok := ScoreBounds(parcels)
	if !ok {
		return criteria
	}
	criteria.ScoreRange = criteria.ScoreRange.Clamp(bounds)
	return criteria
}

// Summary describes a dataset and the subset a filter matched.
type Summary struct {
	Total       int              `json:"total"`
	Matched     int              `json:"matched"`
	HighScoring int              `json:"high_scoring"`
	Bounds      model.ScoreRange `json:"bounds"`
}

// Summarize computes dataset headline stats. HighScoring counts parcels
// at or above the threshold across the whole dataset, not the subset.
func Summarize(parcels, matched []model.Parcel, highScoreThreshold float64) Summary {
	s := Summary{Total: len(parcels), Matched: len(matched)}
	if bounds, ok := ScoreBounds(parcels); ok {
		s.Bounds = bounds
	}
	for _, p := range parcels {
		if p.ScoreTotal >= highScoreThreshold {
			s.HighScoring++
		}
	}
	return s
}
