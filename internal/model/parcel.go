// Package model defines the domain types for GridScout.
package model

import (
	"time"

	"github.com/twpayne/go-geom"
)

// Parcel is one land record from a scored dataset snapshot.
// Geometry is in the dataset's source CRS; PAMSPin is unique within a snapshot.
type Parcel struct {
	PAMSPin    string  `json:"pams_pin"`
	ScoreTotal float64 `json:"score_total"`
	ScoreEnv   float64 `json:"score_env,omitempty"`
	ScoreGrid  float64 `json:"score_grid,omitempty"`
	IsValid    bool    `json:"is_valid"`
	LandUse    string  `json:"land_use_category"`
	Geometry   geom.T  `json:"-"`
}

// ScoreRange is an inclusive [Min, Max] score interval.
type ScoreRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp constrains the range to the given bounds. Callers passing
// out-of-range criteria get a clamped range back, never an error.
func (r ScoreRange) Clamp(bounds ScoreRange) ScoreRange {
	out := r
	if out.Min < bounds.Min {
		out.Min = bounds.Min
	}
	if out.Max > bounds.Max {
		out.Max = bounds.Max
	}
	if out.Min > out.Max {
		out.Min = out.Max
	}
	return out
}

// FilterCriteria selects parcels by score interval and buildability.
// Ephemeral; never persisted.
type FilterCriteria struct {
	ScoreRange    ScoreRange `json:"score_range"`
	BuildableOnly bool       `json:"buildable_only"`
}

// Matches reports whether the parcel satisfies the criteria.
func (c FilterCriteria) Matches(p Parcel) bool {
	if p.ScoreTotal < c.ScoreRange.Min || p.ScoreTotal > c.ScoreRange.Max {
		return false
	}
	if c.BuildableOnly && !p.IsValid {
		return false
	}
	return true
}

// OutreachNote records a contact attempt for a parcel. Immutable once
// appended; Timestamp is assigned by the store, never by the caller.
// The note may reference a parcel absent from a later dataset snapshot.
type OutreachNote struct {
	PAMSPin   string    `json:"pams_pin"`
	Contacted bool      `json:"contacted"`
	Notes     string    `json:"notes"`
	Timestamp time.Time `json:"timestamp"`
}

// DisplayRow is one formatted table row. Score is rounded for display
// only; the underlying parcel score stays unrounded.
type DisplayRow struct {
	PAMSPin   string `json:"pams_pin"`
	Score     int    `json:"score"`
	LandUse   string `json:"land_use"`
	Buildable bool   `json:"buildable"`
}

// RGBA is a display color derived from a parcel score.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// PlotPoint is a parcel reduced to a representative map marker.
type PlotPoint struct {
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
	Color   RGBA    `json:"color"`
	PAMSPin string  `json:"pams_pin"`
	Score   float64 `json:"score"`
}

// Viewport is a default map camera: mean center plus a heuristic zoom.
// It does not guarantee all points are visible (no bounding-box fit).
type Viewport struct {
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
	Zoom      int     `json:"zoom"`
}
