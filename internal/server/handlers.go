package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/gridscout/internal/dataset"
	"github.com/sells-group/gridscout/internal/filter"
	"github.com/sells-group/gridscout/internal/mapview"
	"github.com/sells-group/gridscout/internal/model"
	"github.com/sells-group/gridscout/internal/projection"
	"github.com/sells-group/gridscout/internal/table"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	entries, err := dataset.Scan(s.cfg.Dataset.Dir, s.cfg.Dataset.Pattern)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"datasets": entries})
}

// parcelsResponse is the table view payload. An empty Rows slice is a
// valid "no matches" state, not an error.
type parcelsResponse struct {
	Summary filter.Summary     `json:"summary"`
	Rows    []model.DisplayRow `json:"rows"`
}

func (s *Server) handleParcels(w http.ResponseWriter, r *http.Request) {
	ds, matched, ok := s.filteredParcels(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, parcelsResponse{
		Summary: filter.Summarize(ds.Parcels, matched, s.cfg.Table.HighScoreThreshold),
		Rows:    table.Format(matched),
	})
}

// mapResponse is the map view payload. Viewport is null for an empty
// projection set; the client renders an empty map without centering.
type mapResponse struct {
	Points   []model.PlotPoint `json:"points"`
	Viewport *model.Viewport   `json:"viewport"`
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	ds, matched, ok := s.filteredParcels(w, r)
	if !ok {
		return
	}

	ramp := mapview.Ramp{
		Multiplier: s.cfg.Map.RampMultiplier,
		Blue:       s.cfg.Map.RampBlue,
		Alpha:      s.cfg.Map.RampAlpha,
	}
	points, err := mapview.Project(matched, ds.EPSG, ramp)
	if err != nil {
		if eris.Is(err, projection.ErrUnknownCRS) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := mapResponse{Points: points}
	vp, err := mapview.ComputeViewport(points, mapview.ViewportConfig{
		PointThreshold: s.cfg.Map.ZoomPointThreshold,
		NearZoom:       s.cfg.Map.NearZoom,
		FarZoom:        s.cfg.Map.FarZoom,
	})
	if err == nil {
		resp.Viewport = &vp
	} else if !eris.Is(err, mapview.ErrEmptyProjection) {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	_, matched, ok := s.filteredParcels(w, r)
	if !ok {
		return
	}
	rows := table.Format(matched)

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+table.ExportFilenameCSV+`"`)
		if err := table.WriteCSV(w, rows); err != nil {
			zap.L().Error("export write failed", zap.Error(err))
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+table.ExportFilenameXLSX+`"`)
		if err := table.WriteXLSX(w, rows); err != nil {
			zap.L().Error("export write failed", zap.Error(err))
		}
	default:
		writeError(w, http.StatusBadRequest, eris.Errorf("unknown export format %q", format))
	}
}

func (s *Server) handleOutreachList(w http.ResponseWriter, r *http.Request) {
	notes, err := s.notes.ReadAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

func (s *Server) handleOutreachAppend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PAMSPin   string `json:"pams_pin"`
		Contacted bool   `json:"contacted"`
		Notes     string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
		return
	}
	if req.PAMSPin == "" {
		writeError(w, http.StatusBadRequest, eris.New("pams_pin is required"))
		return
	}

	stored, err := s.notes.Append(r.Context(), model.OutreachNote{
		PAMSPin:   req.PAMSPin,
		Contacted: req.Contacted,
		Notes:     req.Notes,
	})
	if err != nil {
		// The caller must know the save failed; the rest of the dashboard
		// stays usable.
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// filteredParcels resolves the requested dataset and applies the filter
// criteria from the query string. On failure it writes the error response
// and returns ok=false.
func (s *Server) filteredParcels(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, []model.Parcel, bool) {
	entries, err := dataset.Scan(s.cfg.Dataset.Dir, s.cfg.Dataset.Pattern)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, nil, false
	}

	name := r.URL.Query().Get("dataset")
	var entry dataset.Entry
	switch {
	case name != "":
		var ok bool
		entry, ok = dataset.Find(entries, name)
		if !ok {
			writeError(w, http.StatusNotFound, eris.Errorf("unknown dataset %q", name))
			return nil, nil, false
		}
	case len(entries) == 1:
		entry = entries[0]
	default:
		writeError(w, http.StatusBadRequest, eris.New("dataset parameter is required"))
		return nil, nil, false
	}

	ds, err := s.cache.Get(entry.Path)
	if err != nil {
		switch {
		case eris.Is(err, dataset.ErrNotFound):
			writeError(w, http.StatusNotFound, err)
		case eris.Is(err, dataset.ErrFormat):
			writeError(w, http.StatusUnprocessableEntity, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return nil, nil, false
	}

	criteria, err := parseCriteria(r, ds.Parcels)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, nil, false
	}

	return ds, filter.Apply(ds.Parcels, criteria), true
}

// parseCriteria reads min/max/buildable from the query string, defaulting
// to the dataset's observed score bounds. Out-of-range values are
// clamped, not rejected.
func parseCriteria(r *http.Request, parcels []model.Parcel) (model.FilterCriteria, error) {
	bounds, _ := filter.ScoreBounds(parcels)
	criteria := model.FilterCriteria{ScoreRange: bounds}

	q := r.URL.Query()
	if v := q.Get("min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return criteria, eris.Errorf("invalid min %q", v)
		}
		criteria.ScoreRange.Min = f
	}
	if v := q.Get("max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return criteria, eris.Errorf("invalid max %q", v)
		}
		criteria.ScoreRange.Max = f
	}
	if v := q.Get("buildable"); v != "" {
		criteria.BuildableOnly = v == "true" || v == "1"
	}

	criteria = filter.Normalize(criteria, parcels)
	return criteria, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
