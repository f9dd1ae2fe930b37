package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/tldps/stats-api/internal/logic"
)

// QueryArchive handles GET /api/v1/archive/query
// @Summary Query the Event Archive
// @Description Aggregates archived damage events by one dimension
// @Tags Archive
// @Produce json
// @Param dimension query string false "skill, target, caster, hit_type, batch or day"
// @Param metric query string false "damage, hits, crits, heavies, crit_rate, avg_hit, max_hit or dps"
// @Param caster query string false "Filter by caster"
// @Param target query string false "Filter by target"
// @Param skill query string false "Filter by skill"
// @Param batch query string false "Filter by ingest batch id"
// @Param start_date query string false "RFC3339 or YYYY-MM-DD"
// @Param end_date query string false "RFC3339 or YYYY-MM-DD"
// @Param limit query int false "Row limit (default 100, max 1000)"
// @Success 200 {array} models.ArchiveRow
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 503 {object} map[string]string "Archive disabled"
// @Router /api/v1/archive/query [get]
func (h *Handler) QueryArchive(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Archive is disabled")
		return
	}

	q := r.URL.Query()
	req := logic.ArchiveQueryRequest{
		Dimension:    q.Get("dimension"),
		Metric:       q.Get("metric"),
		FilterCaster: q.Get("caster"),
		FilterTarget: q.Get("target"),
		FilterSkill:  q.Get("skill"),
		FilterBatch:  q.Get("batch"),
	}

	var err error
	if req.StartDate, err = parseDate(q.Get("start_date")); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid start_date")
		return
	}
	if req.EndDate, err = parseDate(q.Get("end_date")); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid end_date")
		return
	}
	if l := q.Get("limit"); l != "" {
		if req.Limit, err = strconv.Atoi(l); err != nil {
			h.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
	}

	rows, err := h.archive.Query(r.Context(), req)
	switch {
	case err == nil:
		h.jsonResponse(w, http.StatusOK, rows)
	case errors.Is(err, logic.ErrInvalidQuery):
		h.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, logic.ErrArchiveUnavailable):
		h.errorResponse(w, http.StatusServiceUnavailable, "Archive is disabled")
	default:
		h.serverError(w, r, err, "Query failed")
	}
}

// GetCasterTotals handles GET /api/v1/archive/casters/{caster}
// @Summary Get Caster Totals
// @Description Running damage, hit, crit and heavy counters across every archived log
// @Tags Archive
// @Produce json
// @Param caster path string true "Caster name"
// @Success 200 {object} models.CasterTotals
// @Failure 503 {object} map[string]string "Archive disabled"
// @Router /api/v1/archive/casters/{caster} [get]
func (h *Handler) GetCasterTotals(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Archive is disabled")
		return
	}

	caster := chi.URLParam(r, "caster")
	if caster == "" {
		h.errorResponse(w, http.StatusBadRequest, "Caster is required")
		return
	}

	totals, err := h.archive.CasterTotals(r.Context(), caster)
	switch {
	case err == nil:
		h.jsonResponse(w, http.StatusOK, totals)
	case errors.Is(err, logic.ErrArchiveUnavailable):
		h.errorResponse(w, http.StatusServiceUnavailable, "Archive is disabled")
	default:
		h.serverError(w, r, err, "Failed to get caster totals")
	}
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
