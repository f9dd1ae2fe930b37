package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/tldps/stats-api/internal/logic"
	"github.com/tldps/stats-api/internal/models"
)

// CreateShare handles POST /api/share
// @Summary Share a Combat Log
// @Description Stores an analyzed log snapshot and returns a short share link. logData may be an array or a JSON string holding the array.
// @Tags Share
// @Accept json
// @Produce json
// @Param body body models.ShareRequest true "Snapshot"
// @Success 200 {object} models.ShareCreatedResponse
// @Failure 400 {object} map[string]string "Missing required fields"
// @Failure 403 {object} map[string]string "Captcha rejected"
// @Failure 413 {object} map[string]string "Request body too large"
// @Failure 500 {object} map[string]string "Failed to save log"
// @Router /api/share [post]
func (h *Handler) CreateShare(w http.ResponseWriter, r *http.Request) {
	if h.share == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Sharing is disabled")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		if isTooLarge(err) {
			h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		h.errorResponse(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	var req models.ShareRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Warnw("Invalid share payload", "error", err)
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.logger.Debugw("Share validation failed", "error", err)
		h.errorResponse(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if h.captcha != nil {
		ok, err := h.captcha.Verify(clientIP(r), req.RecaptchaToken)
		if err != nil || !ok {
			h.logger.Warnw("Captcha rejected", "remote", clientIP(r), "error", err)
			h.errorResponse(w, http.StatusForbidden, "Captcha verification failed")
			return
		}
	}

	share, err := h.share.Create(r.Context(), &req)
	if err != nil {
		h.serverError(w, r, err, "Failed to save log")
		return
	}

	h.logger.Debugw("Share link issued", "shareId", share.ShareID, "remote", clientIP(r))
	h.jsonResponse(w, http.StatusOK, models.ShareCreatedResponse{
		Success:  true,
		ShareID:  share.ShareID,
		ShareURL: h.shareURL(share.ShareID),
	})
}

// GetShare handles GET /api/share/{shareId}
// @Summary Get a Shared Log
// @Tags Share
// @Produce json
// @Param shareId path string true "Share ID"
// @Success 200 {object} models.ShareResponse
// @Failure 404 {object} map[string]string "Share not found"
// @Router /api/share/{shareId} [get]
func (h *Handler) GetShare(w http.ResponseWriter, r *http.Request) {
	share, ok := h.loadShare(w, r)
	if !ok {
		return
	}
	h.jsonResponse(w, http.StatusOK, models.ShareResponse{Success: true, Data: share})
}

// GetShareReport handles GET /api/share/{shareId}/report
// @Summary Analyze a Shared Log
// @Description Recomputes the full DPS report from the stored events
// @Tags Share
// @Produce json
// @Param shareId path string true "Share ID"
// @Param from query number false "Window start (epoch seconds)"
// @Param to query number false "Window end (epoch seconds)"
// @Success 200 {object} models.AnalysisReport
// @Failure 404 {object} map[string]string "Share not found"
// @Router /api/share/{shareId}/report [get]
func (h *Handler) GetShareReport(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	share, ok := h.loadShare(w, r)
	if !ok {
		return
	}

	report, err := h.analysis.Analyze(r.Context(), share.LogData, logic.AnalyzeOptions{Window: window})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		h.serverError(w, r, err, "Failed to analyze shared log")
		return
	}
	h.jsonResponse(w, http.StatusOK, report)
}

// loadShare resolves the shareId URL parameter, writing the error response
// itself when the share cannot be returned.
func (h *Handler) loadShare(w http.ResponseWriter, r *http.Request) (*models.Share, bool) {
	if h.share == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Sharing is disabled")
		return nil, false
	}

	shareID := strings.TrimSpace(chi.URLParam(r, "shareId"))
	if shareID == "" {
		h.errorResponse(w, http.StatusBadRequest, "Share ID is required")
		return nil, false
	}

	share, err := h.share.Get(r.Context(), shareID)
	if errors.Is(err, logic.ErrShareNotFound) {
		h.errorResponse(w, http.StatusNotFound, "Share not found")
		return nil, false
	}
	if err != nil {
		h.serverError(w, r, err, "Failed to retrieve log")
		return nil, false
	}
	return share, true
}

func (h *Handler) shareURL(shareID string) string {
	base := strings.TrimRight(h.baseURL, "/")
	if base == "" {
		base = "http://localhost:5173"
	}
	return base + "/share/" + shareID
}
