package handlers

import (
	"net/http"
)

// InstallSchema creates the tables of every configured backend
// @Summary Install Database Schema
// @Description Creates the share table and the ClickHouse event archive when missing
// @Tags System
// @Produce json
// @Security IngestToken
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/system/install [post]
func (h *Handler) InstallSchema(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	results := make(map[string]string, len(h.schemas))
	hasError := false

	for _, name := range sortedKeys(h.schemas) {
		if err := h.schemas[name](ctx); err != nil {
			h.logger.Errorw("Schema install failed", "backend", name, "error", err)
			results[name] = "failed: " + err.Error()
			hasError = true
			continue
		}
		results[name] = "success"
	}

	statusCode := http.StatusOK
	if hasError {
		statusCode = http.StatusInternalServerError
	}

	h.jsonResponse(w, statusCode, map[string]interface{}{
		"status":  "completed",
		"results": results,
		"error":   hasError,
	})
}
