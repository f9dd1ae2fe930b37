package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tldps/stats-api/internal/models"
)

// IngestLogs handles POST /api/v1/ingest/logs
// @Summary Archive a Combat Log
// @Description Parses a raw combat log and queues every damage event for the ClickHouse archive under one batch id
// @Tags Ingestion
// @Accept plain
// @Produce json
// @Security IngestToken
// @Success 202 {object} models.IngestResponse "Accepted"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 413 {object} map[string]string "Request body too large"
// @Failure 503 {object} map[string]string "Archive disabled"
// @Router /api/v1/ingest/logs [post]
func (h *Handler) IngestLogs(w http.ResponseWriter, r *http.Request) {
	if h.pool == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Archive is disabled")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	defer r.Body.Close()

	res, err := h.parser.ParseReader(r.Context(), r.Body)
	if err != nil {
		switch {
		case isTooLarge(err):
			h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, context.Canceled):
		default:
			h.logger.Warnw("Failed to read combat log", "error", err)
			h.errorResponse(w, http.StatusBadRequest, "Failed to read combat log")
		}
		return
	}

	batchID := uuid.New()
	processed := 0
	for i := range res.Events {
		if !h.pool.Enqueue(&res.Events[i], batchID) {
			h.logger.Warnw("Worker pool queue full, dropping remaining events in batch",
				"batchId", batchID,
				"dropped", len(res.Events)-processed,
			)
			break
		}
		processed++
	}

	h.logger.Infow("Combat log ingested",
		"batchId", batchID,
		"lines", res.Summary.Lines,
		"events", res.Summary.Events,
		"processed", processed,
	)

	h.jsonResponse(w, http.StatusAccepted, models.IngestResponse{
		Status:    "accepted",
		BatchID:   batchID.String(),
		Processed: processed,
		Parse:     res.Summary,
	})
}
