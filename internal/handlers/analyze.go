package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/tldps/stats-api/internal/logic"
	"github.com/tldps/stats-api/internal/models"
)

// multipartMemory is how much of a multipart upload is buffered in memory
// before spilling to temp files.
const multipartMemory = 32 << 20

var errNoFiles = errors.New("no files uploaded")

// AnalyzeLog handles POST /api/v1/analyze
// @Summary Analyze Combat Logs
// @Description Parses one or more combat logs (plain text body or multipart "files") and returns the full DPS report
// @Tags Analysis
// @Accept plain
// @Accept mpfd
// @Produce json
// @Param from query number false "Window start (epoch seconds)"
// @Param to query number false "Window end (epoch seconds)"
// @Success 200 {object} models.AnalyzeResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 413 {object} map[string]string "Request body too large"
// @Router /api/v1/analyze [post]
func (h *Handler) AnalyzeLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	window, err := parseWindow(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	defer r.Body.Close()

	events, summary, files, err := h.readLogs(ctx, r)
	switch {
	case err == nil:
	case isTooLarge(err):
		h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	case errors.Is(err, errNoFiles):
		h.errorResponse(w, http.StatusBadRequest, "No files uploaded")
		return
	case errors.Is(err, context.Canceled):
		return
	default:
		h.logger.Warnw("Failed to read combat log", "error", err)
		h.errorResponse(w, http.StatusBadRequest, "Failed to read combat log")
		return
	}

	report, err := h.analysis.Analyze(ctx, events, logic.AnalyzeOptions{Window: window})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		h.serverError(w, r, err, "Failed to analyze combat log")
		return
	}

	h.logger.Infow("Combat log analyzed",
		"files", files,
		"lines", summary.Lines,
		"events", summary.Events,
		"casters", report.Summary.Casters,
	)

	h.jsonResponse(w, http.StatusOK, models.AnalyzeResponse{
		Parse:  summary,
		Files:  files,
		Report: report,
	})
}

// readLogs parses the request body, either one plain-text log or every part
// named "files" of a multipart form, concatenated in upload order.
func (h *Handler) readLogs(ctx context.Context, r *http.Request) ([]models.DamageEvent, models.ParseSummary, int, error) {
	var summary models.ParseSummary

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		res, err := h.parser.ParseReader(ctx, r.Body)
		if err != nil {
			return nil, summary, 0, err
		}
		return res.Events, res.Summary, 1, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, summary, 0, errors.Wrap(err, "parse multipart form")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		return nil, summary, 0, errNoFiles
	}

	logs := make([][]models.DamageEvent, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, summary, 0, errors.Wrapf(err, "open %s", fh.Filename)
		}
		res, err := h.parser.ParseReader(ctx, f)
		_ = f.Close()
		if err != nil {
			return nil, summary, 0, errors.Wrapf(err, "parse %s", fh.Filename)
		}
		logs = append(logs, res.Events)
		summary.Lines += res.Summary.Lines
		summary.Events += res.Summary.Events
		summary.Skipped += res.Summary.Skipped
		summary.Misses += res.Summary.Misses
	}

	return logic.MergeEvents(logs...), summary, len(headers), nil
}
