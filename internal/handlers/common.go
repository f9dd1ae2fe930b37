package handlers

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"github.com/swaggo/swag"

	"github.com/tldps/stats-api/docs"
	"github.com/tldps/stats-api/internal/models"
)

// hashToken creates a SHA256 hash of a token for constant-time comparison
func hashToken(token string) string {
	h := sha256.New()
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}

// Health check endpoint
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
// @Summary Readiness probe
// @Description Pings every configured backend and reports the archive queue depth
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := make(map[string]bool, len(h.readyChecks))
	allHealthy := true
	for name, check := range h.readyChecks {
		err := check(ctx)
		checks[name] = err == nil
		if err != nil {
			h.logger.Warnw("Readiness check failed", "backend", name, "error", err)
			allHealthy = false
		}
	}

	queued := 0
	if h.pool != nil {
		queued = h.pool.QueueDepth()
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"ready":      allHealthy,
		"checks":     checks,
		"queueDepth": queued,
	})
}

// SwaggerDoc serves the registered OpenAPI document
func (h *Handler) SwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		h.serverError(w, r, err, "Swagger document unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

// IngestAuthMiddleware validates the shared ingest token. Ingest is disabled
// when no token is configured.
func (h *Handler) IngestAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.ingestTokenHash == "" {
			h.errorResponse(w, http.StatusServiceUnavailable, "Ingest is disabled")
			return
		}

		token := r.Header.Get("X-Ingest-Token")
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if token == "" {
			// DO NOT call r.FormValue here as it consumes the body
			h.errorResponse(w, http.StatusUnauthorized, "Missing ingest token")
			return
		}

		if subtle.ConstantTimeCompare([]byte(hashToken(token)), []byte(h.ingestTokenHash)) != 1 {
			h.logger.Warnw("Rejected ingest token", "remote", clientIP(r))
			h.errorResponse(w, http.StatusUnauthorized, "Invalid ingest token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// parseWindow reads the optional from/to query parameters (epoch seconds).
func parseWindow(r *http.Request) (models.TimeWindow, error) {
	var win models.TimeWindow
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"from", &win.From}, {"to", &win.To}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return win, errors.Errorf("invalid %s %q", p.name, raw)
		}
		*p.dst = v
	}
	if win.From > 0 && win.To > 0 && win.From > win.To {
		return win, errors.New("from must not be after to")
	}
	return win, nil
}

// isTooLarge reports whether err came from an http.MaxBytesReader.
func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "request body too large")
}

func sortedKeys(m map[string]Check) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warnw("Failed to encode response", "error", err)
	}
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

// serverError logs err, reports it to Sentry and answers 500 with message.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error, message string) {
	h.logger.Errorw(message, "path", r.URL.Path, "error", err)
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("path", r.URL.Path)
		scope.SetTag("method", r.Method)
		sentry.CaptureException(err)
	})
	h.errorResponse(w, http.StatusInternalServerError, message)
}
