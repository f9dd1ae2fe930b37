package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tldps/stats-api/internal/models"
)

func TestIngestLogs(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		maxUpload     int64
		mockEnqueue   func(*models.DamageEvent, uuid.UUID) bool
		wantStatus    int
		wantProcessed int
	}{
		{
			name:          "Valid Log",
			body:          testLog,
			wantStatus:    http.StatusAccepted,
			wantProcessed: 2,
		},
		{
			name:          "Garbage Lines Skipped",
			body:          "hello\n" + testLog + "\n,,,\n",
			wantStatus:    http.StatusAccepted,
			wantProcessed: 2,
		},
		{
			name:          "Queue Full",
			body:          testLog,
			mockEnqueue:   func(*models.DamageEvent, uuid.UUID) bool { return false },
			wantStatus:    http.StatusAccepted,
			wantProcessed: 0,
		},
		{
			name:       "Oversized Payload",
			body:       strings.Repeat(testLog, 100),
			maxUpload:  1024,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &MockIngestQueue{EnqueueFunc: tt.mockEnqueue}
			h := newTestHandler(Config{WorkerPool: queue, MaxUploadBytes: tt.maxUpload})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/logs", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.IngestLogs(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("StatusCode = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusAccepted {
				return
			}

			var resp models.IngestResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Processed != tt.wantProcessed || resp.Status != "accepted" {
				t.Errorf("resp = %+v", resp)
			}
			if _, err := uuid.Parse(resp.BatchID); err != nil {
				t.Errorf("batch id %q: %v", resp.BatchID, err)
			}
			if tt.wantProcessed > 0 && len(queue.BatchIDs) != 1 {
				t.Errorf("events should share one batch id, got %d", len(queue.BatchIDs))
			}
		})
	}
}

func TestIngestLogs_Disabled(t *testing.T) {
	h := newTestHandler(Config{})
	w := httptest.NewRecorder()
	h.IngestLogs(w, httptest.NewRequest(http.MethodPost, "/api/v1/ingest/logs", strings.NewReader(testLog)))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", w.Code)
	}
}

func TestIngestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		value      string
		wantStatus int
	}{
		{"Valid header", "s3cret", "X-Ingest-Token", "s3cret", http.StatusNoContent},
		{"Valid bearer", "s3cret", "Authorization", "Bearer s3cret", http.StatusNoContent},
		{"Wrong token", "s3cret", "X-Ingest-Token", "guess", http.StatusUnauthorized},
		{"Missing token", "s3cret", "", "", http.StatusUnauthorized},
		{"Ingest disabled", "", "X-Ingest-Token", "s3cret", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(Config{IngestToken: tt.configured})
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/logs", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()

			h.IngestAuthMiddleware(next).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
