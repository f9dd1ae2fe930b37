package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tldps/stats-api/internal/models"
)

func TestAnalyzeLog_PlainText(t *testing.T) {
	h := newTestHandler(Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(testLog))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()

	h.AnalyzeLog(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp models.AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Files != 1 || resp.Parse.Events != 2 || resp.Parse.Misses != 1 {
		t.Errorf("parse = %+v files = %d", resp.Parse, resp.Files)
	}
	if len(resp.Report.Players) != 1 || resp.Report.Players[0].DamagePerSecond != 150 {
		t.Errorf("players = %+v", resp.Report.Players)
	}
}

func TestAnalyzeLog_Multipart(t *testing.T) {
	h := newTestHandler(Config{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"a.txt", "b.txt"} {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write([]byte(testLog))
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	h.AnalyzeLog(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp models.AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Files != 2 || resp.Parse.Events != 4 || resp.Report.Summary.TotalDamage != 300 {
		t.Errorf("files=%d parse=%+v summary=%+v", resp.Files, resp.Parse, resp.Report.Summary)
	}
}

func TestAnalyzeLog_Errors(t *testing.T) {
	emptyForm := func() (string, *bytes.Buffer) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		_ = mw.WriteField("note", "no files here")
		_ = mw.Close()
		return mw.FormDataContentType(), &buf
	}

	tests := []struct {
		name       string
		url        string
		build      func() (string, *bytes.Buffer)
		maxUpload  int64
		wantStatus int
	}{
		{
			name:       "Oversized Payload",
			url:        "/api/v1/analyze",
			build:      func() (string, *bytes.Buffer) { return "text/plain", bytes.NewBufferString(strings.Repeat("a", 2048)) },
			maxUpload:  1024,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "No Files",
			url:        "/api/v1/analyze",
			build:      emptyForm,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Invalid Window",
			url:        "/api/v1/analyze?from=abc",
			build:      func() (string, *bytes.Buffer) { return "text/plain", bytes.NewBufferString(testLog) },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Inverted Window",
			url:        "/api/v1/analyze?from=200&to=100",
			build:      func() (string, *bytes.Buffer) { return "text/plain", bytes.NewBufferString(testLog) },
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(Config{MaxUploadBytes: tt.maxUpload})
			contentType, body := tt.build()
			req := httptest.NewRequest(http.MethodPost, tt.url, body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			h.AnalyzeLog(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestAnalyzeLog_GarbageIsEmptyReport(t *testing.T) {
	h := newTestHandler(Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("not,a,combat,log\n\n"))
	w := httptest.NewRecorder()
	h.AnalyzeLog(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "null") {
		t.Errorf("empty report should not contain null: %s", w.Body.String())
	}
}

func TestParseWindow(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?from=1735725600.5&to=1735725700", nil)
	win, err := parseWindow(req)
	if err != nil {
		t.Fatal(err)
	}
	if win.From != 1735725600.5 || win.To != 1735725700 {
		t.Errorf("window = %+v", win)
	}

	req = httptest.NewRequest(http.MethodGet, "/x?to=-1", nil)
	if _, err := parseWindow(req); err == nil {
		t.Error("negative bound should be rejected")
	}
}
