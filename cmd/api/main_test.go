package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/tldps/stats-api/internal/config"
	"github.com/tldps/stats-api/internal/models"
)

func TestRouter_MemoryBackend(t *testing.T) {
	cfg := config.New()
	cfg.IngestToken = "s3cret"
	a, err := newApp(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.close()
	if a.pool != nil {
		t.Fatal("no archive pool without ClickHouse")
	}

	srv := httptest.NewServer(newRouter(cfg, a.handler))
	defer srv.Close()

	body := `{"playerName":"Alice","totalDamage":150,"damagePerSecond":150,"duration":1,"logData":[{"timestamp":1735725600,"source":"Alice","action":"Fireball","target":"Dummy","damage":150}]}`
	resp, err := http.Post(srv.URL+"/api/share", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	var created models.ShareCreatedResponse
	if err := jsoniter.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || len(created.ShareID) != 8 {
		t.Fatalf("create = %d %+v", resp.StatusCode, created)
	}

	tests := []struct {
		method string
		path   string
		header map[string]string
		want   int
	}{
		{http.MethodGet, "/health", nil, http.StatusOK},
		{http.MethodGet, "/ready", nil, http.StatusOK},
		{http.MethodGet, "/metrics", nil, http.StatusOK},
		{http.MethodGet, "/swagger/doc.json", nil, http.StatusOK},
		{http.MethodGet, "/api/share/" + created.ShareID, nil, http.StatusOK},
		{http.MethodGet, "/api/share/" + created.ShareID + "/report", nil, http.StatusOK},
		{http.MethodGet, "/api/share/nothere0", nil, http.StatusNotFound},
		{http.MethodGet, "/api/v1/archive/query", nil, http.StatusServiceUnavailable},
		{http.MethodPost, "/api/v1/ingest/logs", nil, http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/ingest/logs", map[string]string{"X-Ingest-Token": "s3cret"}, http.StatusServiceUnavailable},
		{http.MethodPost, "/api/v1/system/install", map[string]string{"X-Ingest-Token": "s3cret"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(""))
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			_ = resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
