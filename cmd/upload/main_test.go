package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tech-radar/internal/app"
	"tech-radar/internal/config"
	"tech-radar/internal/logger"
	"tech-radar/internal/metrics"
	"tech-radar/internal/objectstore"
	"tech-radar/internal/store"
)

func newTestDeps(t *testing.T) (app.Deps, *objectstore.MemoryStore) {
	t.Helper()
	st := objectstore.NewMemoryStore()
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	return app.Deps{
		Config: config.Config{
			MaxUploadSize: 1 << 20,
			Storage:       config.StorageConfig{Bucket: "radar-uploads"},
		},
		Log:     logger.Discard(),
		Objects: st,
		Ledger:  store.NewNoOpLedger(),
		Metrics: m,
	}, st
}

func TestRouter(t *testing.T) {
	deps, st := newTestDeps(t)
	h := newRouter(deps, deps.Upload())

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		wantStatus  int
	}{
		{name: "healthz", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "preflight", method: http.MethodOptions, path: "/upload", wantStatus: http.StatusOK},
		{name: "wrong method", method: http.MethodPut, path: "/upload", body: "x", wantStatus: http.StatusMethodNotAllowed},
		{
			name:        "upload",
			method:      http.MethodPost,
			path:        "/upload",
			contentType: "application/json",
			body:        `{"fileData":"` + base64.StdEncoding.EncodeToString([]byte("a b c")) + `","fileName":"radar.txt","contentType":"text/plain"}`,
			wantStatus:  http.StatusOK,
		},
		{name: "status without key", method: http.MethodGet, path: "/api/uploads/status", wantStatus: http.StatusBadRequest},
		{name: "status unknown key", method: http.MethodGet, path: "/api/uploads/status?key=uploads/1-a.txt", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req.WithContext(context.Background()))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	keys := st.Keys("radar-uploads")
	require.Len(t, keys, 1)
	assert.Regexp(t, `^uploads/\d+-radar\.txt$`, keys[0])
}
