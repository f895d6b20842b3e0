package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/seating/internal/config"
	"svw.info/seating/internal/ports"
)

func TestRunClosesStoreOnServerError(t *testing.T) {
	closed := false
	openStoreFn = func(cfg config.Config) (ports.ProgressStore, func() error, error) {
		st, closeStore, err := openStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		return st, func() error { closed = true; return closeStore() }, nil
	}
	t.Cleanup(func() { openStoreFn = openStore })

	err := run("seating-web", []string{
		"-addr", "127.0.0.1:-1",
		"-store", "sqlite",
		"-sqlite-path", filepath.Join(t.TempDir(), "seating.db"),
	})
	require.ErrorContains(t, err, "server:")
	assert.True(t, closed)
}

func TestRunRejectsBadConfig(t *testing.T) {
	require.ErrorContains(t, run("seating-web", []string{"-store", "redis"}), "config:")
	require.ErrorContains(t, run("seating-web", []string{"-levels", filepath.Join(t.TempDir(), "none.yaml")}), "load levels:")
}

func TestRequestLoggerPassesStatus(t *testing.T) {
	h := requestLogger(slog.New(slog.NewTextHandler(io.Discard, nil)), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
