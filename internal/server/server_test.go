package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/academia/internal/config"
)

func TestNewServerWithMemoryStorage(t *testing.T) {
	t.Setenv("DB_DRIVER", config.DriverMemory)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_MODE", "test")

	srv, err := NewServer(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Data["status"])

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNewServerRejectsBadConfig(t *testing.T) {
	t.Setenv("DB_DRIVER", config.DriverMemory)
	t.Setenv("JWT_SECRET", "")

	_, err := NewServer(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
