//go:build api

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"workspace-access/internal/middleware"
	"workspace-access/test/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	w := testutil.MakeRequest(t, testServer.Router, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader), "every response carries a request id")
}

func TestHealthCheck_EchoesRequestID(t *testing.T) {
	const id = "2f1d5c9e-8a34-4b6f-9c71-0e5a7d3b1f42"

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, id)
	w := httptest.NewRecorder()
	testServer.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, w.Header().Get(middleware.RequestIDHeader))
}
