package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"workspace-access/internal/middleware"
	"workspace-access/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.RegisterCustomValidators()
}

// setUserID is a helper middleware to set user ID in context
func setUserID(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	}
}

// setWorkspaceID stands in for the workspace guard.
func setWorkspaceID(workspaceID primitive.ObjectID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.WorkspaceIDKey, workspaceID)
		c.Next()
	}
}

// performJSON sends body (raw when it is a string) and returns the recorder.
func performJSON(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	switch v := body.(type) {
	case nil:
	case string:
		payload = []byte(v)
	default:
		payload, _ = json.Marshal(v)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the envelope's data field into dest.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

// errorMessage returns the envelope's error field.
func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Error
}
