package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"workspace-access/internal/access"
	"workspace-access/internal/authz/mocks"
	apperrors "workspace-access/internal/errors"
	"workspace-access/internal/models"
	"workspace-access/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []models.AccessEvent
}

func (r *recordedEvents) Record(event models.AccessEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

const guardedPath = "/workspaces/:workspaceId/members/:userId"

func guardedRouter(authorizer *mocks.MockAuthorizer, recorder AccessRecorder, q access.Query, userID string) (*gin.Engine, *bool) {
	handlerCalled := false

	router := gin.New()
	router.Use(RequestID())
	router.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	})
	router.DELETE(guardedPath, WorkspaceAccess(authorizer, recorder, q), func(c *gin.Context) {
		handlerCalled = true
		workspaceID, _ := GetWorkspaceID(c)
		response.Success(c, gin.H{
			"workspaceId": workspaceID.Hex(),
			"role":        GetWorkspaceRole(c),
			"hasMember":   GetMembership(c) != nil,
		})
	})
	return router, &handlerCalled
}

func TestWorkspaceAccess(t *testing.T) {
	userID := primitive.NewObjectID()
	workspaceID := primitive.NewObjectID()
	q := access.RequireModulePermission("users", "delete_user")
	url := "/workspaces/" + workspaceID.Hex() + "/members/" + primitive.NewObjectID().Hex()

	t.Run("granted request reaches handler with workspace context", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		authorizer := mocks.NewMockAuthorizer(ctrl)
		authorizer.EXPECT().
			Authorize(gomock.Any(), userID, workspaceID, q).
			Return(&models.Membership{Role: models.RoleAdmin}, access.Decision{Granted: true}, nil)
		recorder := &recordedEvents{}

		router, called := guardedRouter(authorizer, recorder, q, userID.Hex())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, url, nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, *called)
		assert.Contains(t, w.Body.String(), `"role":"admin"`)
		assert.Contains(t, w.Body.String(), workspaceID.Hex())
		assert.Contains(t, w.Body.String(), `"hasMember":true`)
		assert.Empty(t, recorder.events)
	})

	denials := []struct {
		name       string
		decision   access.Decision
		err        error
		message    string
		notMember  bool
		hasDetails bool
	}{
		{
			name:       "module not enabled",
			decision:   access.Decision{ModuleCheckFailed: true},
			message:    access.MessageModuleDenied,
			hasDetails: true,
		},
		{
			name:       "permission missing",
			decision:   access.Decision{PermissionCheckFailed: true},
			message:    access.MessagePermissionDenied,
			hasDetails: true,
		},
		{
			name:       "both missing",
			decision:   access.Decision{ModuleCheckFailed: true, PermissionCheckFailed: true},
			message:    access.MessageBothDenied,
			hasDetails: true,
		},
		{
			name:      "not a member",
			decision:  access.Decision{ModuleCheckFailed: true, PermissionCheckFailed: true},
			err:       apperrors.ErrNotWorkspaceMember,
			message:   apperrors.ErrNotWorkspaceMember.Error(),
			notMember: true,
		},
	}

	for _, tt := range denials {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			authorizer := mocks.NewMockAuthorizer(ctrl)
			authorizer.EXPECT().
				Authorize(gomock.Any(), userID, workspaceID, q).
				Return(nil, tt.decision, tt.err)
			recorder := &recordedEvents{}

			router, called := guardedRouter(authorizer, recorder, q, userID.Hex())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, url, nil))

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.False(t, *called)

			var resp response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.message, resp.Error)
			assert.Equal(t, tt.hasDetails, resp.Details != nil)

			require.Len(t, recorder.events, 1)
			event := recorder.events[0]
			assert.Equal(t, userID, event.UserID)
			assert.Equal(t, workspaceID, event.WorkspaceID)
			assert.Equal(t, http.MethodDelete, event.Method)
			assert.Equal(t, guardedPath, event.Path)
			assert.Equal(t, q.String(), event.Requirement)
			assert.Equal(t, w.Header().Get(RequestIDHeader), event.RequestID)
			assert.Equal(t, tt.decision.ModuleCheckFailed, event.ModuleCheckFailed)
			assert.Equal(t, tt.decision.PermissionCheckFailed, event.PermissionCheckFailed)
			assert.Equal(t, tt.notMember, event.NotMember)
		})
	}

	t.Run("store error returns 500 and records nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		authorizer := mocks.NewMockAuthorizer(ctrl)
		authorizer.EXPECT().
			Authorize(gomock.Any(), userID, workspaceID, q).
			Return(nil, access.Decision{}, errors.New("db down"))
		recorder := &recordedEvents{}

		router, called := guardedRouter(authorizer, recorder, q, userID.Hex())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, url, nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.False(t, *called)
		assert.Empty(t, recorder.events)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		authorizer := mocks.NewMockAuthorizer(ctrl)

		router, called := guardedRouter(authorizer, nil, q, "")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, url, nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, *called)
	})

	t.Run("invalid workspace id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		authorizer := mocks.NewMockAuthorizer(ctrl)

		router, called := guardedRouter(authorizer, nil, q, userID.Hex())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/workspaces/not-an-id/members/x", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, *called)
	})

	t.Run("nil recorder still denies", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		authorizer := mocks.NewMockAuthorizer(ctrl)
		authorizer.EXPECT().
			Authorize(gomock.Any(), userID, workspaceID, q).
			Return(&models.Membership{}, access.Decision{PermissionCheckFailed: true}, nil)

		router, _ := guardedRouter(authorizer, nil, q, userID.Hex())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, url, nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestWorkspaceContextGetters_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetWorkspaceID(c)
	assert.False(t, ok)
	assert.Empty(t, GetWorkspaceRole(c))
	assert.Nil(t, GetMembership(c))
}
