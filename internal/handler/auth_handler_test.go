package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	apperrors "workspace-access/internal/errors"
	"workspace-access/internal/models"
	"workspace-access/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func authRouter(m *mocks.MockAuthService, userID string) *gin.Engine {
	h := NewAuthHandler(m)
	router := gin.New()
	router.POST("/auth/register", h.Register)
	router.POST("/auth/login", h.Login)
	router.POST("/auth/refresh", h.Refresh)
	router.POST("/auth/logout", h.Logout)
	router.POST("/auth/logout-all", setUserID(userID), h.LogoutAll)
	return router
}

func authResult(email string) *models.AuthResponse {
	return &models.AuthResponse{
		AccessToken:  "access-token",
		RefreshToken: "rf_token",
		ExpiresIn:    900,
		User:         models.User{ID: primitive.NewObjectID(), Email: email},
	}
}

func TestAuthHandler_Register(t *testing.T) {
	valid := models.CreateUserRequest{Email: "owner@example.com", Password: "password123", Name: "Owner"}

	tests := []struct {
		name           string
		body           interface{}
		err            error
		expectedStatus int
	}{
		{"created", valid, nil, http.StatusCreated},
		{"invalid json", "invalid json", nil, http.StatusBadRequest},
		{"missing fields", map[string]string{"email": "owner@example.com"}, nil, http.StatusBadRequest},
		{"short password", models.CreateUserRequest{Email: "a@example.com", Password: "123", Name: "Ab"}, nil, http.StatusBadRequest},
		{"duplicate email", valid, apperrors.ErrUserAlreadyExists, http.StatusConflict},
		{"store error", valid, errors.New("database error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mocks.MockAuthService{
				RegisterFunc: func(_ context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return authResult(req.Email), nil
				},
			}

			w := performJSON(authRouter(m, ""), http.MethodPost, "/auth/register", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				var resp models.AuthResponse
				decodeData(t, w, &resp)
				assert.Equal(t, "access-token", resp.AccessToken)
				assert.Equal(t, valid.Email, resp.User.Email)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	valid := models.LoginRequest{Email: "owner@example.com", Password: "password123"}

	tests := []struct {
		name           string
		body           interface{}
		err            error
		expectedStatus int
	}{
		{"ok", valid, nil, http.StatusOK},
		{"missing password", map[string]string{"email": "owner@example.com"}, nil, http.StatusBadRequest},
		{"invalid credentials", valid, apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"store error", valid, errors.New("database error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mocks.MockAuthService{
				LoginFunc: func(_ context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return authResult(req.Email), nil
				},
			}

			w := performJSON(authRouter(m, ""), http.MethodPost, "/auth/login", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		err            error
		expectedStatus int
	}{
		{"ok", models.RefreshRequest{RefreshToken: "rf_token"}, nil, http.StatusOK},
		{"missing token", map[string]string{}, nil, http.StatusBadRequest},
		{"invalid token", models.RefreshRequest{RefreshToken: "rf_bad"}, apperrors.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"store error", models.RefreshRequest{RefreshToken: "rf_token"}, errors.New("redis down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mocks.MockAuthService{
				RefreshFunc: func(context.Context, *models.RefreshRequest) (*models.RefreshResponse, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &models.RefreshResponse{AccessToken: "new-access-token", ExpiresIn: 900}, nil
				},
			}

			w := performJSON(authRouter(m, ""), http.MethodPost, "/auth/refresh", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp models.RefreshResponse
				decodeData(t, w, &resp)
				assert.Equal(t, "new-access-token", resp.AccessToken)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes token", func(t *testing.T) {
		var revoked string
		m := &mocks.MockAuthService{
			LogoutFunc: func(_ context.Context, req *models.LogoutRequest) error {
				revoked = req.RefreshToken
				return nil
			},
		}

		w := performJSON(authRouter(m, ""), http.MethodPost, "/auth/logout", models.LogoutRequest{RefreshToken: "rf_token"})

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "rf_token", revoked)
	})

	t.Run("store error", func(t *testing.T) {
		m := &mocks.MockAuthService{
			LogoutFunc: func(context.Context, *models.LogoutRequest) error { return errors.New("db down") },
		}

		w := performJSON(authRouter(m, ""), http.MethodPost, "/auth/logout", models.LogoutRequest{RefreshToken: "rf_token"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAuthHandler_LogoutAll(t *testing.T) {
	userID := primitive.NewObjectID()

	tests := []struct {
		name           string
		userID         string
		err            error
		expectedStatus int
	}{
		{"revokes every token", userID.Hex(), nil, http.StatusNoContent},
		{"unauthenticated", "", nil, http.StatusUnauthorized},
		{"store error", userID.Hex(), errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mocks.MockAuthService{
				LogoutAllFunc: func(_ context.Context, id primitive.ObjectID) error {
					assert.Equal(t, userID, id)
					return tt.err
				},
			}

			w := performJSON(authRouter(m, tt.userID), http.MethodPost, "/auth/logout-all", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
