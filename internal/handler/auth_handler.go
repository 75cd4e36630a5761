// Package handler contains HTTP handlers for the API.
package handler

import (
	"errors"

	apperrors "workspace-access/internal/errors"
	"workspace-access/internal/middleware"
	"workspace-access/internal/models"
	"workspace-access/internal/service"
	"workspace-access/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles HTTP requests for authentication operations.
type AuthHandler struct {
	service service.AuthServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service service.AuthServicer) *AuthHandler {
	return &AuthHandler{service: service}
}

// authError maps credential errors to responses. Unknown errors are not echoed.
func authError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		response.Conflict(c, err.Error())
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrInvalidRefreshToken):
		response.Unauthorized(c, err.Error())
	default:
		response.InternalError(c)
	}
}

// Register godoc
// @Summary      Register a new user
// @Description  Create a dashboard account. Workspaces are created or joined afterwards.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateUserRequest  true  "User registration details"
// @Success      201      {object}  response.Response{data=models.AuthResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		authError(c, err)
		return
	}

	response.Created(c, result)
}

// Login godoc
// @Summary      User login
// @Description  Authenticate user and return access token and refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.LoginRequest  true  "User credentials"
// @Success      200      {object}  response.Response{data=models.AuthResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		authError(c, err)
		return
	}

	response.Success(c, result)
}

// Refresh godoc
// @Summary      Refresh access token
// @Description  Exchange a refresh token for a new access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.RefreshRequest  true  "Refresh token"
// @Success      200      {object}  response.Response{data=models.RefreshResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), &req)
	if err != nil {
		authError(c, err)
		return
	}

	response.Success(c, result)
}

// Logout godoc
// @Summary      User logout
// @Description  Revoke one refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.LogoutRequest  true  "Refresh token to invalidate"
// @Success      204      "No Content"
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.Logout(c.Request.Context(), &req); err != nil {
		authError(c, err)
		return
	}

	response.NoContent(c)
}

// LogoutAll godoc
// @Summary      Log out everywhere
// @Description  Revoke every refresh token of the caller
// @Tags         auth
// @Produce      json
// @Success      204  "No Content"
// @Failure      401  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Security     BearerAuth
// @Router       /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID, ok := middleware.GetUserObjectID(c)
	if !ok {
		response.Unauthorized(c, "user not authenticated")
		return
	}

	if err := h.service.LogoutAll(c.Request.Context(), userID); err != nil {
		authError(c, err)
		return
	}

	response.NoContent(c)
}
