package handler

import (
	"errors"
	"log"
	"net/http"

	"workspace-access/internal/access"
	apperrors "workspace-access/internal/errors"
	"workspace-access/internal/middleware"
	"workspace-access/internal/models"
	"workspace-access/internal/notify"
	"workspace-access/internal/service"
	"workspace-access/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventServer serves snapshot-change events over an upgraded connection.
type EventServer interface {
	Serve(conn notify.Conn, userID string)
}

// SessionHandler handles the caller's membership snapshot, selection and access checks.
type SessionHandler struct {
	service  service.SessionServicer
	events   EventServer
	upgrader websocket.Upgrader
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(service service.SessionServicer, events EventServer) *SessionHandler {
	return &SessionHandler{
		service: service,
		events:  events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are not restricted, matching CORS.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// GetSession godoc
// @Summary      Get my session
// @Description  The caller's membership snapshot and selected workspace
// @Tags         session
// @Produce      json
// @Success      200  {object}  response.Response{data=models.SessionResponse}
// @Failure      401  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Security     BearerAuth
// @Router       /session [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, ok := middleware.GetUserObjectID(c)
	if !ok {
		response.Unauthorized(c, "user not authenticated")
		return
	}

	session, err := h.service.GetSession(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.Success(c, session)
}

// SelectWorkspace godoc
// @Summary      Select a workspace
// @Description  Switch the workspace that access checks are evaluated against. The caller must be a member.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request  body      models.SelectWorkspaceRequest  true  "Workspace to select"
// @Success      200      {object}  response.Response{data=models.SessionResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /session/workspace [put]
func (h *SessionHandler) SelectWorkspace(c *gin.Context) {
	userID, ok := middleware.GetUserObjectID(c)
	if !ok {
		response.Unauthorized(c, "user not authenticated")
		return
	}

	var req models.SelectWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	workspaceID, err := primitive.ObjectIDFromHex(req.WorkspaceID)
	if err != nil {
		response.BadRequest(c, "invalid workspace id format")
		return
	}

	session, err := h.service.SelectWorkspace(c.Request.Context(), userID, workspaceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotWorkspaceMember) {
			response.Forbidden(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.Success(c, session)
}

// Check godoc
// @Summary      Evaluate a requirement
// @Description  Evaluate one module/permission requirement against the selected workspace.
// @Description  A denial is a normal 200 result with granted=false and a message.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request  body      models.AccessCheckRequest  true  "Requirement"
// @Success      200      {object}  response.Response{data=models.AccessCheckResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /session/access-check [post]
func (h *SessionHandler) Check(c *gin.Context) {
	userID, ok := middleware.GetUserObjectID(c)
	if !ok {
		response.Unauthorized(c, "user not authenticated")
		return
	}

	var req models.AccessCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Check(c.Request.Context(), userID, req.Requirement)
	if err != nil {
		checkError(c, err)
		return
	}

	response.Success(c, result)
}

// BatchCheck godoc
// @Summary      Evaluate named requirements
// @Description  Evaluate up to 100 named requirements against one read of the session
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request  body      models.BatchAccessCheckRequest  true  "Named requirements"
// @Success      200      {object}  response.Response{data=models.BatchAccessCheckResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /session/access-check/batch [post]
func (h *SessionHandler) BatchCheck(c *gin.Context) {
	userID, ok := middleware.GetUserObjectID(c)
	if !ok {
		response.Unauthorized(c, "user not authenticated")
		return
	}

	var req models.BatchAccessCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.BatchCheck(c.Request.Context(), userID, req.Checks)
	if err != nil {
		checkError(c, err)
		return
	}

	response.Success(c, result)
}

func checkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, access.ErrAmbiguousRequirement):
		response.BadRequest(c, err.Error())
	case errors.Is(err, apperrors.ErrUserNotFound):
		response.Unauthorized(c, err.Error())
	default:
		response.InternalError(c)
	}
}

// Events godoc
// @Summary      Snapshot change events
// @Description  Upgrade to a WebSocket that receives {"type":"snapshot_changed","workspaceId":"..."}
// @Description  whenever the caller's grants change. Browsers pass the token as access_token.
// @Tags         session
// @Param        access_token  query  string  false  "Access token when no Authorization header can be sent"
// @Success      101  "Switching Protocols"
// @Failure      401  {object}  response.Response
// @Security     BearerAuth
// @Router       /session/events [get]
func (h *SessionHandler) Events(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "user not authenticated")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		log.Printf("WebSocket upgrade failed for user %s: %v", userID, err)
		return
	}

	h.events.Serve(conn, userID)
}
