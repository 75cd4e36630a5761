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

// WorkspaceHandler handles HTTP requests for workspace operations.
type WorkspaceHandler struct {
	service service.WorkspaceServicer
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(service service.WorkspaceServicer) *WorkspaceHandler {
	return &WorkspaceHandler{service: service}
}

// CreateWorkspace godoc
// @Summary      Create a workspace
// @Description  Create a workspace. The caller becomes its owner with every catalog module and permission.
// @Tags         workspaces
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateWorkspaceRequest  true  "Workspace details"
// @Success      201      {object}  response.Response{data=models.Workspace}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /workspaces [post]
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	userID, ok := middleware.GetUserObjectID(c)
	if !ok {
		response.Unauthorized(c, "user not authenticated")
		return
	}

	var req models.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	workspace, err := h.service.CreateWorkspace(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrWorkspaceSlugTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, workspace)
}

// ListWorkspaces godoc
// @Summary      List my workspaces
// @Description  List every workspace the caller is a member of, with the caller's role
// @Tags         workspaces
// @Produce      json
// @Success      200  {object}  response.Response{data=models.WorkspaceListResponse}
// @Failure      401  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Security     BearerAuth
// @Router       /workspaces [get]
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	userID, ok := middleware.GetUserObjectID(c)
	if !ok {
		response.Unauthorized(c, "user not authenticated")
		return
	}

	result, err := h.service.ListWorkspaces(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Success(c, result)
}

// GetWorkspace godoc
// @Summary      Get a workspace
// @Tags         workspaces
// @Produce      json
// @Param        workspaceId  path      string  true  "Workspace ID"
// @Success      200          {object}  response.Response{data=models.Workspace}
// @Failure      400          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Failure      500          {object}  response.Response
// @Security     BearerAuth
// @Router       /workspaces/{workspaceId} [get]
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	workspaceID, exists := middleware.GetWorkspaceID(c)
	if !exists {
		response.BadRequest(c, "workspace id not found in context")
		return
	}

	workspace, err := h.service.GetWorkspace(c.Request.Context(), workspaceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrWorkspaceNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.Success(c, workspace)
}

// UpdateWorkspace godoc
// @Summary      Update a workspace
// @Description  Requires the company module and the update_company permission
// @Tags         workspaces
// @Accept       json
// @Produce      json
// @Param        workspaceId  path      string                         true  "Workspace ID"
// @Param        request      body      models.UpdateWorkspaceRequest  true  "Fields to update"
// @Success      200          {object}  response.Response{data=models.Workspace}
// @Failure      400          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Failure      500          {object}  response.Response
// @Security     BearerAuth
// @Router       /workspaces/{workspaceId} [put]
func (h *WorkspaceHandler) UpdateWorkspace(c *gin.Context) {
	workspaceID, exists := middleware.GetWorkspaceID(c)
	if !exists {
		response.BadRequest(c, "workspace id not found in context")
		return
	}

	var req models.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	workspace, err := h.service.UpdateWorkspace(c.Request.Context(), workspaceID, &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrWorkspaceNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.Success(c, workspace)
}
