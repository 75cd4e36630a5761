package handler

import (
	"strconv"

	"workspace-access/internal/middleware"
	"workspace-access/internal/service"
	"workspace-access/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	defaultEventPageSize = 20
	maxEventPageSize     = 100
)

// AccessEventHandler lists recorded access denials.
type AccessEventHandler struct {
	service service.AuditServicer
}

// NewAccessEventHandler creates a new AccessEventHandler.
func NewAccessEventHandler(service service.AuditServicer) *AccessEventHandler {
	return &AccessEventHandler{service: service}
}

// ListAccessEvents godoc
// @Summary      List access denials
// @Description  Denied access attempts in the workspace, newest first. Requires audit/view_access_event.
// @Tags         audit
// @Produce      json
// @Param        workspaceId  path      string  true   "Workspace ID"
// @Param        page         query     int     false  "Page number (default: 1)"
// @Param        limit        query     int     false  "Items per page (default: 20, max: 100)"
// @Success      200          {object}  response.Response{data=models.AccessEventListResponse}
// @Failure      400          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Failure      500          {object}  response.Response
// @Security     BearerAuth
// @Router       /workspaces/{workspaceId}/access-events [get]
func (h *AccessEventHandler) ListAccessEvents(c *gin.Context) {
	workspaceID, exists := middleware.GetWorkspaceID(c)
	if !exists {
		response.BadRequest(c, "workspace id not found in context")
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		response.BadRequest(c, "page must be a positive integer")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultEventPageSize)))
	if err != nil || limit < 1 {
		response.BadRequest(c, "limit must be a positive integer")
		return
	}
	if limit > maxEventPageSize {
		limit = maxEventPageSize
	}

	result, err := h.service.ListEvents(c.Request.Context(), workspaceID, page, limit)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Success(c, result)
}
