package handler

import (
	"errors"

	"workspace-access/internal/catalog"
	apperrors "workspace-access/internal/errors"
	"workspace-access/internal/middleware"
	"workspace-access/internal/models"
	"workspace-access/internal/service"
	"workspace-access/pkg/response"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MembershipHandler handles HTTP requests for workspace members and their grants.
type MembershipHandler struct {
	service service.MembershipServicer
}

// NewMembershipHandler creates a new MembershipHandler.
func NewMembershipHandler(service service.MembershipServicer) *MembershipHandler {
	return &MembershipHandler{service: service}
}

// membershipError maps membership errors to responses.
func membershipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotWorkspaceMember),
		errors.Is(err, apperrors.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, apperrors.ErrAlreadyMember):
		response.Conflict(c, err.Error())
	case errors.Is(err, apperrors.ErrCannotChangeOwnerGrants):
		response.Forbidden(c, err.Error())
	case errors.Is(err, apperrors.ErrCannotRemoveOwner),
		errors.Is(err, apperrors.ErrCannotRemoveSelf),
		errors.Is(err, apperrors.ErrCannotChangeOwnerRole),
		errors.Is(err, apperrors.ErrInvalidRole),
		errors.Is(err, catalog.ErrUnknownModule),
		errors.Is(err, catalog.ErrUnknownPermission):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c)
	}
}

func targetUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ListMembers godoc
// @Summary      List workspace members
// @Description  Requires the users module and the view_user permission
// @Tags         members
// @Produce      json
// @Param        workspaceId  path      string  true  "Workspace ID"
// @Success      200          {object}  response.Response{data=models.MemberListResponse}
// @Failure      403          {object}  response.Response
// @Failure      500          {object}  response.Response
// @Security     BearerAuth
// @Router       /workspaces/{workspaceId}/members [get]
func (h *MembershipHandler) ListMembers(c *gin.Context) {
	workspaceID, exists := middleware.GetWorkspaceID(c)
	if !exists {
		response.BadRequest(c, "workspace id not found in context")
		return
	}

	result, err := h.service.ListMembers(c.Request.Context(), workspaceID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Success(c, result)
}

// AddMember godoc
// @Summary      Add a member
// @Description  Add an existing user by email with a role and grants. Requires users/create_user.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        workspaceId  path      string                   true  "Workspace ID"
// @Param        request      body      models.AddMemberRequest  true  "Member and grants"
// @Success      201          {object}  response.Response{data=models.MembershipWithUser}
// @Failure      400          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Failure      409          {object}  response.Response
// @Failure      500          {object}  response.Response
// @Security     BearerAuth
// @Router       /workspaces/{workspaceId}/members [post]
func (h *MembershipHandler) AddMember(c *gin.Context) {
	workspaceID, exists := middleware.GetWorkspaceID(c)
	if !exists {
		response.BadRequest(c, "workspace id not found in context")
		return
	}

	var req models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.service.AddMember(c.Request.Context(), workspaceID, &req)
	if err != nil {
		membershipError(c, err)
		return
	}

	response.Created(c, member)
}

// UpdateGrants godoc
// @Summary      Replace a member's grants
// @Description  Replace the modules and permissions of a member. Requires users/update_user.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        workspaceId  path      string                      true  "Workspace ID"
// @Param        userId       path      string                      true  "User ID"
// @Param        request      body      models.UpdateGrantsRequest  true  "New grants"
// @Success      200          {object}  response.Response{data=models.Membership}
// @Failure      400          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Failure      500          {object}  response.Response
// @Security     BearerAuth
// @Router       /workspaces/{workspaceId}/members/{userId}/grants [put]
func (h *MembershipHandler) UpdateGrants(c *gin.Context) {
	workspaceID, exists := middleware.GetWorkspaceID(c)
	if !exists {
		response.BadRequest(c, "workspace id not found in context")
		return
	}

	userID, ok := targetUserID(c)
	if !ok {
		return
	}

	var req models.UpdateGrantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	membership, err := h.service.UpdateGrants(c.Request.Context(), workspaceID, userID, &req)
	if err != nil {
		membershipError(c, err)
		return
	}

	response.Success(c, membership)
}

// UpdateRole godoc
// @Summary      Change a member's role
// @Description  Set a member's role to admin or staff. The owner's role cannot change. Requires users/update_user.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        workspaceId  path      string                    true  "Workspace ID"
// @Param        userId       path      string                    true  "User ID"
// @Param        request      body      models.UpdateRoleRequest  true  "New role"
// @Success      200          {object}  response.Response
// @Failure      400          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Failure      500          {object}  response.Response
// @Security     BearerAuth
// @Router       /workspaces/{workspaceId}/members/{userId}/role [put]
func (h *MembershipHandler) UpdateRole(c *gin.Context) {
	workspaceID, exists := middleware.GetWorkspaceID(c)
	if !exists {
		response.BadRequest(c, "workspace id not found in context")
		return
	}

	userID, ok := targetUserID(c)
	if !ok {
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.UpdateRole(c.Request.Context(), workspaceID, userID, req.Role); err != nil {
		membershipError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "role updated successfully"})
}

// RemoveMember godoc
// @Summary      Remove a member
// @Description  Remove a member from the workspace. Owners and the caller cannot be removed. Requires users/delete_user.
// @Tags         members
// @Produce      json
// @Param        workspaceId  path      string  true  "Workspace ID"
// @Param        userId       path      string  true  "User ID"
// @Success      200          {object}  response.Response
// @Failure      400          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Failure      404          {object}  response.Response
// @Failure      500          {object}  response.Response
// @Security     BearerAuth
// @Router       /workspaces/{workspaceId}/members/{userId} [delete]
func (h *MembershipHandler) RemoveMember(c *gin.Context) {
	workspaceID, exists := middleware.GetWorkspaceID(c)
	if !exists {
		response.BadRequest(c, "workspace id not found in context")
		return
	}

	userID, ok := targetUserID(c)
	if !ok {
		return
	}

	requestingUserID, _ := middleware.GetUserObjectID(c)

	if err := h.service.RemoveMember(c.Request.Context(), workspaceID, userID, requestingUserID); err != nil {
		membershipError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "member removed successfully"})
}
