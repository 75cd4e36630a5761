package middleware

import (
	"errors"
	"log"
	"time"

	"workspace-access/internal/access"
	"workspace-access/internal/authz"
	apperrors "workspace-access/internal/errors"
	"workspace-access/internal/models"
	"workspace-access/pkg/response"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys for storing workspace data
const (
	WorkspaceIDKey   = "workspaceID"
	WorkspaceRoleKey = "workspaceRole"
	MembershipKey    = "membership"
)

// AccessRecorder receives denied access attempts.
type AccessRecorder interface {
	Record(event models.AccessEvent)
}

// WorkspaceAccess guards a /workspaces/:workspaceId route with a requirement.
// Denials are answered with 403 and passed to recorder when it is non-nil.
func WorkspaceAccess(authorizer authz.Authorizer, recorder AccessRecorder, q access.Query) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserObjectID(c)
		if !ok {
			response.Unauthorized(c, "user not authenticated")
			c.Abort()
			return
		}

		workspaceID, err := primitive.ObjectIDFromHex(c.Param("workspaceId"))
		if err != nil {
			response.BadRequest(c, "invalid workspace id format")
			c.Abort()
			return
		}

		membership, decision, err := authorizer.Authorize(c.Request.Context(), userID, workspaceID, q)
		switch {
		case errors.Is(err, apperrors.ErrNotWorkspaceMember):
			recordDenial(c, recorder, userID, workspaceID, q, decision, true)
			response.Forbidden(c, apperrors.ErrNotWorkspaceMember.Error())
			c.Abort()
			return
		case err != nil:
			log.Printf("Authorization failed for user %s in workspace %s: %v", userID.Hex(), workspaceID.Hex(), err)
			response.InternalError(c)
			c.Abort()
			return
		case !decision.Granted:
			recordDenial(c, recorder, userID, workspaceID, q, decision, false)
			response.ForbiddenWithDetails(c, decision.Message(), decision)
			c.Abort()
			return
		}

		c.Set(WorkspaceIDKey, workspaceID)
		c.Set(WorkspaceRoleKey, membership.Role)
		c.Set(MembershipKey, membership)

		c.Next()
	}
}

// WorkspaceMember guards a route with membership only.
func WorkspaceMember(authorizer authz.Authorizer, recorder AccessRecorder) gin.HandlerFunc {
	return WorkspaceAccess(authorizer, recorder, access.Query{})
}

func recordDenial(c *gin.Context, recorder AccessRecorder, userID, workspaceID primitive.ObjectID, q access.Query, d access.Decision, notMember bool) {
	if recorder == nil {
		return
	}
	recorder.Record(models.AccessEvent{
		RequestID:             GetRequestID(c),
		WorkspaceID:           workspaceID,
		UserID:                userID,
		Method:                c.Request.Method,
		Path:                  c.FullPath(),
		Requirement:           q.String(),
		ModuleCheckFailed:     d.ModuleCheckFailed,
		PermissionCheckFailed: d.PermissionCheckFailed,
		NotMember:             notMember,
		OccurredAt:            time.Now().UTC(),
	})
}

// GetWorkspaceID retrieves the guarded workspace ID from the context.
func GetWorkspaceID(c *gin.Context) (primitive.ObjectID, bool) {
	workspaceID, exists := c.Get(WorkspaceIDKey)
	if !exists {
		return primitive.NilObjectID, false
	}
	return workspaceID.(primitive.ObjectID), true
}

// GetWorkspaceRole retrieves the caller's role in the guarded workspace.
func GetWorkspaceRole(c *gin.Context) string {
	return c.GetString(WorkspaceRoleKey)
}

// GetMembership retrieves the caller's membership in the guarded workspace.
func GetMembership(c *gin.Context) *models.Membership {
	m, exists := c.Get(MembershipKey)
	if !exists {
		return nil
	}
	return m.(*models.Membership)
}
