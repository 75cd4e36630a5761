package service

import (
	"context"
	"log"

	"workspace-access/internal/cache"
	"workspace-access/internal/catalog"
	apperrors "workspace-access/internal/errors"
	"workspace-access/internal/models"
	"workspace-access/internal/notify"
	"workspace-access/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MembershipService manages who belongs to a workspace and what they are granted.
type MembershipService struct {
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	cache          cache.Cache
	notifier       notify.Notifier
	catalog        *catalog.Catalog
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	cache cache.Cache,
	notifier notify.Notifier,
	catalog *catalog.Catalog,
) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		cache:          cache,
		notifier:       notifier,
		catalog:        catalog,
	}
}

// ListMembers returns all members of a workspace with user details.
func (s *MembershipService) ListMembers(ctx context.Context, workspaceID primitive.ObjectID) (*models.MemberListResponse, error) {
	memberships, err := s.membershipRepo.FindByWorkspaceID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]primitive.ObjectID, len(memberships))
	for i, m := range memberships {
		userIDs[i] = m.UserID
	}

	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	userMap := make(map[primitive.ObjectID]*models.UserSummary, len(users))
	for _, u := range users {
		userMap[u.ID] = &models.UserSummary{ID: u.ID, Email: u.Email, Name: u.Name}
	}

	items := make([]models.MembershipWithUser, len(memberships))
	for i, m := range memberships {
		items[i] = models.MembershipWithUser{Membership: m, User: userMap[m.UserID]}
	}

	return &models.MemberListResponse{Items: items}, nil
}

// AddMember adds an existing user, looked up by email, to the workspace.
func (s *MembershipService) AddMember(ctx context.Context, workspaceID primitive.ObjectID, req *models.AddMemberRequest) (*models.MembershipWithUser, error) {
	if !isAssignableRole(req.Role) {
		return nil, apperrors.ErrInvalidRole
	}

	modules, permissions, err := normalizeGrants(s.catalog, req.Modules, req.Permissions)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	membership := &models.Membership{
		WorkspaceID: workspaceID,
		UserID:      user.ID,
		Role:        req.Role,
		Modules:     modules,
		Permissions: permissions,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, err
	}

	grantsChanged(ctx, s.cache, s.notifier, user.ID, workspaceID)

	return &models.MembershipWithUser{
		Membership: *membership,
		User:       &models.UserSummary{ID: user.ID, Email: user.Email, Name: user.Name},
	}, nil
}

// UpdateGrants replaces a member's modules and permissions. The owner keeps every grant.
func (s *MembershipService) UpdateGrants(ctx context.Context, workspaceID, userID primitive.ObjectID, req *models.UpdateGrantsRequest) (*models.Membership, error) {
	modules, permissions, err := normalizeGrants(s.catalog, req.Modules, req.Permissions)
	if err != nil {
		return nil, err
	}

	target, err := s.membershipRepo.FindByWorkspaceAndUser(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if target.Role == models.RoleOwner {
		return nil, apperrors.ErrCannotChangeOwnerGrants
	}

	if err := s.membershipRepo.UpdateGrants(ctx, workspaceID, userID, modules, permissions); err != nil {
		return nil, err
	}

	grantsChanged(ctx, s.cache, s.notifier, userID, workspaceID)

	return s.membershipRepo.FindByWorkspaceAndUser(ctx, workspaceID, userID)
}

// UpdateRole changes a member's role. The owner's role is fixed.
func (s *MembershipService) UpdateRole(ctx context.Context, workspaceID, userID primitive.ObjectID, role string) error {
	if !isAssignableRole(role) {
		return apperrors.ErrInvalidRole
	}

	target, err := s.membershipRepo.FindByWorkspaceAndUser(ctx, workspaceID, userID)
	if err != nil {
		return err
	}
	if target.Role == models.RoleOwner {
		return apperrors.ErrCannotChangeOwnerRole
	}

	if err := s.membershipRepo.UpdateRole(ctx, workspaceID, userID, role); err != nil {
		return err
	}

	grantsChanged(ctx, s.cache, s.notifier, userID, workspaceID)
	return nil
}

// RemoveMember removes a member. Owners cannot be removed and callers cannot remove themselves.
func (s *MembershipService) RemoveMember(ctx context.Context, workspaceID, targetUserID, requestingUserID primitive.ObjectID) error {
	if targetUserID == requestingUserID {
		return apperrors.ErrCannotRemoveSelf
	}

	target, err := s.membershipRepo.FindByWorkspaceAndUser(ctx, workspaceID, targetUserID)
	if err != nil {
		return err
	}
	if target.Role == models.RoleOwner {
		return apperrors.ErrCannotRemoveOwner
	}

	if err := s.membershipRepo.Delete(ctx, workspaceID, targetUserID); err != nil {
		return err
	}

	s.clearSelection(ctx, targetUserID, workspaceID)
	grantsChanged(ctx, s.cache, s.notifier, targetUserID, workspaceID)
	return nil
}

// clearSelection unselects workspaceID for a removed member.
func (s *MembershipService) clearSelection(ctx context.Context, userID, workspaceID primitive.ObjectID) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user.SelectedWorkspaceID != workspaceID {
		return
	}
	if err := s.userRepo.SetSelectedWorkspace(ctx, userID, primitive.NilObjectID); err != nil {
		log.Printf("Failed to clear selected workspace for user %s: %v", userID.Hex(), err)
	}
}

func isAssignableRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleStaff
}
