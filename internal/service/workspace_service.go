package service

import (
	"context"
	"log"

	"workspace-access/internal/cache"
	"workspace-access/internal/catalog"
	"workspace-access/internal/models"
	"workspace-access/internal/notify"
	"workspace-access/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkspaceService handles workspace business logic.
type WorkspaceService struct {
	workspaceRepo  repository.WorkspaceRepository
	membershipRepo repository.MembershipRepository
	cache          cache.Cache
	notifier       notify.Notifier
	catalog        *catalog.Catalog
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(
	workspaceRepo repository.WorkspaceRepository,
	membershipRepo repository.MembershipRepository,
	cache cache.Cache,
	notifier notify.Notifier,
	catalog *catalog.Catalog,
) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo:  workspaceRepo,
		membershipRepo: membershipRepo,
		cache:          cache,
		notifier:       notifier,
		catalog:        catalog,
	}
}

// CreateWorkspace creates a workspace. The creator becomes its owner with every catalog grant.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, userID primitive.ObjectID, req *models.CreateWorkspaceRequest) (*models.Workspace, error) {
	workspace := &models.Workspace{
		Name:      req.Name,
		Slug:      req.Slug,
		GSTNumber: req.GSTNumber,
		OwnerID:   userID,
	}

	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		return nil, err
	}

	owner := &models.Membership{
		WorkspaceID: workspace.ID,
		UserID:      userID,
		Role:        models.RoleOwner,
		Modules:     s.catalog.AllModules(),
		Permissions: s.catalog.AllPermissions(),
	}
	if err := s.membershipRepo.Create(ctx, owner); err != nil {
		// An ownerless workspace is unreachable and would hold its slug forever.
		if delErr := s.workspaceRepo.Delete(ctx, workspace.ID); delErr != nil {
			log.Printf("Failed to roll back workspace %s: %v", workspace.ID.Hex(), delErr)
		}
		return nil, err
	}

	grantsChanged(ctx, s.cache, s.notifier, userID, workspace.ID)

	return workspace, nil
}

// ListWorkspaces returns every workspace the user belongs to, with the user's role.
func (s *WorkspaceService) ListWorkspaces(ctx context.Context, userID primitive.ObjectID) (*models.WorkspaceListResponse, error) {
	memberships, err := s.membershipRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(memberships))
	for i, m := range memberships {
		ids[i] = m.WorkspaceID
	}

	workspaces, err := s.workspaceRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Workspace, len(workspaces))
	for _, w := range workspaces {
		byID[w.ID] = w
	}

	items := make([]models.WorkspaceWithRole, 0, len(memberships))
	for _, m := range memberships {
		w, ok := byID[m.WorkspaceID]
		if !ok {
			continue
		}
		items = append(items, models.WorkspaceWithRole{Workspace: w, Role: m.Role})
	}

	return &models.WorkspaceListResponse{Items: items}, nil
}

// GetWorkspace returns a workspace by ID.
func (s *WorkspaceService) GetWorkspace(ctx context.Context, workspaceID primitive.ObjectID) (*models.Workspace, error) {
	return s.workspaceRepo.FindByID(ctx, workspaceID)
}

// UpdateWorkspace updates a workspace's details.
func (s *WorkspaceService) UpdateWorkspace(ctx context.Context, workspaceID primitive.ObjectID, req *models.UpdateWorkspaceRequest) (*models.Workspace, error) {
	return s.workspaceRepo.Update(ctx, workspaceID, req)
}
