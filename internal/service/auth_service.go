// Package service contains business logic for the application.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"workspace-access/internal/cache"
	apperrors "workspace-access/internal/errors"
	"workspace-access/internal/models"
	"workspace-access/internal/repository"
	"workspace-access/pkg/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService handles authentication business logic.
type AuthService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	cache            cache.Cache
	jwtManager       auth.TokenManager
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cache cache.Cache,
	jwtManager auth.TokenManager,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		cache:            cache,
		jwtManager:       jwtManager,
		accessTokenTTL:   accessTokenTTL,
		refreshTokenTTL:  refreshTokenTTL,
	}
}

// Register creates a new user account and returns auth tokens.
func (s *AuthService) Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error) {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.generateAuthResponse(ctx, user)
}

// Login authenticates a user and returns auth tokens.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := auth.CheckPassword(req.Password, user.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.generateAuthResponse(ctx, user)
}

// Refresh exchanges a refresh token for a new access token.
// The cache is consulted first; a miss falls back to the database.
func (s *AuthService) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.RefreshResponse, error) {
	userID, err := s.cache.GetRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}

	if userID == "" {
		refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, req.RefreshToken)
		if err != nil {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		userID = refreshToken.UserID.Hex()

		if ttl := time.Until(refreshToken.ExpiresAt); ttl > 0 {
			_ = s.cache.SetRefreshToken(ctx, req.RefreshToken, userID, ttl)
		}
	}

	accessToken, err := s.jwtManager.GenerateToken(userID)
	if err != nil {
		return nil, err
	}

	return &models.RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.accessTokenTTL.Seconds()),
	}, nil
}

// Logout invalidates a refresh token.
func (s *AuthService) Logout(ctx context.Context, req *models.LogoutRequest) error {
	if err := s.refreshTokenRepo.DeleteByToken(ctx, req.RefreshToken); err != nil {
		return err
	}

	_ = s.cache.DeleteRefreshTokens(ctx, req.RefreshToken)

	return nil
}

// LogoutAll invalidates all refresh tokens for a user.
func (s *AuthService) LogoutAll(ctx context.Context, userID primitive.ObjectID) error {
	tokens, err := s.refreshTokenRepo.FindAllByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if len(tokens) > 0 {
		tokenStrings := make([]string, len(tokens))
		for i, t := range tokens {
			tokenStrings[i] = t.Token
		}
		// Best-effort; the database delete below is authoritative.
		_ = s.cache.DeleteRefreshTokens(ctx, tokenStrings...)
	}

	return s.refreshTokenRepo.DeleteByUserID(ctx, userID)
}

func (s *AuthService) generateAuthResponse(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, err
	}

	refreshTokenStr, err := s.issueRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenStr,
		ExpiresIn:    int(s.accessTokenTTL.Seconds()),
		User:         *user,
	}, nil
}

// generateRandomToken creates a cryptographically secure random token.
func generateRandomToken() string {
	bytes := make([]byte, 32)
	_, _ = rand.Read(bytes)
	return "rf_" + hex.EncodeToString(bytes)
}

func (s *AuthService) issueRefreshToken(ctx context.Context, userID primitive.ObjectID) (string, error) {
	refreshTokenStr := generateRandomToken()

	refreshToken := &models.RefreshToken{
		Token:     refreshTokenStr,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}

	_ = s.cache.SetRefreshToken(ctx, refreshTokenStr, userID.Hex(), s.refreshTokenTTL)

	return refreshTokenStr, nil
}
