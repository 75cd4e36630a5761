package auth

//go:generate mockgen -destination=mocks/mock_jwt.go -package=mocks workspace-access/pkg/auth TokenManager

// TokenManager issues and verifies the short-lived access tokens that carry
// a user ID. Workspace grants are never embedded in the token.
type TokenManager interface {
	GenerateToken(userID string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

var _ TokenManager = (*JWTManager)(nil)
