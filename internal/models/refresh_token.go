package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RefreshToken is an opaque, revocable login credential. Access tokens are
// short-lived and stateless; this is the record that logout removes.
type RefreshToken struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Token     string             `json:"token" bson:"token"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	ExpiresAt time.Time          `json:"expiresAt" bson:"expiresAt"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// RefreshRequest carries the token to exchange.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required" example:"rf_5f1c0e..."`
}

// LogoutRequest carries the token to revoke.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required" example:"rf_5f1c0e..."`
}

// AuthResponse is returned by register and login. The dashboard fetches
// the membership snapshot separately from /session.
type AuthResponse struct {
	AccessToken  string `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIs..."`
	RefreshToken string `json:"refreshToken" example:"rf_5f1c0e..."`
	ExpiresIn    int    `json:"expiresIn" example:"900"`
	User         User   `json:"user"`
}

// RefreshResponse is returned by refresh.
type RefreshResponse struct {
	AccessToken string `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIs..."`
	ExpiresIn   int    `json:"expiresIn" example:"900"`
}
