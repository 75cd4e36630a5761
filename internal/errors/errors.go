// Package errors provides custom error types for the application.
package errors

import "errors"

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Auth errors
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// Workspace errors
var (
	ErrWorkspaceNotFound   = errors.New("workspace not found")
	ErrWorkspaceSlugTaken  = errors.New("workspace slug is already taken")
	ErrNoWorkspaceSelected = errors.New("no workspace selected")
)

// Membership errors
var (
	ErrNotWorkspaceMember      = errors.New("you are not a member of this workspace")
	ErrAlreadyMember           = errors.New("user is already a member of this workspace")
	ErrCannotRemoveOwner       = errors.New("cannot remove workspace owner")
	ErrCannotRemoveSelf        = errors.New("cannot remove yourself")
	ErrCannotChangeOwnerRole   = errors.New("cannot change owner role")
	ErrCannotChangeOwnerGrants = errors.New("cannot change owner grants")
	ErrInvalidRole             = errors.New("invalid role, must be admin or staff")
)

// Access errors
var (
	ErrAccessDenied = errors.New("access denied")
)
