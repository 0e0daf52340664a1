package service

import (
	"context"

	"storefront-core/models"
)

// ProfileServiceInterface defines the contract for the directory + session profile owner
type ProfileServiceInterface interface {
	Current() models.SessionProfile
	UserID() string
	Hydrate(ctx context.Context) (models.SessionProfile, error)
	Update(ctx context.Context, patch models.ProfilePatch) (models.SessionProfile, error)
	// RecomputeStatistics is the only writer of stats; it derives them from the order collections.
	RecomputeStatistics(ctx context.Context) (models.UserStats, error)
	// AddOrder warms the in-memory stats until the next RecomputeStatistics.
	AddOrder(amount float64)
	SignOut(ctx context.Context) error
	GrantAdmin(ctx context.Context, email string) (*models.UserRecord, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.UserRecord, error)
	SignIn(ctx context.Context, req models.SignInRequest) (models.SessionProfile, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}

// UserCollections moves a user's namespaced collections when their email changes
type UserCollections interface {
	Rename(ctx context.Context, oldID, newID string) (int, error)
}
