// Package memory holds in-memory adapter implementations. The demo
// deployment has no real identity backend, so the user repository keeps
// a single canned profile in process memory.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mockcrypto/mockcrypto-backend/internal/domain"
)

// userRepository implements domain.UserRepository with a single demo user
type userRepository struct {
	mu      sync.Mutex
	profile domain.UserProfile
}

// NewUserRepository creates the demo user repository. The user starts
// logged in so the app is usable without a login flow.
func NewUserRepository() domain.UserRepository {
	return &userRepository{
		profile: domain.UserProfile{
			UserID:    "demo-user-001",
			Username:  "DemoTrader",
			Email:     "demo@mockcrypto.app",
			LoggedIn:  true,
			CreatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

// GetProfile retrieves the current user profile
func (r *userRepository) GetProfile(ctx context.Context) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile := r.profile
	return &profile, nil
}

// Login accepts any non-empty credentials and marks the user logged in
func (r *userRepository) Login(ctx context.Context, username, password string) (*domain.UserProfile, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.profile.Username = username
	r.profile.LoggedIn = true
	profile := r.profile
	return &profile, nil
}

// Logout marks the user as logged out
func (r *userRepository) Logout(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profile.LoggedIn = false
	return nil
}
