package service

import (
	"context"
	"fmt"
	"strings"

	"tunehub/backend/internal/model"
	"tunehub/backend/internal/repository"
)

// ProfileInput is what the frontend posts after the identity provider signs
// a user in.
type ProfileInput struct {
	ExternalID string
	FirstName  string
	LastName   string
	ImageURL   string
}

type AuthService interface {
	// SyncProfile creates the user on first sign-in and refreshes the stored
	// name and avatar afterwards.
	SyncProfile(ctx context.Context, in ProfileInput) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) SyncProfile(ctx context.Context, in ProfileInput) (*model.User, error) {
	if strings.TrimSpace(in.ExternalID) == "" {
		return nil, ErrMissingSubject
	}
	fullName := strings.TrimSpace(strings.TrimSpace(in.FirstName) + " " + strings.TrimSpace(in.LastName))
	user, err := s.userRepo.Upsert(ctx, &model.User{
		ExternalID: in.ExternalID,
		FullName:   fullName,
		ImageURL:   in.ImageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

var _ AuthService = (*authService)(nil)
