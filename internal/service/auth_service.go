// Package service provides application business logic (auth, items, messages).
package service

import (
	"context"

	"foundling/internal/auth"
	"foundling/internal/identity"
	"foundling/internal/models"
	"foundling/internal/repository"
)

// AuthService exchanges a provider credential for a session token,
// provisioning the account on first sign-in.
type AuthService struct {
	userRepo repository.UserRepository
	provider identity.Provider
	tokens   *auth.TokenService
}

// LoginResult carries the issued session token and the resolved account.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// NewAuthService returns a new AuthService.
func NewAuthService(userRepo repository.UserRepository, provider identity.Provider, tokens *auth.TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, provider: provider, tokens: tokens}
}

// Login verifies the credential with the identity provider, finds or creates
// the matching account, and issues a session token for it.
func (s *AuthService) Login(ctx context.Context, credential string) (*LoginResult, error) {
	if credential == "" {
		return nil, models.NewValidationError("Credential is required")
	}

	profile, err := s.provider.Verify(ctx, credential)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, profile.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &models.User{
			Email:     profile.Email,
			Name:      profile.Name,
			AvatarURL: profile.AvatarURL,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	} else if user.Name != profile.Name || user.AvatarURL != profile.AvatarURL {
		// Keep the stored profile in step with the provider.
		user.Name = profile.Name
		user.AvatarURL = profile.AvatarURL
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &LoginResult{Token: token, User: user}, nil
}
