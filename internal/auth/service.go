package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/Josecau2/njfinish-sub001/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	sessions *shared.SessionManager
}

// NewService constructs a new Service.
func NewService(repo Repository, sessions *shared.SessionManager) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.sessions.Issue(ctx, shared.Identity{
		UserID:  user.ID,
		GroupID: user.GroupID,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes the bearer token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Resolve maps a bearer token to the identity it was issued for.
func (s *Service) Resolve(ctx context.Context, token string) (shared.Identity, error) {
	return s.sessions.Resolve(ctx, token)
}
