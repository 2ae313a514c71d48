package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/travel-log/internal/auth"
	"github.com/pkordes/travel-log/internal/domain"
	"github.com/pkordes/travel-log/internal/repo"
)

// tokenIssuer is the subset of *auth.TokenManager used here.
type tokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// AuthService handles account creation and credential checks.
type AuthService struct {
	store  repo.Store
	tokens tokenIssuer
}

// NewAuthService constructs an AuthService that issues tokens with tokens.
func NewAuthService(s repo.Store, tokens tokenIssuer) *AuthService {
	return &AuthService{store: s, tokens: tokens}
}

// Signup validates in, hashes the password and creates the user.
// A taken email returns domain.ErrConflict.
func (s *AuthService) Signup(ctx context.Context, in domain.Signup) (domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return domain.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Signup: %w", err)
	}

	var user domain.User
	err = s.store.WithTx(ctx, repo.ReadWrite, func(tx repo.Store) error {
		var err error
		user, err = tx.Users().Create(ctx, domain.User{Name: in.Name, Email: in.Email, PasswordHash: hash})
		return err
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Signup: %w", err)
	}
	return user, nil
}

// Login checks email and password and returns a fresh access token.
// Unknown emails and wrong passwords both return domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user domain.User
	err := s.store.WithTx(ctx, repo.ReadOnly, func(tx repo.Store) error {
		var err error
		user, err = tx.Users().GetByEmail(ctx, strings.TrimSpace(email))
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("%w: incorrect email or password", domain.ErrUnauthorized)
	}
	if err != nil {
		return "", fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", fmt.Errorf("%w: incorrect email or password", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return token, nil
}

// Me returns the user a verified token belongs to. A token for a user that
// no longer exists is unauthorized.
func (s *AuthService) Me(ctx context.Context, id uuid.UUID) (domain.User, error) {
	var user domain.User
	err := s.store.WithTx(ctx, repo.ReadOnly, func(tx repo.Store) error {
		var err error
		user, err = tx.Users().GetByID(ctx, id)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Me: %w", err)
	}
	return user, nil
}
