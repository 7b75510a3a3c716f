package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"shelfscout/internal/apperr"
	"shelfscout/internal/authtoken"
	"shelfscout/internal/user"
)

const bcryptCost = 12

// AuthService handles registration, login and token refresh.
type AuthService struct {
	users user.Repository
}

func NewAuthService(users user.Repository) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) Register(ctx context.Context, req *user.RegisterRequest) (*user.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	username := strings.TrimSpace(req.Username)

	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validation("invalid email address")
	}
	if len(username) < 3 {
		return nil, apperr.Validation("username must be at least 3 characters")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		TrustScore:   decimal.RequireFromString("1.00"),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Validation("email or username already taken")
		}
		return nil, err
	}

	token, err := authtoken.Generate(u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &user.AuthResponse{User: u, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Validation("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Validation("invalid email or password")
	}

	token, err := authtoken.Generate(u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &user.AuthResponse{User: u, Token: token}, nil
}

func (s *AuthService) Refresh(ctx context.Context, userID uuid.UUID) (*user.AuthResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := authtoken.Generate(u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &user.AuthResponse{User: u, Token: token}, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}
