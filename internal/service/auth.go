package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboardhq/taskboard/internal/model"
	"github.com/taskboardhq/taskboard/internal/repository"
)

const bcryptCost = 10

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthOutput struct {
	AccessToken string     `json:"accessToken"`
	User        model.User `json:"user"`
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthOutput, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return AuthOutput{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return AuthOutput{}, fmt.Errorf("%w: user with this email already exists", ErrConflict)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return AuthOutput{}, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return AuthOutput{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		Name:         name,
		PasswordHash: string(hash),
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// Two registrations can race past the GetByEmail check; the
		// loser hits the unique index on LOWER(email).
		if isUniqueViolation(err) {
			return AuthOutput{}, fmt.Errorf("%w: user with this email already exists", ErrConflict)
		}
		return AuthOutput{}, fmt.Errorf("failed to create user: %w", err)
	}

	accessToken, err := s.tokens.Issue(created.ID)
	if err != nil {
		return AuthOutput{}, fmt.Errorf("failed to issue token: %w", err)
	}

	// The account stores the lowercased email; the response keeps the
	// caller's casing.
	created.Email = email
	return AuthOutput{AccessToken: accessToken, User: created}, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthOutput, error) {
	if input.Email == "" || input.Password == "" {
		return AuthOutput{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AuthOutput{}, ErrInvalidCredentials
		}
		return AuthOutput{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return AuthOutput{}, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthOutput{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return AuthOutput{AccessToken: accessToken, User: user}, nil
}

// GetUser resolves a user id from a verified token to the account record.
func (s *AuthService) GetUser(ctx context.Context, id string) (model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
