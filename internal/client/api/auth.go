package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/taskboardhq/taskboard/internal/client/store"
	"github.com/taskboardhq/taskboard/internal/model"
)

// AuthService drives the session lifecycle: login and registration
// persist the issued token and record the user; LoadUser restores a
// session from a stored token at startup.
type AuthService struct {
	client *Client
	store  *store.AuthStore
}

func NewAuthService(client *Client, authStore *store.AuthStore) *AuthService {
	return &AuthService{client: client, store: authStore}
}

func (s *AuthService) Store() *store.AuthStore { return s.store }

type authResponse struct {
	AccessToken string     `json:"accessToken"`
	User        model.User `json:"user"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (model.User, error) {
	var resp authResponse
	if err := s.client.do(ctx, http.MethodPost, "/api/auth/register", input, &resp); err != nil {
		return model.User{}, err
	}
	return s.startSession(resp)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (model.User, error) {
	var resp authResponse
	if err := s.client.do(ctx, http.MethodPost, "/api/auth/login", input, &resp); err != nil {
		return model.User{}, err
	}
	return s.startSession(resp)
}

func (s *AuthService) startSession(resp authResponse) (model.User, error) {
	if err := s.client.Tokens().Save(resp.AccessToken); err != nil {
		return model.User{}, fmt.Errorf("persist token: %w", err)
	}
	s.store.SetUser(resp.User)
	return resp.User, nil
}

// Logout discards the stored token and clears the user.
func (s *AuthService) Logout() error {
	s.store.Logout()
	if err := s.client.Tokens().Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// LoadUser restores the session from a previously stored token. Without a
// token the store is only marked initialized; a rejected token is cleared
// and the store left signed out. Only transport failures are returned.
func (s *AuthService) LoadUser(ctx context.Context) error {
	token, err := s.client.Tokens().Load()
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		s.store.SetInitialized()
		return nil
	}

	var user model.User
	if err := s.client.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		_ = s.client.Tokens().Clear()
		s.store.Logout()
		if IsStatus(err, http.StatusUnauthorized) {
			return nil
		}
		return err
	}
	s.store.SetUser(user)
	return nil
}
