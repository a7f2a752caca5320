package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/taskboardhq/taskboard/internal/client/api"
	"github.com/taskboardhq/taskboard/internal/client/store"
	"github.com/taskboardhq/taskboard/internal/model"
)

func authOK(t *testing.T, wantPath string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"accessToken": "issued-token",
			"user":        model.User{ID: "user-1", Email: "alice@example.com", Name: "Alice"},
		})
	})
}

func TestAuthService_Login(t *testing.T) {
	client, tokens := newTestClient(t, authOK(t, "/api/auth/login"))
	authStore := store.NewAuthStore()
	svc := api.NewAuthService(client, authStore)

	user, err := svc.Login(context.Background(), api.LoginInput{Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("expected user returned, got %+v", user)
	}
	if token, _ := tokens.Load(); token != "issued-token" {
		t.Errorf("expected token persisted, got %q", token)
	}
	if !authStore.IsAuthenticated() {
		t.Error("expected store authenticated")
	}
}

func TestAuthService_Register(t *testing.T) {
	client, tokens := newTestClient(t, authOK(t, "/api/auth/register"))
	authStore := store.NewAuthStore()
	svc := api.NewAuthService(client, authStore)

	_, err := svc.Register(context.Background(), api.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token, _ := tokens.Load(); token != "issued-token" {
		t.Errorf("expected token persisted, got %q", token)
	}
}

func TestAuthService_Login_FailureLeavesStoreSignedOut(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"INVALID_CREDENTIALS","message":"invalid email or password"}}`))
	}))
	authStore := store.NewAuthStore()
	svc := api.NewAuthService(client, authStore)

	_, err := svc.Login(context.Background(), api.LoginInput{Email: "alice@example.com", Password: "wrong"})
	if !api.IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401, got %v", err)
	}
	if authStore.IsAuthenticated() {
		t.Error("expected store signed out")
	}
	if token, _ := tokens.Load(); token != "" {
		t.Errorf("expected no token persisted, got %q", token)
	}
}

func TestAuthService_Logout(t *testing.T) {
	client, tokens := newTestClient(t, authOK(t, "/api/auth/login"))
	authStore := store.NewAuthStore()
	svc := api.NewAuthService(client, authStore)
	if _, err := svc.Login(context.Background(), api.LoginInput{Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}

	if err := svc.Logout(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if authStore.IsAuthenticated() {
		t.Error("expected signed out")
	}
	if token, _ := tokens.Load(); token != "" {
		t.Errorf("expected token cleared, got %q", token)
	}
}

func TestAuthService_LoadUser_NoToken(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	authStore := store.NewAuthStore()
	svc := api.NewAuthService(client, authStore)

	if err := svc.LoadUser(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requests != 0 {
		t.Errorf("expected no request without a token, got %d", requests)
	}
	if !authStore.Initialized() {
		t.Error("expected store marked initialized")
	}
	if authStore.IsAuthenticated() {
		t.Error("expected store signed out")
	}
}

func TestAuthService_LoadUser_RestoresSession(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(model.User{ID: "user-1", Email: "alice@example.com", Name: "Alice"})
	}))
	tokens.Save("stored-token")
	authStore := store.NewAuthStore()
	svc := api.NewAuthService(client, authStore)

	if err := svc.LoadUser(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	user, ok := authStore.User()
	if !ok || user.ID != "user-1" {
		t.Errorf("expected session restored, got %+v ok=%v", user, ok)
	}
}

func TestAuthService_LoadUser_RejectedTokenCleared(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"invalid or expired token"}}`))
	}))
	tokens.Save("expired-token")
	authStore := store.NewAuthStore()
	svc := api.NewAuthService(client, authStore)

	if err := svc.LoadUser(context.Background()); err != nil {
		t.Fatalf("expected rejected token handled quietly, got %v", err)
	}
	if token, _ := tokens.Load(); token != "" {
		t.Errorf("expected token cleared, got %q", token)
	}
	if authStore.IsAuthenticated() {
		t.Error("expected signed out")
	}
	if !authStore.Initialized() {
		t.Error("expected initialized after failed restore")
	}
}
