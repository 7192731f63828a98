package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wanderstay/bookings/internal/auth"
	"github.com/wanderstay/bookings/internal/domain/user"
	"github.com/wanderstay/bookings/internal/http/handlers"
	"github.com/wanderstay/bookings/internal/http/middlewares"
	"github.com/wanderstay/bookings/internal/resource"
	"github.com/wanderstay/bookings/internal/security"
)

// Fake slice of the users repo the auth flow needs.

type fakeCredentialStore struct {
	findFn   func(ctx context.Context, identifier string) (user.User, error)
	existsFn func(ctx context.Context, email, username string) (bool, error)
	createFn func(ctx context.Context, u user.User) (user.User, error)
}

func (f *fakeCredentialStore) FindByIdentifier(ctx context.Context, identifier string) (user.User, error) {
	if f.findFn != nil {
		return f.findFn(ctx, identifier)
	}

	return user.User{}, resource.ErrNotFound
}

func (f *fakeCredentialStore) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, email, username)
	}

	return false, nil
}

func (f *fakeCredentialStore) Create(ctx context.Context, u user.User) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}

	return u, nil
}

type fakeTokenIssuer struct {
	generateFn func(userID, email, role string) (string, error)
}

func (f *fakeTokenIssuer) Generate(userID, email, role string) (string, error) {
	if f.generateFn != nil {
		return f.generateFn(userID, email, role)
	}

	return "fake.jwt.token", nil
}

func TestSignUpHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		storeSetup     func(*fakeCredentialStore)
		wantStatusCode int
		wantMessage    string
	}{
		{
			name: "success",
			body: `{
				"name": "John Doe",
				"username": "jdoe",
				"email": "jdoe@example.com",
				"password": "secret"
			}`,
			storeSetup: func(f *fakeCredentialStore) {
				f.createFn = func(ctx context.Context, u user.User) (user.User, error) {
					if u.Password == "secret" {
						return user.User{}, errors.New("password stored in plaintext")
					}

					if u.Role != user.DefaultRole {
						return user.User{}, errors.New("default role not applied")
					}

					return u, nil
				}
			},
			wantStatusCode: http.StatusCreated,
			wantMessage:    "User created",
		},
		{
			name:           "missing_fields",
			body:           `{"username": "jdoe"}`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "All fields required",
		},
		{
			name: "duplicate",
			body: `{
				"name": "John Doe",
				"username": "jdoe",
				"email": "jdoe@example.com",
				"password": "secret"
			}`,
			storeSetup: func(f *fakeCredentialStore) {
				f.existsFn = func(ctx context.Context, email, username string) (bool, error) {
					return true, nil
				}
			},
			wantStatusCode: http.StatusConflict,
			wantMessage:    "User exists",
		},
		{
			// Lost the pre-check race: the insert itself reports the
			// conflict and the response is the same 409.
			name: "insert_conflict",
			body: `{
				"name": "John Doe",
				"username": "jdoe",
				"email": "jdoe@example.com",
				"password": "secret"
			}`,
			storeSetup: func(f *fakeCredentialStore) {
				f.createFn = func(ctx context.Context, u user.User) (user.User, error) {
					return user.User{}, resource.Conflict("user with this username already exists.")
				}
			},
			wantStatusCode: http.StatusConflict,
			wantMessage:    "User exists",
		},
		{
			name: "store_error",
			body: `{
				"name": "John Doe",
				"username": "jdoe",
				"email": "jdoe@example.com",
				"password": "secret"
			}`,
			storeSetup: func(f *fakeCredentialStore) {
				f.createFn = func(ctx context.Context, u user.User) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeCredentialStore{}

			if tt.storeSetup != nil {
				tt.storeSetup(store)
			}

			h := handlers.NewAuthHandler(store, &fakeTokenIssuer{})
			r := setupRouter(http.MethodPost, "/signup", h.SignUp)

			req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantMessage != "" {
				var resp map[string]any

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}

				if resp["message"] != tt.wantMessage {
					t.Fatalf("got message %v, want %q", resp["message"], tt.wantMessage)
				}
			}

			if tt.wantStatusCode == http.StatusCreated {
				var resp struct {
					User map[string]any `json:"user"`
				}

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}

				if _, leaked := resp.User["password"]; leaked {
					t.Fatalf("password leaked in signup response: %v", resp.User)
				}
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("secret")

	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	known := user.User{
		ID:       newUUID(),
		Username: "jdoe",
		Password: hash,
		Email:    "jdoe@example.com",
		Role:     "USER",
	}

	tests := []struct {
		name           string
		body           string
		storeSetup     func(*fakeCredentialStore)
		wantStatusCode int
		wantMessage    string
	}{
		{
			name: "success_by_email",
			body: `{"email": "jdoe@example.com", "password": "secret"}`,
			storeSetup: func(f *fakeCredentialStore) {
				f.findFn = func(ctx context.Context, identifier string) (user.User, error) {
					if identifier != "jdoe@example.com" {
						return user.User{}, errors.New("wrong identifier passed")
					}

					return known, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "success_by_username",
			body: `{"username": "jdoe", "password": "secret"}`,
			storeSetup: func(f *fakeCredentialStore) {
				f.findFn = func(ctx context.Context, identifier string) (user.User, error) {
					if identifier != "jdoe" {
						return user.User{}, errors.New("wrong identifier passed")
					}

					return known, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_credentials",
			body:           `{"password": "secret"}`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Email/username and password required",
		},
		{
			name: "unknown_user",
			body: `{"email": "nobody@example.com", "password": "secret"}`,
			storeSetup: func(f *fakeCredentialStore) {
				f.findFn = func(ctx context.Context, identifier string) (user.User, error) {
					return user.User{}, resource.ErrNotFound
				}
			},
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "User not found",
		},
		{
			name: "wrong_password",
			body: `{"email": "jdoe@example.com", "password": "wrong"}`,
			storeSetup: func(f *fakeCredentialStore) {
				f.findFn = func(ctx context.Context, identifier string) (user.User, error) {
					return known, nil
				}
			},
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Invalid credentials",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeCredentialStore{}

			if tt.storeSetup != nil {
				tt.storeSetup(store)
			}

			h := handlers.NewAuthHandler(store, &fakeTokenIssuer{})
			r := setupRouter(http.MethodPost, "/login", h.Login)

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantMessage != "" {
				var resp map[string]string

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}

				if resp["message"] != tt.wantMessage {
					t.Fatalf("got message %q, want %q", resp["message"], tt.wantMessage)
				}
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					Token    string `json:"token"`
					UserID   string `json:"userId"`
					Username string `json:"username"`
				}

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}

				if resp.Token == "" {
					t.Fatalf("expected a token in the response, body=%s", w.Body.String())
				}

				if resp.UserID != known.ID || resp.Username != known.Username {
					t.Fatalf("unexpected identity in response: %+v", resp)
				}
			}
		})
	}
}

func TestProtectedHandler(t *testing.T) {
	manager := auth.NewManager("test-secret", time.Hour)

	token, err := manager.Generate("user-1", "jdoe@example.com", "USER")

	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	h := handlers.NewAuthHandler(&fakeCredentialStore{}, manager)
	authMW := middlewares.NewAuthMiddleware(manager)

	r := gin.New()
	r.GET("/protected", authMW.RequireAuth(), h.Protected)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Message string         `json:"message"`
		User    map[string]any `json:"user"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Message != "You have access!" {
		t.Fatalf("got message %q, want %q", resp.Message, "You have access!")
	}

	if resp.User["id"] != "user-1" || resp.User["email"] != "jdoe@example.com" || resp.User["role"] != "USER" {
		t.Fatalf("unexpected claims echoed back: %v", resp.User)
	}
}
