package middlewares_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wanderstay/bookings/internal/auth"
	"github.com/wanderstay/bookings/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake verifier so the middleware can be exercised without real signing.

type fakeVerifier struct {
	verifyFn func(token string) (*auth.Claims, error)
}

func (f *fakeVerifier) Verify(token string) (*auth.Claims, error) {
	if f.verifyFn != nil {
		return f.verifyFn(token)
	}

	return nil, auth.ErrInvalidToken
}

func okVerifier() *fakeVerifier {
	return &fakeVerifier{
		verifyFn: func(token string) (*auth.Claims, error) {
			return &auth.Claims{UserID: "user-1", Email: "jdoe@example.com", Role: "USER"}, nil
		},
	}
}

func echoClaims(c *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(c)

	if !ok {
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": claims.UserID})
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		verifier       *fakeVerifier
		wantStatusCode int
		wantMessage    string
	}{
		{
			name:           "valid_token",
			header:         "Bearer good-token",
			verifier:       okVerifier(),
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_header",
			header:         "",
			verifier:       okVerifier(),
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "No token provided",
		},
		{
			name:           "not_bearer",
			header:         "Basic dXNlcjpwYXNz",
			verifier:       okVerifier(),
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "No token provided",
		},
		{
			name:           "invalid_token",
			header:         "Bearer bad-token",
			verifier:       &fakeVerifier{},
			wantStatusCode: http.StatusForbidden,
			wantMessage:    "Invalid or expired token",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			mw := middlewares.NewAuthMiddleware(tt.verifier)

			r := gin.New()
			r.GET("/protected", mw.RequireAuth(), echoClaims)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)

			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

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
				var resp map[string]any

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}

				if resp["id"] != "user-1" {
					t.Fatalf("claims not attached to context: %v", resp)
				}
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		verifier       *fakeVerifier
		wantStatusCode int
		wantAnonymous  bool
	}{
		{
			// Anonymous requests pass straight through.
			name:           "no_token",
			header:         "",
			verifier:       okVerifier(),
			wantStatusCode: http.StatusOK,
			wantAnonymous:  true,
		},
		{
			name:           "valid_token_attaches_claims",
			header:         "Bearer good-token",
			verifier:       okVerifier(),
			wantStatusCode: http.StatusOK,
		},
		{
			// A token that is present but bad is still rejected.
			name:           "invalid_token",
			header:         "Bearer bad-token",
			verifier:       &fakeVerifier{},
			wantStatusCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			mw := middlewares.NewAuthMiddleware(tt.verifier)

			r := gin.New()
			r.GET("/users", mw.OptionalAuth(), echoClaims)

			req := httptest.NewRequest(http.MethodGet, "/users", nil)

			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode != http.StatusOK {
				return
			}

			var resp map[string]any

			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}

			if tt.wantAnonymous {
				if resp["anonymous"] != true {
					t.Fatalf("expected anonymous pass-through, got %v", resp)
				}

				return
			}

			if resp["id"] != "user-1" {
				t.Fatalf("claims not attached to context: %v", resp)
			}
		})
	}
}
