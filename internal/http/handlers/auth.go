package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wanderstay/bookings/internal/auth"
	"github.com/wanderstay/bookings/internal/config"
	"github.com/wanderstay/bookings/internal/domain/user"
	"github.com/wanderstay/bookings/internal/http/middlewares"
	"github.com/wanderstay/bookings/internal/resource"
	"github.com/wanderstay/bookings/internal/security"
)

// UserCredentialStore is the slice of the users repo the auth flow needs.
type UserCredentialStore interface {
	FindByIdentifier(ctx context.Context, identifier string) (user.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	Create(ctx context.Context, u user.User) (user.User, error)
}

// TokenIssuer issues signed session tokens.
type TokenIssuer interface {
	Generate(userID, email, role string) (string, error)
}

type AuthHandler struct {
	users UserCredentialStore
	jwt   TokenIssuer
}

func NewAuthHandler(users UserCredentialStore, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		RespondMessage(ctx, http.StatusBadRequest, "All fields required")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	// Pre-check on email OR username. Concurrent identical signups can
	// still race past this; the unique index settles it at insert time.
	exists, err := h.users.ExistsByEmailOrUsername(cctx, req.Email, req.Username)

	if err != nil {
		RespondMessage(ctx, http.StatusInternalServerError, "Could not create user")
		return
	}

	if exists {
		RespondMessage(ctx, http.StatusConflict, "User exists")
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondMessage(ctx, http.StatusInternalServerError, "Could not create user")
		return
	}

	created, err := h.users.Create(cctx, user.User{
		ID:       uuid.NewString(),
		Username: req.Username,
		Password: hash,
		Name:     req.Name,
		Email:    req.Email,
		Role:     user.DefaultRole,
	})

	if err != nil {
		if errors.Is(err, resource.ErrConflict) {
			RespondMessage(ctx, http.StatusConflict, "User exists")
			return
		}

		RespondMessage(ctx, http.StatusInternalServerError, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User created",
		"user":    created.Public(),
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		RespondMessage(ctx, http.StatusBadRequest, "Email/username and password required")
		return
	}

	identifier := req.Email

	if identifier == "" {
		identifier = req.Username
	}

	if identifier == "" || req.Password == "" {
		RespondMessage(ctx, http.StatusBadRequest, "Email/username and password required")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	foundUser, err := h.users.FindByIdentifier(cctx, identifier)

	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			RespondMessage(ctx, http.StatusUnauthorized, "User not found")
			return
		}

		RespondMessage(ctx, http.StatusInternalServerError, "Could not log in")
		return
	}

	if err := security.CheckPassword(foundUser.Password, req.Password); err != nil {
		RespondMessage(ctx, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.jwt.Generate(foundUser.ID, foundUser.Email, foundUser.Role)

	if err != nil {
		RespondMessage(ctx, http.StatusInternalServerError, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token":    token,
		"userId":   foundUser.ID,
		"username": foundUser.Username,
	})
}

// Protected echoes the verified identity; it exists so clients can probe a
// token without touching a resource.
func (h *AuthHandler) Protected(ctx *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(ctx)

	if !ok {
		RespondMessage(ctx, http.StatusUnauthorized, "No token provided")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "You have access!",
		"user":    claimsView(claims),
	})
}

func claimsView(claims *auth.Claims) gin.H {
	return gin.H{
		"id":    claims.UserID,
		"email": claims.Email,
		"role":  claims.Role,
	}
}
