// server/internal/api/handlers/user_handler.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"carbon-travel-api/internal/auth"
	"carbon-travel-api/internal/models"
	"carbon-travel-api/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const refreshCookie = "refreshToken"

type UserService interface {
	Signup(ctx context.Context, in users.SignupInput) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (*users.Session, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

type UserHandler struct {
	Users UserService
	// RefreshMaxAge is the refresh cookie lifetime in seconds.
	RefreshMaxAge int
	SecureCookie  bool
	Log           zerolog.Logger
}

type signupPayload struct {
	Name     string `json:"name" binding:"required"`
	UserName string `json:"userName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginPayload struct {
	UserDetail string `json:"userDetail" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type refreshPayload struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *UserHandler) Signup(c *gin.Context) {
	var payload signupPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	_, err := h.Users.Signup(c.Request.Context(), users.SignupInput{
		Name:     payload.Name,
		UserName: payload.UserName,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User details posted successfully Redirecting to login..."})
}

// Login returns an access token and sets the refresh token as an HTTP-only cookie.
func (h *UserHandler) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	session, err := h.Users.Login(c.Request.Context(), payload.UserDetail, payload.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, session.RefreshToken, h.RefreshMaxAge, "/", "", h.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    gin.H{"accessToken": session.AccessToken},
	})
}

// Refresh reads the refresh token from the cookie, or from the body when no
// cookie is sent.
func (h *UserHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshCookie)
	if err != nil || token == "" {
		var payload refreshPayload
		_ = c.ShouldBindJSON(&payload)
		token = payload.RefreshToken
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No refresh token"})
		return
	}

	access, err := h.Users.Refresh(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, users.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired refresh token"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"accessToken": access}})
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.Users.Me(c.Request.Context(), userID.Hex())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, users.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
	case errors.Is(err, users.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, users.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid password"})
	case errors.Is(err, users.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		h.Log.Error().Err(err).Str("path", c.FullPath()).Msg("User request failed")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
