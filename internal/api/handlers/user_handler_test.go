package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carbon-travel-api/internal/auth"
	"carbon-travel-api/internal/models"
	"carbon-travel-api/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUsers struct {
	err     error
	signup  users.SignupInput
	refresh string
	user    *models.User
}

func (f *fakeUsers) Signup(_ context.Context, in users.SignupInput) (*models.User, error) {
	f.signup = in
	return f.user, f.err
}

func (f *fakeUsers) Login(_ context.Context, identifier, password string) (*users.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &users.Session{User: f.user, TokenPair: auth.TokenPair{AccessToken: "acc", RefreshToken: "ref"}}, nil
}

func (f *fakeUsers) Refresh(_ context.Context, token string) (string, error) {
	f.refresh = token
	if f.err != nil {
		return "", f.err
	}
	return "new-access", nil
}

func (f *fakeUsers) Me(context.Context, string) (*models.User, error) {
	return f.user, f.err
}

func userRouter(svc *fakeUsers, user primitive.ObjectID) *gin.Engine {
	h := &UserHandler{Users: svc, RefreshMaxAge: 3600, Log: zerolog.Nop()}
	r := gin.New()
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.GET("/auth/me", asUser(user), h.Me)
	return r
}

func TestUserHandler_Signup(t *testing.T) {
	valid := gin.H{"name": "Ada", "userName": "ada", "email": "ada@example.com", "password": "longenough"}

	tests := []struct {
		name   string
		body   gin.H
		err    error
		status int
	}{
		{"created", valid, nil, http.StatusCreated},
		{"duplicate", valid, users.ErrUserExists, http.StatusConflict},
		{"short password", gin.H{"name": "Ada", "userName": "ada", "email": "ada@example.com", "password": "short"}, nil, http.StatusBadRequest},
		{"bad email", gin.H{"name": "Ada", "userName": "ada", "email": "nope", "password": "longenough"}, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeUsers{err: tt.err, user: &models.User{ID: primitive.NewObjectID()}}
			w := doJSON(t, userRouter(svc, primitive.NewObjectID()), http.MethodPost, "/signup", tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestUserHandler_LoginSetsRefreshCookie(t *testing.T) {
	svc := &fakeUsers{user: &models.User{ID: primitive.NewObjectID()}}
	w := doJSON(t, userRouter(svc, primitive.NewObjectID()), http.MethodPost, "/login", gin.H{"userDetail": "ada", "password": "longenough"})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "acc", decode(t, w)["data"].(map[string]any)["accessToken"])
	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "refreshToken=ref")
	assert.Contains(t, cookie, "HttpOnly")

	svc.err = users.ErrInvalidPassword
	w = doJSON(t, userRouter(svc, primitive.NewObjectID()), http.MethodPost, "/login", gin.H{"userDetail": "ada", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandler_Refresh(t *testing.T) {
	t.Run("from cookie", func(t *testing.T) {
		svc := &fakeUsers{}
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "cookie-token"})
		w := httptest.NewRecorder()
		userRouter(svc, primitive.NewObjectID()).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "cookie-token", svc.refresh)
		assert.Equal(t, "new-access", decode(t, w)["data"].(map[string]any)["accessToken"])
	})

	t.Run("from body", func(t *testing.T) {
		svc := &fakeUsers{}
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refreshToken":"body-token"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		userRouter(svc, primitive.NewObjectID()).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "body-token", svc.refresh)
	})

	t.Run("missing", func(t *testing.T) {
		w := doJSON(t, userRouter(&fakeUsers{}, primitive.NewObjectID()), http.MethodPost, "/auth/refresh", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid", func(t *testing.T) {
		svc := &fakeUsers{err: auth.ErrInvalidToken}
		w := doJSON(t, userRouter(svc, primitive.NewObjectID()), http.MethodPost, "/auth/refresh", gin.H{"refreshToken": "x"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUserHandler_Me(t *testing.T) {
	id := primitive.NewObjectID()
	svc := &fakeUsers{user: &models.User{ID: id, Name: "Ada", Password: "hash"}}
	w := doJSON(t, userRouter(svc, id), http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	out := decode(t, w)
	assert.Equal(t, true, out["ok"])
	user := out["user"].(map[string]any)
	assert.Equal(t, "Ada", user["name"])
	assert.NotContains(t, user, "password")
}
