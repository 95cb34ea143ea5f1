// server/internal/auth/auth.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"carbon-travel-api/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// JWTClaims defines the payload for the JWT.
type JWTClaims struct {
	UserID    string `json:"userId"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Hashing
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// TokenIssuer signs and verifies HS256 access and refresh tokens. Each kind
// has its own secret and is rejected where the other is expected.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessExpiry,
		refreshTTL:    cfg.RefreshExpiry,
		now:           time.Now,
	}
}

// TokenPair is returned on login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (t *TokenIssuer) IssuePair(userID string) (TokenPair, error) {
	access, err := t.IssueAccess(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := t.sign(userID, RefreshToken, t.refreshSecret, t.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (t *TokenIssuer) IssueAccess(userID string) (string, error) {
	return t.sign(userID, AccessToken, t.accessSecret, t.accessTTL)
}

// ParseAccess returns the user id carried by a valid access token.
func (t *TokenIssuer) ParseAccess(token string) (string, error) {
	return t.parse(token, AccessToken, t.accessSecret)
}

// ParseRefresh returns the user id carried by a valid refresh token.
func (t *TokenIssuer) ParseRefresh(token string) (string, error) {
	return t.parse(token, RefreshToken, t.refreshSecret)
}

func (t *TokenIssuer) sign(userID, kind string, secret []byte, ttl time.Duration) (string, error) {
	now := t.now()
	claims := &JWTClaims{
		UserID:    userID,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (t *TokenIssuer) parse(tokenString, kind string, secret []byte) (string, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid || claims.TokenType != kind || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
