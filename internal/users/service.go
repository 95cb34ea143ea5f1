package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carbon-travel-api/internal/auth"
	"carbon-travel-api/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const minPasswordLength = 8

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidInput    = errors.New("invalid user data")
)

// Store persists accounts. Lookups return nil, nil on a miss.
type Store interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByLogin(ctx context.Context, identifier string) (*models.User, error)
	Exists(ctx context.Context, email, userName string) (bool, error)
	TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type SignupInput struct {
	Name     string
	UserName string
	Email    string
	Password string
}

// Session is the result of a successful login.
type Session struct {
	User *models.User
	auth.TokenPair
}

type Service struct {
	store  Store
	tokens *auth.TokenIssuer
	now    func() time.Time
}

func NewService(store Store, tokens *auth.TokenIssuer) *Service {
	return &Service{store: store, tokens: tokens, now: time.Now}
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.UserName = strings.TrimSpace(in.UserName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.UserName == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: name, userName and email are required", ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	exists, err := s.store.Exists(ctx, in.Email, in.UserName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		Name:        in.Name,
		UserName:    in.UserName,
		Email:       in.Email,
		Password:    hash,
		DateLogin:   s.now(),
		Preferences: models.DefaultPreferences(),
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login accepts an email or a userName as identifier.
func (s *Service) Login(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("%w: identifier and password are required", ErrInvalidInput)
	}
	user, err := s.store.FindByLogin(ctx, identifier)
	if err == nil && user == nil && strings.Contains(identifier, "@") {
		user, err = s.store.FindByLogin(ctx, strings.ToLower(identifier))
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !auth.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidPassword
	}

	pair, err := s.tokens.IssuePair(user.ID.Hex())
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.store.TouchLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.DateLogin = now
	return &Session{User: user, TokenPair: pair}, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	if _, err := s.Me(ctx, userID); err != nil {
		return "", err
	}
	return s.tokens.IssueAccess(userID)
}

func (s *Service) Me(ctx context.Context, userID string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
