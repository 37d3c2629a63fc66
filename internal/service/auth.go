package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nkrv/shopchat/internal/config"
	"github.com/nkrv/shopchat/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the account persistence the auth service needs.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// AuthService issues and verifies the bearer tokens the HTTP layer hands to
// the dialogue engine as an authenticated identity. Logout revokes a
// token's jti into an in-process blocklist; entries become irrelevant once
// the token itself expires.
type AuthService struct {
	users  UserStore
	secret []byte

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> token expiry
}

func NewAuthService(users UserStore, secret string) *AuthService {
	return &AuthService{
		users:   users,
		secret:  []byte(secret),
		revoked: make(map[string]time.Time),
	}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.users.Create(ctx, username, email, string(hash))
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ChatID(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(config.TokenLifetime)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

// Verify parses a bearer token and returns the claims it carries. Revoked
// tokens fail with domain.ErrTokenRevoked.
func (s *AuthService) Verify(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	s.mu.Lock()
	_, isRevoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if isRevoked {
		return nil, domain.ErrTokenRevoked
	}
	return claims, nil
}

// Revoke blocklists a token's jti until its natural expiry.
func (s *AuthService) Revoke(claims *jwt.RegisteredClaims) {
	expiry := time.Now().Add(config.TokenLifetime)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[claims.ID] = expiry

	// Drop entries whose tokens already expired on their own.
	now := time.Now()
	for jti, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, jti)
		}
	}
}
