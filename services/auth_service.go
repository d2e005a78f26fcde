package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/xid"
	"golang.org/x/crypto/bcrypt"
)

const (
	organizerSubject = "organizer"
	tokenIssuer      = "tournament-engine"
)

// OrganizerClaims are carried by tokens that may apply commands.
type OrganizerClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Login checks the organizer password and issues a signed token.
	Login(ctx context.Context, password string) (token string, expiresAt time.Time, err error)
	// Verify parses and validates a token.
	Verify(token string) (*OrganizerClaims, error)
}

type authService struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthService(passwordHash, secret string, ttl time.Duration) AuthService {
	return &authService{
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          ttl,
		now:          time.Now,
	}
}

func (s *authService) Login(ctx context.Context, password string) (string, time.Time, error) {
	if password == "" {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, fmt.Errorf("failed to compare password hash: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := OrganizerClaims{
		Role: organizerSubject,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Issuer:    tokenIssuer,
			Subject:   organizerSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *authService) Verify(token string) (*OrganizerClaims, error) {
	claims := &OrganizerClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	if claims.Role != organizerSubject || claims.Issuer != tokenIssuer {
		return nil, fmt.Errorf("%w: unexpected role %q", ErrAuthenticationFailed, claims.Role)
	}
	return claims, nil
}
