package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 30 * 24 * time.Hour
)

// sessionClaims is the claim set of both token kinds.
type sessionClaims struct {
	Kind ports.TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless HS256 session tokens. Issuing
// is deterministic for a given secret, clock reading and subject.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, opts ...TokenOption) *TokenService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	s := &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenService) IssueAccessToken(subject string) (string, error) {
	return s.issue(subject, ports.AccessToken, s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(subject string) (string, error) {
	return s.issue(subject, ports.RefreshToken, s.refreshTTL)
}

func (s *TokenService) issue(subject string, kind ports.TokenKind, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("issue %s token: empty subject", kind)
	}
	now := s.now()
	claims := sessionClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify returns the token subject. Any signature, expiry or kind problem is
// reported as domain.ErrInvalidToken.
func (s *TokenService) Verify(token string, kind ports.TokenKind) (string, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: token expired", domain.ErrInvalidToken)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return "", domain.ErrInvalidToken
	}
	if claims.Kind != kind {
		return "", fmt.Errorf("%w: expected %s token, got %q", domain.ErrInvalidToken, kind, claims.Kind)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}
	return claims.Subject, nil
}

// Refresh mints a new access token from a valid refresh token. The refresh
// token itself stays usable until it expires.
func (s *TokenService) Refresh(refreshToken string) (string, error) {
	subject, err := s.Verify(refreshToken, ports.RefreshToken)
	if err != nil {
		return "", err
	}
	return s.IssueAccessToken(subject)
}
