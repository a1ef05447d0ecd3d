package ports

import (
	"context"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

// SignUpInput carries the fields of a new account.
type SignUpInput struct {
	Username string
	Email    string
	Password string
	IsStaff  bool
	IsActive bool
}

// TokenPair is returned by a successful login.
type TokenPair struct {
	Access  string
	Refresh string
}

// AuthService covers principal bootstrap: sign-up, login, refresh and
// resolving an access token to a principal.
type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Authenticate(ctx context.Context, accessToken string) (domain.Principal, error)
}

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// TokenService issues and verifies signed session tokens.
type TokenService interface {
	IssueAccessToken(subject string) (string, error)
	IssueRefreshToken(subject string) (string, error)
	Verify(token string, kind TokenKind) (string, error)
	Refresh(refreshToken string) (string, error)
}
