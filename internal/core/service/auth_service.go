package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/ports"
)

// AuthService implements sign-up, login, token refresh and principal resolution.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	logger zerolog.Logger

	// dummyHash is compared against on unknown usernames so both login
	// failures cost one hash verification.
	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, logger: logger}
}

// SignUp creates a user. Email uniqueness is checked before username uniqueness.
func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrInvalidInput)
	}

	if err := s.ensureAbsent(s.users.FindByEmail(ctx, in.Email)); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if err := s.ensureAbsent(s.users.FindByUsername(ctx, in.Username)); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("sign up: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("sign up: hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		IsStaff:      in.IsStaff,
		IsActive:     in.IsActive,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Bool("is_staff", created.IsStaff).Msg("user signed up")
	return created, nil
}

// ensureAbsent turns a lookup result into nil when nothing was found and
// domain.ErrConflict when something was.
func (s *AuthService) ensureAbsent(_ *domain.User, err error) error {
	switch {
	case err == nil:
		return domain.ErrConflict
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}

// Login verifies the password and issues an access/refresh pair. Unknown
// usernames and wrong passwords both yield domain.ErrInvalidCredentials.
// The username is trimmed the same way SignUp stores it.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.TokenPair, error) {
	username = strings.TrimSpace(username)
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		s.hasher.Verify(password, s.placeholderHash())
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Debug().Str("username", username).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	access, err := s.tokens.IssueAccessToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &ports.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("placeholder-password")
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to build placeholder hash")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (string, error) {
	return s.tokens.Refresh(refreshToken)
}

// Authenticate resolves an access token to the principal it names.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (domain.Principal, error) {
	subject, err := s.tokens.Verify(accessToken, ports.AccessToken)
	if err != nil {
		return domain.Principal{}, err
	}
	user, err := s.users.FindByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Principal{}, fmt.Errorf("%w: unknown subject", domain.ErrUnauthenticated)
		}
		return domain.Principal{}, fmt.Errorf("authenticate: %w", err)
	}
	return user.Principal(), nil
}
