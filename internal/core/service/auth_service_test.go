package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/ports"
	"github.com/sirpyerre/pizza-delivery-api/internal/infrastructure/db/memory"
	"github.com/sirpyerre/pizza-delivery-api/internal/infrastructure/security"
)

var discardLogger = zerolog.Nop()

// countingUserRepo wraps the memory store to observe lookup order and inject failures.
type countingUserRepo struct {
	*memory.UserRepository
	lookups []string
	findErr error
}

func (r *countingUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.lookups = append(r.lookups, "username")
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.UserRepository.FindByUsername(ctx, username)
}

func (r *countingUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.lookups = append(r.lookups, "email")
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.UserRepository.FindByEmail(ctx, email)
}

func newTestAuth() (*AuthService, *countingUserRepo, *TokenService) {
	repo := &countingUserRepo{UserRepository: memory.NewUserRepository()}
	tokens := NewTokenService("secret", 15*time.Minute, 24*time.Hour)
	svc := NewAuthService(repo, security.NewBcryptHasher(bcrypt.MinCost), tokens, discardLogger)
	return svc, repo, tokens
}

func signUp(t *testing.T, svc *AuthService, username, email, password string, staff bool) *domain.User {
	t.Helper()
	user, err := svc.SignUp(context.Background(), ports.SignUpInput{
		Username: username, Email: email, Password: password, IsStaff: staff, IsActive: true,
	})
	if err != nil {
		t.Fatalf("SignUp(%s) returned error: %v", username, err)
	}
	return user
}

func TestAuthService_SignUp_Success(t *testing.T) {
	svc, _, _ := newTestAuth()

	user := signUp(t, svc, "alice", "alice@x.com", "pw1", false)
	if user.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	if user.PasswordHash == "pw1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.IsStaff {
		t.Fatalf("sign-up must not elevate role")
	}
	if !user.IsActive {
		t.Fatalf("expected supplied is_active flag to be kept")
	}
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	svc, _, _ := newTestAuth()

	cases := []ports.SignUpInput{
		{Username: "", Email: "a@x.com", Password: "pw"},
		{Username: "a", Email: "  ", Password: "pw"},
		{Username: "a", Email: "a@x.com", Password: ""},
	}
	for _, in := range cases {
		if _, err := svc.SignUp(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuth()
	signUp(t, svc, "alice", "alice@x.com", "pw1", false)

	_, err := svc.SignUp(context.Background(), ports.SignUpInput{Username: "alice2", Email: "alice@x.com", Password: "pw"})
	if !errors.Is(err, domain.ErrConflict) || !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_SignUp_DuplicateUsername(t *testing.T) {
	svc, _, _ := newTestAuth()
	signUp(t, svc, "alice", "alice@x.com", "pw1", false)

	_, err := svc.SignUp(context.Background(), ports.SignUpInput{Username: "alice", Email: "other@x.com", Password: "pw"})
	if !errors.Is(err, domain.ErrConflict) || !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_SignUp_ChecksEmailFirst(t *testing.T) {
	svc, repo, _ := newTestAuth()
	signUp(t, svc, "alice", "alice@x.com", "pw1", false)
	repo.lookups = nil

	_, err := svc.SignUp(context.Background(), ports.SignUpInput{Username: "alice", Email: "alice@x.com", Password: "pw"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken when both collide, got %v", err)
	}
	if len(repo.lookups) != 1 || repo.lookups[0] != "email" {
		t.Fatalf("expected a single email lookup, got %v", repo.lookups)
	}
}

func TestAuthService_SignUp_StoreFailure(t *testing.T) {
	svc, repo, _ := newTestAuth()
	repo.findErr = errors.New("connection reset")

	_, err := svc.SignUp(context.Background(), ports.SignUpInput{Username: "a", Email: "a@x.com", Password: "pw"})
	if err == nil || errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected storage error to pass through, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, tokens := newTestAuth()
	signUp(t, svc, "carol", "carol@x.com", "s3cret", true)

	pair, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	sub, err := tokens.Verify(pair.Access, ports.AccessToken)
	if err != nil || sub != "carol" {
		t.Fatalf("access token subject = %q, err = %v", sub, err)
	}

	access, err := svc.Refresh(context.Background(), pair.Refresh)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if sub, _ := tokens.Verify(access, ports.AccessToken); sub != "carol" {
		t.Fatalf("refreshed token subject = %q", sub)
	}
}

func TestAuthService_Login_TrimsUsernameLikeSignUp(t *testing.T) {
	svc, _, tokens := newTestAuth()
	user := signUp(t, svc, " bob ", "bob@x.com", "pw", false)
	if user.Username != "bob" {
		t.Fatalf("expected stored username %q, got %q", "bob", user.Username)
	}

	for _, name := range []string{"bob", " bob ", "\tbob"} {
		pair, err := svc.Login(context.Background(), name, "pw")
		if err != nil {
			t.Fatalf("Login(%q) failed: %v", name, err)
		}
		if sub, _ := tokens.Verify(pair.Access, ports.AccessToken); sub != "bob" {
			t.Fatalf("Login(%q) subject = %q", name, sub)
		}
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuth()
	signUp(t, svc, "dave", "dave@x.com", "goodpass", false)

	_, wrongPassword := svc.Login(context.Background(), "dave", "badpass")
	_, unknownUser := svc.Login(context.Background(), "ghost", "goodpass")

	if wrongPassword != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if unknownUser != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPassword, unknownUser)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, _, tokens := newTestAuth()
	user := signUp(t, svc, "erin", "erin@x.com", "pw", true)

	pair, _ := svc.Login(context.Background(), "erin", "pw")
	p, err := svc.Authenticate(context.Background(), pair.Access)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if p.UserID != user.ID || !p.IsStaff || p.Username != "erin" {
		t.Fatalf("unexpected principal: %+v", p)
	}

	if _, err := svc.Authenticate(context.Background(), pair.Refresh); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("refresh token must not authenticate, got %v", err)
	}

	orphan, _ := tokens.IssueAccessToken("deleted-user")
	if _, err := svc.Authenticate(context.Background(), orphan); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for unknown subject, got %v", err)
	}
}
