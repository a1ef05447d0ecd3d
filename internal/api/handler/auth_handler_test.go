package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/pizza-delivery-api/internal/api/middleware"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/ports"
)

type stubAuthService struct {
	signUpFn  func(ctx context.Context, in ports.SignUpInput) (*domain.User, error)
	loginFn   func(ctx context.Context, username, password string) (*ports.TokenPair, error)
	refreshFn func(ctx context.Context, token string) (string, error)
}

func (s *stubAuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error) {
	return s.signUpFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.TokenPair, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (string, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubAuthService) Authenticate(context.Context, string) (domain.Principal, error) {
	return domain.Principal{}, domain.ErrInvalidToken
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(_ context.Context, in ports.SignUpInput) (*domain.User, error) {
			if in.Username != "alice" || in.Email != "alice@example.com" || in.Password != "secret" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if !in.IsActive || in.IsStaff {
				t.Fatalf("expected active non-staff defaults, got %+v", in)
			}
			return &domain.User{ID: "u1", Username: in.Username, Email: in.Email, IsActive: true, CreatedAt: time.Now()}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/auth/signup", `{"username":"alice","email":"alice@example.com","password":"secret"}`)

	if err := NewAuthHandler(stub).SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["id"] != "u1" || resp["is_active"] != true {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if _, leaked := resp["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
}

func TestAuthHandler_SignUp_ExplicitFlags(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(_ context.Context, in ports.SignUpInput) (*domain.User, error) {
			if !in.IsStaff || in.IsActive {
				t.Fatalf("flags not passed through: %+v", in)
			}
			return &domain.User{ID: "u2", Username: in.Username}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/auth/signup",
		`{"username":"sam","email":"sam@example.com","password":"pw","is_staff":true,"is_active":false}`)

	if err := NewAuthHandler(stub).SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_SignUp_Conflict(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(context.Context, ports.SignUpInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/auth/signup", `{"username":"bob","email":"bob@example.com","password":"pw"}`)

	err := NewAuthHandler(stub).SignUp(c)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthHandler_SignUp_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(context.Context, ports.SignUpInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	c, _ := newJSONContext(http.MethodPost, "/auth/signup", "not-json")
	if err := NewAuthHandler(stub).SignUp(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	c, _ = newJSONContext(http.MethodPost, "/auth/signup", `{"username":"bob"}`)
	if code := httpCode(t, NewAuthHandler(stub).SignUp(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*ports.TokenPair, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.TokenPair{Access: "access123", Refresh: "refresh456"}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"secret"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp tokenPairResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Access != "access123" || resp.Refresh != "refresh456" {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.TokenPair, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}

	c, _ := newJSONContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"bad"}`)
	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	// missing fields are reported the same way
	c, _ = newJSONContext(http.MethodPost, "/auth/login", `{"username":"alice"}`)
	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.TokenPair, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/auth/login", "{")

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, token string) (string, error) {
			if token != "refresh456" {
				return "", domain.ErrInvalidToken
			}
			return "access789", nil
		},
	}

	c, rec := newJSONContext(http.MethodPost, "/auth/refresh", "")
	c.Set(middleware.BearerTokenKey, "refresh456")
	if err := NewAuthHandler(stub).Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp accessTokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Access != "access789" {
		t.Fatalf("unexpected refresh payload: %s (%v)", rec.Body.String(), err)
	}

	c, _ = newJSONContext(http.MethodPost, "/auth/refresh", "")
	c.Set(middleware.BearerTokenKey, "access-token-instead")
	if err := NewAuthHandler(stub).Refresh(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}

	c, _ = newJSONContext(http.MethodPost, "/auth/refresh", "")
	if code := httpCode(t, NewAuthHandler(stub).Refresh(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthHandler_Ping(t *testing.T) {
	c, rec := newJSONContext(http.MethodGet, "/auth/", "")
	if code := httpCode(t, NewAuthHandler(&stubAuthService{}).Ping(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %d", code)
	}

	c.Set(middleware.PrincipalKey, domain.Principal{UserID: "u1", Username: "alice"})
	if err := NewAuthHandler(&stubAuthService{}).Ping(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "API Authentication") {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}
