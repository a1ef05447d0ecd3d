package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/pizza-delivery-api/internal/api/metrics"
	"github.com/sirpyerre/pizza-delivery-api/internal/api/middleware"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Ping confirms the caller holds a valid access token.
//
// @Summary      Auth ping
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/ [get]
func (h *AuthHandler) Ping(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "API Authentication"})
}

// SignUp creates a new user account.
//
// @Summary      Create a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	user, err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		IsStaff:  req.IsStaff,
		IsActive: active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login exchanges credentials for an access and a refresh token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenPairResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload()
	}
	// Missing fields fail like any other bad credentials.
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return domain.ErrInvalidCredentials
	}

	pair, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// Refresh issues a new access token for the refresh token in the
// Authorization header.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accessTokenResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token, _ := c.Get(middleware.BearerTokenKey).(string)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	access, err := h.authService.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accessTokenResponse{Access: access})
}
