package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid username or password"},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, "authentication required"},
		{"forbidden", fmt.Errorf("list all: %w", domain.ErrForbidden), http.StatusForbidden, "access forbidden"},
		{"order not found", domain.ErrOrderNotFound, http.StatusNotFound, "order not found"},
		{"invalid input", fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput), http.StatusUnprocessableEntity, "invalid input: quantity must be positive"},
		{"conflict", domain.ErrEmailTaken, http.StatusConflict, "conflict: user with the email already exists"},
		{"unbindable payload", fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput), http.StatusUnprocessableEntity, "invalid input: invalid payload"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/orders/orders", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, body.Error)
			}
		})
	}
}
