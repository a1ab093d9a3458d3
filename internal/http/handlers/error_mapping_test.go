package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/projectstore/internal/service"

	"github.com/gin-gonic/gin"
)

func recordServiceError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	respondServiceError(c, err)
	return w
}

func TestRespondServiceErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "not_found", err: service.ErrNotFound, want: http.StatusNotFound},
		{name: "permission_denied", err: service.ErrPermissionDenied, want: http.StatusForbidden},
		{name: "invalid_credentials", err: service.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "insufficient_stock", err: service.ErrInsufficientStock, want: http.StatusConflict},
		{name: "order_terminal", err: service.ErrOrderTerminal, want: http.StatusConflict},
		{name: "invalid_quantity", err: service.ErrInvalidQuantity, want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := recordServiceError(t, tc.err)
			if w.Code != tc.want {
				t.Fatalf("status want %d got %d", tc.want, w.Code)
			}
			if !strings.Contains(w.Body.String(), `"error"`) {
				t.Fatalf("body should carry error field, got %s", w.Body.String())
			}
		})
	}
}

func TestRespondServiceErrorWrappedSentinel(t *testing.T) {
	wrapped := errors.Join(errors.New("checkout item 3"), service.ErrInsufficientStock)
	w := recordServiceError(t, wrapped)
	if w.Code != http.StatusConflict {
		t.Fatalf("wrapped sentinel want 409 got %d", w.Code)
	}
}

func TestRespondServiceErrorUnknownIs500(t *testing.T) {
	w := recordServiceError(t, errors.New("boom"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("unknown error want 500 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "internal server error") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
