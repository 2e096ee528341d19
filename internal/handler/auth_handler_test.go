package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	apperrors "yorkpress/internal/errors"
	"yorkpress/internal/model"
	"yorkpress/internal/service"
)

type stubAuthService struct {
	loginToken string
	loginUser  *model.User
	loginErr   error
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *model.User, error) {
	return s.loginToken, s.loginUser, s.loginErr
}

func (s *stubAuthService) Register(_ context.Context, email, _, name string) (*model.User, error) {
	return &model.User{ID: 1, Email: email, Name: name}, nil
}

type stubResetService struct {
	requestErr error
	consumeErr error
}

func (s *stubResetService) RequestReset(context.Context, string) error {
	return s.requestErr
}

func (s *stubResetService) ConsumeReset(context.Context, string, string) error {
	return s.consumeErr
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func perform(h echo.HandlerFunc, body string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h(c)
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return httpErr.Code
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success returns token and user", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{
			loginToken: "signed-token",
			loginUser:  &model.User{ID: 1, Email: "alice@example.com"},
		}, &stubResetService{})

		rec, err := perform(h.Login, `{"email":"alice@example.com","password":"correct1"}`)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp LoginResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.Token)
	})

	t.Run("credential failure is a single generic 401", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{loginErr: service.ErrInvalidCredentials}, &stubResetService{})

		_, err := perform(h.Login, `{"email":"alice@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))
	})

	t.Run("malformed email rejected before the service runs", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{loginErr: service.ErrInvalidCredentials}, &stubResetService{})

		_, err := perform(h.Login, `{"email":"not-an-email","password":"x"}`)
		assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
	})
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	t.Run("generic success body", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{}, &stubResetService{})

		rec, err := perform(h.ForgotPassword, `{"email":"anyone@example.com"}`)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "If the email exists")
	})

	t.Run("delivery failure surfaces 500", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthService{}, &stubResetService{requestErr: apperrors.ErrDeliveryFailed})

		_, err := perform(h.ForgotPassword, `{"email":"alice@example.com"}`)
		assert.Equal(t, http.StatusInternalServerError, httpCode(t, err))
	})
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	tests := []struct {
		name         string
		consumeErr   error
		expectedCode int
	}{
		{"success", nil, http.StatusOK},
		{"invalid or expired token", apperrors.ErrInvalidResetToken, http.StatusBadRequest},
		{"too short password", apperrors.ErrPasswordTooShort, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&stubAuthService{}, &stubResetService{consumeErr: tt.consumeErr})

			rec, err := perform(h.ResetPassword, `{"token":"raw","password":"newpass123"}`)

			if tt.expectedCode == http.StatusOK {
				assert.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				assert.Equal(t, tt.expectedCode, httpCode(t, err))
			}
		})
	}
}
