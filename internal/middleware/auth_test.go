package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"yorkpress/internal/auth"
	"yorkpress/internal/model"
)

type stubPermissionService struct {
	granted map[string]bool
	err     error
}

func (s *stubPermissionService) HasPermission(_ context.Context, roleName, permissionName string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.granted[roleName+"/"+permissionName], nil
}

func (s *stubPermissionService) PermissionsForRole(context.Context, uint) ([]model.Permission, error) {
	return nil, nil
}

func (s *stubPermissionService) ReplaceRolePermissions(context.Context, uint, []uint) error {
	return nil
}

func (s *stubPermissionService) ListPermissions(context.Context) ([]model.Permission, error) {
	return nil, nil
}

func (s *stubPermissionService) DeletePermission(context.Context, uint) error {
	return nil
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, principal *auth.Claims) (int, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if principal != nil {
		c.Set(principalKey, principal)
	}

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	if err == nil {
		return rec.Code, nil
	}
	if httpErr, ok := err.(*echo.HTTPError); ok {
		return httpErr.Code, err
	}
	return 0, err
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name         string
		principal    *auth.Claims
		roles        []string
		expectedCode int
	}{
		{
			name:         "matching role allowed",
			principal:    &auth.Claims{UserID: 1, Role: model.RoleAdmin},
			roles:        []string{model.RoleAdmin},
			expectedCode: http.StatusOK,
		},
		{
			name:         "wrong role forbidden",
			principal:    &auth.Claims{UserID: 1, Role: model.RoleUser},
			roles:        []string{model.RoleAdmin},
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "missing principal unauthorized",
			principal:    nil,
			roles:        []string{model.RoleAdmin},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "unrecognized role value forbidden",
			principal:    &auth.Claims{UserID: 1, Role: "SUPERUSER"},
			roles:        []string{model.RoleAdmin, model.RoleUser},
			expectedCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := invoke(t, RequireRole(tt.roles...), tt.principal)
			assert.Equal(t, tt.expectedCode, code)
		})
	}
}

func TestRequirePermission(t *testing.T) {
	perms := &stubPermissionService{granted: map[string]bool{
		model.RoleAdmin + "/" + model.PermManageUsers: true,
	}}

	t.Run("granted", func(t *testing.T) {
		code, _ := invoke(t, RequirePermission(perms, model.PermManageUsers),
			&auth.Claims{UserID: 1, Role: model.RoleAdmin})
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("denied", func(t *testing.T) {
		code, _ := invoke(t, RequirePermission(perms, model.PermManageUsers),
			&auth.Claims{UserID: 1, Role: model.RoleUser})
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("missing principal", func(t *testing.T) {
		code, _ := invoke(t, RequirePermission(perms, model.PermManageUsers), nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("store failure denies with 500", func(t *testing.T) {
		failing := &stubPermissionService{err: assert.AnError}
		code, _ := invoke(t, RequirePermission(failing, model.PermManageUsers),
			&auth.Claims{UserID: 1, Role: model.RoleAdmin})
		assert.Equal(t, http.StatusInternalServerError, code)
	})
}
