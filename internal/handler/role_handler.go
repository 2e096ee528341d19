package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"yorkpress/internal/errors"
	"yorkpress/internal/service"
)

// RoleHandler bundles role and role-permission endpoints.
type RoleHandler struct {
	roleService service.RoleService
	permService service.PermissionService
}

// NewRoleHandler creates a handler layer.
func NewRoleHandler(roleService service.RoleService, permService service.PermissionService) *RoleHandler {
	return &RoleHandler{roleService: roleService, permService: permService}
}

// CreateRoleRequest creates a new role.
type CreateRoleRequest struct {
	Name string `json:"name" validate:"required"`
}

// ReplacePermissionsRequest replaces a role's whole permission set.
type ReplacePermissionsRequest struct {
	PermissionIDs []uint `json:"permission_ids"`
}

// ListRoles godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Role
// @Failure 401 {object} errors.ErrorResponse
// @Router /roles [get]
func (h *RoleHandler) ListRoles(c echo.Context) error {
	roles, err := h.roleService.ListRoles(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, roles)
}

// CreateRole godoc
// @Summary Create role
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRoleRequest true "Role name"
// @Success 201 {object} model.Role
// @Failure 400 {object} errors.ErrorResponse
// @Router /roles [post]
func (h *RoleHandler) CreateRole(c echo.Context) error {
	var req CreateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.roleService.CreateRole(c.Request().Context(), req.Name)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, role)
}

// DeleteRole godoc
// @Summary Delete role
// @Description Deletion is blocked while any user references the role.
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /roles/{id} [delete]
func (h *RoleHandler) DeleteRole(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.roleService.DeleteRole(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "role deleted"})
}

// GetRolePermissions godoc
// @Summary List a role's permissions
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {array} model.Permission
// @Failure 400 {object} errors.ErrorResponse
// @Router /roles/{id}/permissions [get]
func (h *RoleHandler) GetRolePermissions(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	perms, err := h.permService.PermissionsForRole(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, perms)
}

// ReplaceRolePermissions godoc
// @Summary Replace a role's permission set
// @Description Delete-then-insert inside one transaction; readers see the old set or the new set, never a mix.
// @Tags roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param request body ReplacePermissionsRequest true "Permission IDs"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /roles/{id}/permissions [put]
func (h *RoleHandler) ReplaceRolePermissions(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req ReplacePermissionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.permService.ReplaceRolePermissions(c.Request().Context(), id, req.PermissionIDs); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "permissions updated"})
}
