package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"yorkpress/internal/errors"
	"yorkpress/internal/service"
)

// PermissionHandler exposes permission reference data.
type PermissionHandler struct {
	permService service.PermissionService
}

// NewPermissionHandler creates a handler layer.
func NewPermissionHandler(permService service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permService: permService}
}

// ListPermissions godoc
// @Summary List permissions
// @Tags permissions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Permission
// @Failure 401 {object} errors.ErrorResponse
// @Router /permissions [get]
func (h *PermissionHandler) ListPermissions(c echo.Context) error {
	perms, err := h.permService.ListPermissions(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, perms)
}

// DeletePermission godoc
// @Summary Delete permission
// @Description Removes the permission and its role assignments atomically.
// @Tags permissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Permission ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /permissions/{id} [delete]
func (h *PermissionHandler) DeletePermission(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.permService.DeletePermission(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "permission deleted"})
}
