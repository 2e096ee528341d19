package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"yorkpress/internal/auth"
	"yorkpress/internal/handler"
	"yorkpress/internal/middleware"
	"yorkpress/internal/model"
	"yorkpress/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	tokens *auth.TokenService,
	permService service.PermissionService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	roleHandler *handler.RoleHandler,
	permHandler *handler.PermissionHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	// Secured routes (require a valid session token)
	secured := api.Group("", middleware.SessionAuth(tokens))
	secured.GET("/me", userHandler.Me)
	secured.PUT("/me", userHandler.UpdateProfile)

	// Management routes (ADMIN only; user mutation additionally gated on
	// the MANAGE_USERS permission)
	admin := secured.Group("", middleware.RequireRole(model.RoleAdmin))

	manage := admin.Group("/users", middleware.RequirePermission(permService, model.PermManageUsers))
	manage.GET("", userHandler.ListUsers)
	manage.POST("", userHandler.CreateUser)
	manage.GET("/:id", userHandler.GetUser)
	manage.PUT("/:id", userHandler.UpdateUser)
	manage.DELETE("/:id", userHandler.DeleteUser)

	admin.GET("/users/:id/activities", userHandler.ListActivities)

	admin.GET("/roles", roleHandler.ListRoles)
	admin.POST("/roles", roleHandler.CreateRole)
	admin.DELETE("/roles/:id", roleHandler.DeleteRole)
	admin.GET("/roles/:id/permissions", roleHandler.GetRolePermissions)
	admin.PUT("/roles/:id/permissions", roleHandler.ReplaceRolePermissions)

	admin.GET("/permissions", permHandler.ListPermissions)
	admin.DELETE("/permissions/:id", permHandler.DeletePermission)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
