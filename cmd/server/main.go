package main

import (
	"log"
	"net/http"

	"yorkpress/docs"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"yorkpress/internal/auth"
	"yorkpress/internal/cache"
	"yorkpress/internal/config"
	"yorkpress/internal/db"
	"yorkpress/internal/handler"
	"yorkpress/internal/mail"
	"yorkpress/internal/model"
	"yorkpress/internal/repository"
	"yorkpress/internal/router"
	"yorkpress/internal/service"
)

// @title York Publishing Admin API
// @version 1.0
// @description Role-based admin backend: authentication, user/role/permission management and password reset.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(echomw.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.Role{},
		&model.Permission{},
		&model.RolePermission{},
		&model.User{},
		&model.PasswordReset{},
		&model.UserActivity{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	roleRepo := repository.NewRoleRepository(gormDB)
	permRepo := repository.NewPermissionRepository(gormDB)
	resetRepo := repository.NewPasswordResetRepository(gormDB)
	activityRepo := repository.NewActivityRepository(gormDB)

	// Collaborators
	tokens := auth.NewTokenService(cfg.JWTSecret)
	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	// Services
	authService := service.NewAuthService(userRepo, roleRepo, activityRepo, tokens)
	resetService := service.NewResetService(userRepo, resetRepo, mailer, cfg.AppBaseURL)
	permService := service.NewPermissionService(permRepo, roleRepo, cacheClient)
	roleService := service.NewRoleService(roleRepo, userRepo)
	userService := service.NewUserService(userRepo, roleRepo, activityRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, resetService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService, permService)
	permHandler := handler.NewPermissionHandler(permService)

	router.Register(e, tokens, permService, authHandler, userHandler, roleHandler, permHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
