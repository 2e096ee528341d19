package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"yorkpress/internal/config"
	"yorkpress/internal/db"
	"yorkpress/internal/model"
)

const (
	adminEmail    = "admin@gmail.com"
	adminPassword = "admin123"
)

var permissions = []model.Permission{
	{Name: model.PermViewReports, Description: "View system reports"},
	{Name: model.PermManageUsers, Description: "Create, update, delete users"},
	{Name: model.PermEditContent, Description: "Edit site content"},
	{Name: model.PermViewBilling, Description: "View billing information"},
	{Name: model.PermExportData, Description: "Export system data"},
}

var rolePermissions = map[string][]string{
	model.RoleAdmin: {
		model.PermViewReports, model.PermManageUsers, model.PermEditContent,
		model.PermViewBilling, model.PermExportData,
	},
	model.RoleUser:     {model.PermViewReports, model.PermEditContent},
	model.RoleCustomer: {model.PermViewBilling},
}

func main() {
	log.Println("Starting seed...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.Role{},
		&model.Permission{},
		&model.RolePermission{},
		&model.User{},
		&model.PasswordReset{},
		&model.UserActivity{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	roles, err := ensureRoles(ctx, gormDB)
	if err != nil {
		log.Fatalf("Failed to seed roles: %v", err)
	}
	log.Println("Roles ensured")

	perms, err := ensurePermissions(ctx, gormDB)
	if err != nil {
		log.Fatalf("Failed to seed permissions: %v", err)
	}
	log.Println("Permissions ensured")

	if err := ensureRolePermissions(ctx, gormDB, roles, perms); err != nil {
		log.Fatalf("Failed to seed role permissions: %v", err)
	}
	log.Println("Role-permission mappings ensured")

	if err := ensureAdmin(ctx, gormDB, roles[model.RoleAdmin]); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	log.Println("Seed complete")
}

func ensureRoles(ctx context.Context, gormDB *gorm.DB) (map[string]*model.Role, error) {
	out := make(map[string]*model.Role)
	for _, name := range []string{model.RoleAdmin, model.RoleUser, model.RoleCustomer} {
		role := &model.Role{Name: name}
		var existing model.Role
		err := gormDB.WithContext(ctx).Where("name = ?", name).First(&existing).Error
		switch {
		case err == nil:
			out[name] = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := gormDB.WithContext(ctx).Create(role).Error; err != nil {
				return nil, err
			}
			out[name] = role
		default:
			return nil, err
		}
	}
	return out, nil
}

func ensurePermissions(ctx context.Context, gormDB *gorm.DB) (map[string]*model.Permission, error) {
	out := make(map[string]*model.Permission)
	for i := range permissions {
		perm := permissions[i]
		var existing model.Permission
		err := gormDB.WithContext(ctx).Where("name = ?", perm.Name).First(&existing).Error
		switch {
		case err == nil:
			out[perm.Name] = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := gormDB.WithContext(ctx).Create(&perm).Error; err != nil {
				return nil, err
			}
			out[perm.Name] = &perm
		default:
			return nil, err
		}
	}
	return out, nil
}

func ensureRolePermissions(ctx context.Context, gormDB *gorm.DB, roles map[string]*model.Role, perms map[string]*model.Permission) error {
	for roleName, permNames := range rolePermissions {
		role, ok := roles[roleName]
		if !ok {
			continue
		}
		for _, permName := range permNames {
			perm, ok := perms[permName]
			if !ok {
				continue
			}
			var existing model.RolePermission
			err := gormDB.WithContext(ctx).
				Where("role_id = ? AND permission_id = ?", role.ID, perm.ID).
				First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			row := model.RolePermission{RoleID: role.ID, PermissionID: perm.ID}
			if err := gormDB.WithContext(ctx).Create(&row).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureAdmin(ctx context.Context, gormDB *gorm.DB, adminRole *model.Role) error {
	var existing model.User
	err := gormDB.WithContext(ctx).Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		log.Println("Admin already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), 12)
	if err != nil {
		return err
	}
	admin := &model.User{
		Name:         "Super Admin",
		Email:        adminEmail,
		PasswordHash: string(hashed),
		Status:       model.StatusActive,
		RoleID:       adminRole.ID,
	}
	if err := gormDB.WithContext(ctx).Create(admin).Error; err != nil {
		return err
	}
	log.Println("Admin user created")
	return nil
}
