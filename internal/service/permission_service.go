package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"yorkpress/internal/cache"
	apperrors "yorkpress/internal/errors"
	"yorkpress/internal/model"
	"yorkpress/internal/repository"
)

// rolePermCacheTTL bounds staleness when a cache invalidation is lost
// (the cache client swallows redis errors).
const rolePermCacheTTL = 5 * time.Minute

// PermissionService answers fine-grained authorization questions and
// manages the role-permission mapping.
type PermissionService interface {
	// HasPermission reports whether the role grants the named permission.
	// Unknown roles and lookup misses deny; only store failures error.
	HasPermission(ctx context.Context, roleName, permissionName string) (bool, error)
	PermissionsForRole(ctx context.Context, roleID uint) ([]model.Permission, error)
	// ReplaceRolePermissions swaps the role's entire permission set
	// atomically and invalidates the role's cached set.
	ReplaceRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) error
	ListPermissions(ctx context.Context) ([]model.Permission, error)
	DeletePermission(ctx context.Context, id uint) error
}

type permissionService struct {
	permRepo repository.PermissionRepository
	roleRepo repository.RoleRepository
	cache    *cache.Client
}

// NewPermissionService builds a PermissionService with repositories and cache.
func NewPermissionService(
	permRepo repository.PermissionRepository,
	roleRepo repository.RoleRepository,
	cacheClient *cache.Client,
) PermissionService {
	return &permissionService{
		permRepo: permRepo,
		roleRepo: roleRepo,
		cache:    cacheClient,
	}
}

func (s *permissionService) cacheKey(roleName string) string {
	return "role_permissions:" + roleName
}

func (s *permissionService) HasPermission(ctx context.Context, roleName, permissionName string) (bool, error) {
	if !model.KnownRole(roleName) {
		return false, nil
	}

	names, err := s.permissionNames(ctx, roleName)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == permissionName {
			return true, nil
		}
	}
	return false, nil
}

func (s *permissionService) permissionNames(ctx context.Context, roleName string) ([]string, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(roleName)); data != nil {
		var cached []string
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	role, err := s.roleRepo.FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Known role name with no backing row: deny, don't error.
			return nil, nil
		}
		return nil, fmt.Errorf("find role: %w", err)
	}

	perms, err := s.permRepo.FindByRoleID(ctx, role.ID)
	if err != nil {
		return nil, fmt.Errorf("load role permissions: %w", err)
	}

	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}
	if payload, err := json.Marshal(names); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(roleName), payload, rolePermCacheTTL)
	}
	return names, nil
}

func (s *permissionService) PermissionsForRole(ctx context.Context, roleID uint) ([]model.Permission, error) {
	if _, err := s.roleRepo.FindByID(ctx, roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return s.permRepo.FindByRoleID(ctx, roleID)
}

func (s *permissionService) ReplaceRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) error {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrRoleNotFound
		}
		return fmt.Errorf("find role: %w", err)
	}

	unique := dedupeIDs(permissionIDs)

	if len(unique) > 0 {
		found, err := s.permRepo.FindByIDs(ctx, unique)
		if err != nil {
			return fmt.Errorf("resolve permissions: %w", err)
		}
		if len(found) != len(unique) {
			return apperrors.ErrPermissionNotFound
		}
	}

	if err := s.permRepo.ReplaceForRole(ctx, roleID, unique); err != nil {
		return fmt.Errorf("replace role permissions: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(role.Name))
	return nil
}

func (s *permissionService) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	return s.permRepo.List(ctx)
}

func (s *permissionService) DeletePermission(ctx context.Context, id uint) error {
	if err := s.permRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	// The permission may have been granted to any role; drop every
	// cached set rather than tracking which roles held it.
	for _, roleName := range []string{model.RoleAdmin, model.RoleUser, model.RoleCustomer} {
		_ = s.cache.Delete(ctx, s.cacheKey(roleName))
	}
	return nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
