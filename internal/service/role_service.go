package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "yorkpress/internal/errors"
	"yorkpress/internal/model"
	"yorkpress/internal/repository"
)

// RoleService exposes role reference-data operations. Deletion is blocked
// while any user still references the role.
type RoleService interface {
	ListRoles(ctx context.Context) ([]model.Role, error)
	CreateRole(ctx context.Context, name string) (*model.Role, error)
	DeleteRole(ctx context.Context, id uint) error
}

type roleService struct {
	roleRepo repository.RoleRepository
	userRepo repository.UserRepository
}

// NewRoleService builds a RoleService.
func NewRoleService(roleRepo repository.RoleRepository, userRepo repository.UserRepository) RoleService {
	return &roleService{roleRepo: roleRepo, userRepo: userRepo}
}

func (s *roleService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.roleRepo.List(ctx)
}

func (s *roleService) CreateRole(ctx context.Context, name string) (*model.Role, error) {
	role := &model.Role{Name: name}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

func (s *roleService) DeleteRole(ctx context.Context, id uint) error {
	if _, err := s.roleRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrRoleNotFound
		}
		return fmt.Errorf("find role: %w", err)
	}

	count, err := s.userRepo.CountByRoleID(ctx, id)
	if err != nil {
		return fmt.Errorf("count role references: %w", err)
	}
	if count > 0 {
		return apperrors.ErrRoleInUse
	}
	return s.roleRepo.Delete(ctx, id)
}
