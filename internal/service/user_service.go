package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "yorkpress/internal/errors"
	"yorkpress/internal/model"
	"yorkpress/internal/repository"
)

// CreateUserInput carries the fields an admin supplies when creating a user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	RoleID   uint
	Status   string
}

// UpdateUserInput carries partial updates; nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	RoleID   *uint
	Status   *string
}

// UserService exposes admin user management and profile operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) error
	UpdateProfile(ctx context.Context, id uint, name, profileImage string) (*model.User, error)
	ListActivities(ctx context.Context, userID uint, limit int) ([]model.UserActivity, error)
}

type userService struct {
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	activityRepo repository.ActivityRepository
}

// NewUserService builds a UserService.
func NewUserService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	activityRepo repository.ActivityRepository,
) UserService {
	return &userService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		activityRepo: activityRepo,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	normalized := NormalizeEmail(in.Email)

	if existing, err := s.userRepo.FindByEmail(ctx, normalized); err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	role, err := s.roleRepo.FindByID(ctx, in.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	status := in.Status
	if status == "" {
		status = model.StatusActive
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalized,
		PasswordHash: string(hashed),
		Status:       status,
		RoleID:       role.ID,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = NormalizeEmail(*in.Email)
	}
	if in.Status != nil {
		user.Status = *in.Status
	}
	if in.RoleID != nil {
		role, err := s.roleRepo.FindByID(ctx, *in.RoleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrRoleNotFound
			}
			return nil, fmt.Errorf("find role: %w", err)
		}
		user.RoleID = role.ID
		user.Role = role
	}
	if in.Password != nil && *in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

// UpdateProfile lets a user change display fields on their own record.
// The session token keeps the old values until it is re-issued.
func (s *userService) UpdateProfile(ctx context.Context, id uint, name, profileImage string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = strings.TrimSpace(name)
	}
	if profileImage != "" {
		user.ProfileImage = profileImage
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *userService) ListActivities(ctx context.Context, userID uint, limit int) ([]model.UserActivity, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.activityRepo.ListByUserID(ctx, userID, limit)
}
