package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"yorkpress/internal/auth"
	apperrors "yorkpress/internal/errors"
	"yorkpress/internal/model"
	"yorkpress/internal/repository"
)

const bcryptCost = 12

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// Unknown email and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when registering an existing email.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// NormalizeEmail trims and lowercases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Register(ctx context.Context, email, password, name string) (*model.User, error)
}

type authService struct {
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	activityRepo repository.ActivityRepository
	tokens       *auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	activityRepo repository.ActivityRepository,
	tokens *auth.TokenService,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		activityRepo: activityRepo,
		tokens:       tokens,
	}
}

// Login verifies credentials and returns a signed session token carrying
// the principal (id, email, name, role, profile image). Both a missing
// user and a wrong password fold into ErrInvalidCredentials; the bcrypt
// compare is the only timing-observable step in either path.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue session token: %w", err)
	}

	// Best effort: a failed audit write never fails the login.
	if err := s.activityRepo.Create(ctx, &model.UserActivity{
		UserID:  user.ID,
		Action:  "Logged in",
		Details: "User signed in with email/password",
	}); err != nil {
		log.Printf("login activity write failed for user %d: %v", user.ID, err)
	}

	return token, user, nil
}

// Register creates a user with the default USER role and a hashed password.
func (s *authService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	normalized := NormalizeEmail(email)

	existing, err := s.userRepo.FindByEmail(ctx, normalized)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	role, err := s.roleRepo.FindByName(ctx, model.RoleUser)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find default role: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        normalized,
		PasswordHash: string(hashed),
		Status:       model.StatusActive,
		RoleID:       role.ID,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
