package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "yorkpress/internal/errors"
	"yorkpress/internal/mail"
	"yorkpress/internal/model"
	"yorkpress/internal/repository"
)

const (
	// resetTokenExpiry is the lifetime of an issued reset token.
	resetTokenExpiry = time.Hour
	// resetTokenBytes gives 256 bits of entropy per raw token.
	resetTokenBytes = 32
	// minPasswordLength is enforced before any store access.
	minPasswordLength = 8
)

// ResetService orchestrates the password reset flow: issue a hashed,
// time-bounded token and deliver the raw value out of band; later verify
// a presented raw token, rotate the password and purge every outstanding
// token for that user in one transaction.
type ResetService interface {
	RequestReset(ctx context.Context, email string) error
	ConsumeReset(ctx context.Context, rawToken, newPassword string) error
}

type resetService struct {
	userRepo   repository.UserRepository
	resetRepo  repository.PasswordResetRepository
	mailer     mail.Mailer
	appBaseURL string
	now        func() time.Time
}

// NewResetService creates a reset flow service.
func NewResetService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	mailer mail.Mailer,
	appBaseURL string,
) ResetService {
	return &resetService{
		userRepo:   userRepo,
		resetRepo:  resetRepo,
		mailer:     mailer,
		appBaseURL: appBaseURL,
		now:        time.Now,
	}
}

// RequestReset issues a reset token for the account behind email. An
// unknown email returns nil so the response shape never reveals whether
// the account exists. Several outstanding tokens may coexist; each is
// valid until it expires or any one of them is consumed.
//
// A mail delivery failure is reported as ErrDeliveryFailed but the
// persisted record stands: the token remains usable if the send is
// retried through other means.
func (s *resetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	rawToken := hex.EncodeToString(raw)

	tokenHash, err := bcrypt.GenerateFromPassword([]byte(rawToken), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash reset token: %w", err)
	}

	reset := &model.PasswordReset{
		UserID:    user.ID,
		TokenHash: string(tokenHash),
		Expires:   s.now().Add(resetTokenExpiry),
	}
	if err := s.resetRepo.Create(ctx, reset); err != nil {
		return fmt.Errorf("persist reset record: %w", err)
	}

	resetURL := s.appBaseURL + "/reset-password/" + rawToken
	if err := s.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		return apperrors.ErrDeliveryFailed
	}
	return nil
}

// ConsumeReset validates a raw token against every non-expired record,
// then rotates the owner's password and deletes all of that user's
// records as one atomic unit. A second consumption of the same token, or
// of any sibling token issued to the same user, fails.
func (s *resetService) ConsumeReset(ctx context.Context, rawToken, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.ErrPasswordTooShort
	}

	active, err := s.resetRepo.ListActive(ctx, s.now())
	if err != nil {
		return fmt.Errorf("load reset records: %w", err)
	}

	var matched *model.PasswordReset
	for i := range active {
		if bcrypt.CompareHashAndPassword([]byte(active[i].TokenHash), []byte(rawToken)) == nil {
			matched = &active[i]
			break
		}
	}
	if matched == nil {
		return apperrors.ErrInvalidResetToken
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.resetRepo.ConsumeForUser(ctx, matched.UserID, string(newHash)); err != nil {
		return fmt.Errorf("consume reset: %w", err)
	}
	return nil
}
