package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "yorkpress/internal/errors"
	"yorkpress/internal/model"
)

const testBaseURL = "http://localhost:3000"

// requestToken drives RequestReset and captures both the raw token (from
// the mailed URL) and the persisted record.
func requestToken(t *testing.T, svc ResetService, users *MockUserRepository, resets *MockPasswordResetRepository, mailer *MockMailer) (string, *model.PasswordReset) {
	t.Helper()

	var captured *model.PasswordReset
	resets.On("Create", mock.Anything, mock.AnythingOfType("*model.PasswordReset")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*model.PasswordReset)
		}).Return(nil).Once()

	var resetURL string
	mailer.On("SendPasswordReset", mock.Anything, "alice@example.com", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			resetURL = args.String(2)
		}).Return(nil).Once()

	err := svc.RequestReset(context.Background(), "alice@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, captured)

	rawToken := strings.TrimPrefix(resetURL, testBaseURL+"/reset-password/")
	assert.Len(t, rawToken, 64) // 32 random bytes, hex encoded
	return rawToken, captured
}

func resetFixture(t *testing.T) (ResetService, *MockUserRepository, *MockPasswordResetRepository, *MockMailer) {
	t.Helper()
	users := new(MockUserRepository)
	resets := new(MockPasswordResetRepository)
	mailer := new(MockMailer)
	svc := NewResetService(users, resets, mailer, testBaseURL)
	return svc, users, resets, mailer
}

func TestResetService_RequestReset(t *testing.T) {
	t.Run("issues hashed record and mails raw token", func(t *testing.T) {
		svc, users, resets, mailer := resetFixture(t)
		users.On("FindByEmail", mock.Anything, "alice@example.com").
			Return(&model.User{ID: 1, Email: "alice@example.com"}, nil)

		rawToken, record := requestToken(t, svc, users, resets, mailer)

		// Only the hash is persisted; the raw token verifies against it.
		assert.NotEqual(t, rawToken, record.TokenHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(record.TokenHash), []byte(rawToken)))
		assert.Equal(t, uint(1), record.UserID)
		assert.WithinDuration(t, time.Now().Add(time.Hour), record.Expires, time.Minute)

		resets.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("unknown email reports success and touches nothing", func(t *testing.T) {
		svc, users, resets, mailer := resetFixture(t)
		users.On("FindByEmail", mock.Anything, "ghost@example.com").
			Return(nil, gorm.ErrRecordNotFound)

		err := svc.RequestReset(context.Background(), "ghost@example.com")

		assert.NoError(t, err)
		resets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mailer.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delivery failure keeps the record", func(t *testing.T) {
		svc, users, resets, mailer := resetFixture(t)
		users.On("FindByEmail", mock.Anything, "alice@example.com").
			Return(&model.User{ID: 1, Email: "alice@example.com"}, nil)
		resets.On("Create", mock.Anything, mock.AnythingOfType("*model.PasswordReset")).Return(nil)
		mailer.On("SendPasswordReset", mock.Anything, "alice@example.com", mock.AnythingOfType("string")).
			Return(errors.New("smtp connection refused"))

		err := svc.RequestReset(context.Background(), "alice@example.com")

		assert.Equal(t, apperrors.ErrDeliveryFailed, err)
		// The record was persisted before the send was attempted and is
		// not rolled back.
		resets.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*model.PasswordReset"))
		resets.AssertNotCalled(t, "DeleteByUserID", mock.Anything, mock.Anything)
	})
}

func TestResetService_ConsumeReset(t *testing.T) {
	t.Run("round trip succeeds exactly once", func(t *testing.T) {
		svc, users, resets, mailer := resetFixture(t)
		users.On("FindByEmail", mock.Anything, "alice@example.com").
			Return(&model.User{ID: 1, Email: "alice@example.com"}, nil)

		rawToken, record := requestToken(t, svc, users, resets, mailer)

		resets.On("ListActive", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]model.PasswordReset{*record}, nil).Once()
		resets.On("ConsumeForUser", mock.Anything, uint(1), mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				// The stored hash verifies the new password.
				newHash := args.String(2)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("newpass123")))
			}).Return(nil).Once()

		assert.NoError(t, svc.ConsumeReset(context.Background(), rawToken, "newpass123"))

		// After consumption every record for the user is gone; the same
		// token no longer matches anything.
		resets.On("ListActive", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]model.PasswordReset{}, nil).Once()
		err := svc.ConsumeReset(context.Background(), rawToken, "anotherpass1")
		assert.Equal(t, apperrors.ErrInvalidResetToken, err)

		resets.AssertExpectations(t)
	})

	t.Run("short password rejected before any store access", func(t *testing.T) {
		svc, _, resets, _ := resetFixture(t)

		err := svc.ConsumeReset(context.Background(), "whatever", "short")

		assert.Equal(t, apperrors.ErrPasswordTooShort, err)
		resets.AssertNotCalled(t, "ListActive", mock.Anything, mock.Anything)
	})

	t.Run("expired record never matches", func(t *testing.T) {
		svc, users, resets, mailer := resetFixture(t)
		users.On("FindByEmail", mock.Anything, "alice@example.com").
			Return(&model.User{ID: 1, Email: "alice@example.com"}, nil)

		rawToken, _ := requestToken(t, svc, users, resets, mailer)

		// The repository's expires > now filter has dropped the record.
		resets.On("ListActive", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]model.PasswordReset{}, nil)

		err := svc.ConsumeReset(context.Background(), rawToken, "newpass123")

		assert.Equal(t, apperrors.ErrInvalidResetToken, err)
		resets.AssertNotCalled(t, "ConsumeForUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("consuming one token purges all siblings", func(t *testing.T) {
		svc, users, resets, mailer := resetFixture(t)
		users.On("FindByEmail", mock.Anything, "alice@example.com").
			Return(&model.User{ID: 1, Email: "alice@example.com"}, nil)

		firstToken, firstRecord := requestToken(t, svc, users, resets, mailer)
		secondToken, secondRecord := requestToken(t, svc, users, resets, mailer)
		assert.NotEqual(t, firstToken, secondToken)

		// Consume the second-issued token while both are outstanding.
		resets.On("ListActive", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]model.PasswordReset{*firstRecord, *secondRecord}, nil).Once()
		resets.On("ConsumeForUser", mock.Anything, uint(1), mock.AnythingOfType("string")).
			Return(nil).Once()
		assert.NoError(t, svc.ConsumeReset(context.Background(), secondToken, "newpass123"))

		// The bulk purge removed the first token too.
		resets.On("ListActive", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]model.PasswordReset{}, nil).Once()
		err := svc.ConsumeReset(context.Background(), firstToken, "newpass123")
		assert.Equal(t, apperrors.ErrInvalidResetToken, err)

		resets.AssertExpectations(t)
	})

	t.Run("garbage token fails with the same error", func(t *testing.T) {
		svc, _, resets, _ := resetFixture(t)
		resets.On("ListActive", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]model.PasswordReset{}, nil)

		err := svc.ConsumeReset(context.Background(), "not-a-real-token", "newpass123")

		assert.Equal(t, apperrors.ErrInvalidResetToken, err)
	})
}
