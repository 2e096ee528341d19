package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"yorkpress/internal/model"
)

// SessionTokenExpiry is the duration for which session tokens are valid.
// Role or profile changes only take effect when a new token is issued.
const SessionTokenExpiry = 24 * time.Hour

var (
	// ErrInvalidToken is returned for malformed, tampered or expired tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnknownRole is returned when a token carries a role outside the
	// recognized set. Such principals are denied, never passed through.
	ErrUnknownRole = errors.New("unrecognized role in token")
)

// Claims is the session principal embedded in a signed token. It is
// rebuilt from User+Role at login; it is never patched in place.
type Claims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	ProfileImage string `json:"profile_image,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a token service with the given signing secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue builds a session principal from the user and signs it. The user's
// Role association must be loaded; an unloaded or unrecognized role is an
// error rather than an empty claim.
func (s *TokenService) Issue(user *model.User) (string, error) {
	role := user.RoleName()
	if !model.KnownRole(role) {
		return "", ErrUnknownRole
	}

	now := time.Now()
	claims := &Claims{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Role:         role,
		ProfileImage: user.ProfileImage,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a session token and returns its claims. Tokens whose
// role claim falls outside the recognized set fail closed.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !model.KnownRole(claims.Role) {
		return nil, ErrUnknownRole
	}
	return claims, nil
}
