// Package auth issues and verifies the signed session tokens that back the
// API's bearer authentication.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"foundling/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer   = "foundling-api"
	audience = "foundling-client"

	// TokenTTL is the session token lifetime.
	TokenTTL = 7 * 24 * time.Hour
)

// TokenService issues and verifies HS256-signed session tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a TokenService with the given signing secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// NewTokenServiceWithClock creates a TokenService with a custom clock for tests.
func NewTokenServiceWithClock(secret string, now func() time.Time) *TokenService {
	return &TokenService{secret: []byte(secret), now: now}
}

// Issue creates a session token asserting the given user identifier.
func (s *TokenService) Issue(userID uint) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": issuer,
		"aud": audience,
		"exp": now.Add(TokenTTL).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": generateJTI(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses the token and returns the embedded user identifier.
// Any signature, expiry or claim failure yields an Unauthorized error.
func (s *TokenService) Verify(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return 0, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, models.NewUnauthorizedError("Invalid token claims")
	}

	if iss, issOk := claims["iss"].(string); !issOk || iss != issuer {
		return 0, models.NewUnauthorizedError("Invalid token issuer")
	}
	if aud, audOk := claims["aud"].(string); !audOk || aud != audience {
		return 0, models.NewUnauthorizedError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, models.NewUnauthorizedError("Invalid user ID in token")
	}

	return uint(userID), nil
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8])
}
