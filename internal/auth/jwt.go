// Package auth issues and verifies the bearer tokens that identify the
// owner on every scoped request.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/planora/planora/internal/shared"
)

// Claims carries the owner's user id alongside the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// GenerateToken signs a token identifying userID, valid for the given
// duration.
func GenerateToken(userID uuid.UUID, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID.String(),
	})
	return token.SignedString(secretKey)
}

// OwnerFromToken verifies the token and returns the owner id inside.
func OwnerFromToken(tokenString string, secretKey []byte) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", shared.ErrInvalidToken, err)
	}
	if !token.Valid {
		return uuid.Nil, shared.ErrInvalidToken
	}
	ownerID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, shared.ErrInvalidToken
	}
	return ownerID, nil
}
