package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora/internal/shared"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	secret := []byte("test-secret")
	owner := uuid.New()

	token, err := GenerateToken(owner, secret, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := OwnerFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, owner, got)
}

func TestOwnerFromToken_WrongSecret(t *testing.T) {
	owner := uuid.New()
	token, err := GenerateToken(owner, []byte("right"), time.Minute)
	require.NoError(t, err)

	_, err = OwnerFromToken(token, []byte("wrong"))
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestOwnerFromToken_Expired(t *testing.T) {
	owner := uuid.New()
	token, err := GenerateToken(owner, []byte("secret"), -time.Minute)
	require.NoError(t, err)

	_, err = OwnerFromToken(token, []byte("secret"))
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestOwnerFromToken_RejectsUnexpectedSigningMethod(t *testing.T) {
	owner := uuid.New()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		UserID: owner.String(),
	}
	// alg=none must never verify.
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = OwnerFromToken(token, []byte("secret"))
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestOwnerFromToken_Garbage(t *testing.T) {
	_, err := OwnerFromToken("not.a.token", []byte("secret"))
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}
