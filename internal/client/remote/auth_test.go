package remote

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseToken verifies a token the way the journal API does and returns the
// device id it carries.
func parseToken(t *testing.T, tokenString string, secretKey []byte) (string, error) {
	t.Helper()
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid device token")
	}
	return claims.DeviceID, nil
}

func TestGenerateToken_CarriesDeviceID(t *testing.T) {
	secret := []byte("key")
	tok, err := GenerateToken("device-42", secret, time.Minute)
	require.NoError(t, err)

	id, err := parseToken(t, tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "device-42", id)
}

func TestGenerateToken_WrongSecret(t *testing.T) {
	tok, err := GenerateToken("d", []byte("a"), time.Minute)
	require.NoError(t, err)

	_, err = parseToken(t, tok, []byte("b"))
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestGenerateToken_Expired(t *testing.T) {
	tok, err := GenerateToken("d", []byte("a"), -time.Minute)
	require.NoError(t, err)

	_, err = parseToken(t, tok, []byte("a"))
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestIdempotencyKey(t *testing.T) {
	k1 := IdempotencyKey("e-1", []byte(`{"a":1}`))
	assert.Len(t, k1, 64)
	assert.Equal(t, k1, IdempotencyKey("e-1", []byte(`{"a":1}`)))
	assert.NotEqual(t, k1, IdempotencyKey("e-2", []byte(`{"a":1}`)))
	assert.NotEqual(t, k1, IdempotencyKey("e-1", []byte(`{"a":2}`)))
}
