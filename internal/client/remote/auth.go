package remote

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenValidity = 5 * time.Minute

// Claims identifies the device that pushes entries.
type Claims struct {
	jwt.RegisteredClaims
	DeviceID string
}

func GenerateToken(deviceID string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		DeviceID: deviceID,
	})

	return token.SignedString(secretKey)
}
