package utils

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret     []byte
	jwtSecretOnce sync.Once
)

// SetJWTSecret installs the signing key from the application config. A
// later call, or an empty secret, is a no-op.
func SetJWTSecret(secret string) {
	if secret == "" {
		return
	}
	jwtSecretOnce.Do(func() {
		jwtSecret = []byte(secret)
	})
}

// JWTSecret returns the signing key. Falls back to the environment when
// no config was installed, so tests run without one.
func JWTSecret() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			// Default secret for development only.
			secret = "TablePosDevSecret"
		}
		jwtSecret = []byte(secret)
	})
	return jwtSecret
}

type CustomClaims struct {
	UserID    uint   `json:"user_id"`
	TableCode string `json:"table_code,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken issues a 24h token for a staff user.
func GenerateToken(userID uint) (string, error) {
	claims := &CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "tablepos",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret())
}

// GenerateTableToken issues a token scoped to a table code, used by the
// client ordering UI after a table login.
func GenerateTableToken(userID uint, tableCode string) (string, error) {
	claims := &CustomClaims{
		UserID:    userID,
		TableCode: tableCode,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 12)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "tablepos",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret())
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret(), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
