package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetJWTSecretWinsOverEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	SetJWTSecret("configured-secret")

	assert.Equal(t, []byte("configured-secret"), JWTSecret())

	// Later calls cannot swap the key out from under issued tokens.
	SetJWTSecret("another-secret")
	assert.Equal(t, []byte("configured-secret"), JWTSecret())
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42)
	assert.NoError(t, err)

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Empty(t, claims.TableCode)

	tableToken, err := GenerateTableToken(7, "0007")
	assert.NoError(t, err)

	claims, err = ParseToken(tableToken)
	assert.NoError(t, err)
	assert.Equal(t, "0007", claims.TableCode)

	_, err = ParseToken("not-a-token")
	assert.Error(t, err)
}
