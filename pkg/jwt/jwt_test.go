package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("secret", time.Hour, "test")
	id := uuid.New()

	token, tokenID, err := svc.GenerateToken(id, "a@b.tn", "Alice", "super_admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "super_admin", claims.Role)
	assert.Equal(t, tokenID, claims.TokenID())
	assert.Equal(t, "test", claims.Issuer)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, _, err := NewService("one", time.Hour, "test").GenerateToken(uuid.New(), "a@b.tn", "A", "admin")
	require.NoError(t, err)

	_, err = NewService("two", time.Hour, "test").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewService("secret", -time.Minute, "test")
	token, _, err := svc.GenerateToken(uuid.New(), "a@b.tn", "A", "admin")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateEmpty(t *testing.T) {
	_, err := NewService("secret", time.Hour, "test").ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}
