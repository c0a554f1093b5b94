// internal/auth/session_test.go
package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	require.NoError(t, Init())

	playerID := uuid.New().String()
	token, err := NewSessionToken(playerID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sub, err := VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, playerID, sub)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	require.NoError(t, Init())

	_, err := VerifySessionToken("not-a-jwt")
	assert.Error(t, err)
}

func TestVerifyRejectsTokenFromOldKey(t *testing.T) {
	require.NoError(t, Init())
	token, err := NewSessionToken(uuid.New().String())
	require.NoError(t, err)

	// A restart rotates the key pair, invalidating old sessions.
	require.NoError(t, Init())
	_, err = VerifySessionToken(token)
	assert.Error(t, err)
}
