package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyToken(t *testing.T) {
	s := NewService("test-secret")

	token, err := s.IssueToken("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := s.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := NewService("secret-a").IssueToken("user-1")
	require.NoError(t, err)

	_, err = NewService("secret-b").VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyToken_Expired(t *testing.T) {
	s := NewService("test-secret", WithTTL(-time.Minute))

	token, err := s.IssueToken("user-1")
	require.NoError(t, err)

	_, err = s.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyToken_Garbage(t *testing.T) {
	_, err := NewService("test-secret").VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("not-a-hash", "hunter22"))
}
