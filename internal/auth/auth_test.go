package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/ecoquest/internal/profile"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasherWithCost(bcrypt.MinCost)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.ErrorIs(t, h.Compare(hash, "wrong horse"), ErrInvalidCredentials)

	_, err = h.Hash("abc")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("s3cret", time.Hour)
	tok, exp, err := m.Generate("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	id, err := m.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestTokenRejectsOtherSecret(t *testing.T) {
	tok, _, err := NewTokenManager("a", time.Hour).Generate("user-1")
	require.NoError(t, err)
	_, err = NewTokenManager("b", time.Hour).Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpires(t *testing.T) {
	m := NewTokenManager("s3cret", time.Minute)
	issued := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }
	tok, _, err := m.Generate("user-1")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	_, err := NewTokenManager("s3cret", time.Hour).Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserContext(t *testing.T) {
	_, err := UserFrom(context.Background())
	assert.ErrorIs(t, err, profile.ErrNotAuthenticated)

	id, err := UserFrom(WithUser(context.Background(), "user-1"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestLoadOrCreateSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.key")
	first, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
