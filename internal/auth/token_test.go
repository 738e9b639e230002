package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdia/sitegate/internal/auth"
	"github.com/pdia/sitegate/internal/models"
)

const testSecret = "unit-test-signing-secret-32-chars!"

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 30*time.Minute)

	token, err := tm.Issue()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_VerifyRejectsExpiredToken(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 30*time.Minute)

	issuedAt := time.Now()
	tm.SetClock(func() time.Time { return issuedAt })
	token, err := tm.Issue()
	require.NoError(t, err)

	// Just inside the session window: accepted.
	tm.SetClock(func() time.Time { return issuedAt.Add(30*time.Minute - time.Second) })
	_, err = tm.Verify(token)
	assert.NoError(t, err)

	// Past the window: rejected.
	tm.SetClock(func() time.Time { return issuedAt.Add(30*time.Minute + time.Second) })
	_, err = tm.Verify(token)
	assert.True(t, errors.Is(err, models.ErrInvalidToken))
}

func TestTokenManager_VerifyRejectsWrongSecret(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 30*time.Minute)
	other := auth.NewTokenManager("a-completely-different-secret-value", 30*time.Minute)

	token, err := tm.Issue()
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.True(t, errors.Is(err, models.ErrInvalidToken))
}

func TestTokenManager_VerifyRejectsMalformedToken(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 30*time.Minute)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := tm.Verify(token)
		assert.True(t, errors.Is(err, models.ErrInvalidToken), "token %q", token)
	}
}

func TestTokenManager_VerifyRejectsTamperedToken(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 30*time.Minute)

	token, err := tm.Issue()
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "XXXX"
	_, err = tm.Verify(tampered)
	assert.True(t, errors.Is(err, models.ErrInvalidToken))
}
