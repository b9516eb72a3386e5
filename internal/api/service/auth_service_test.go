package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinelog/internal/api/repository"
	"cinelog/internal/config"
)

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{
		JWTSecret:       "test-secret-test-secret-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
	return NewAuthService(repository.NewUserRepository(db), repository.NewRefreshTokenRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t)

	user, err := svc.Register("alice", "s3cret-password", "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "s3cret-password", user.Password)

	access, refresh, loggedIn, err := svc.Login("alice", "s3cret-password")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegister_DuplicateIdentity(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Register("alice", "s3cret-password", "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Register("alice", "other-password", "other@example.com")
	assert.ErrorIs(t, err, ErrNameInUse)

	_, err = svc.Register("alice2", "other-password", "alice@example.com")
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Register("alice", "s3cret-password", "alice@example.com")
	require.NoError(t, err)

	_, _, _, err = svc.Login("alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown users fail the same way as wrong passwords.
	_, _, _, err = svc.Login("nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken(t *testing.T) {
	svc := newAuthFixture(t)

	user, err := svc.Register("alice", "s3cret-password", "alice@example.com")
	require.NoError(t, err)

	access, _, _, err := svc.Login("alice", "s3cret-password")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)

	_, err = svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAccessToken(t *testing.T) {
	svc := newAuthFixture(t)

	user, err := svc.Register("alice", "s3cret-password", "alice@example.com")
	require.NoError(t, err)

	_, refresh, _, err := svc.Login("alice", "s3cret-password")
	require.NoError(t, err)

	access, err := svc.RefreshAccessToken(refresh)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.RefreshAccessToken("bogus-refresh-token")
	assert.Error(t, err)
}
