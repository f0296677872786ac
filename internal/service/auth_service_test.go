package service

import (
	"ctf_platform_backend/internal/config"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret!"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, token, err := svc.Register("alice", "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, token)

	loggedIn, token, err := svc.Login("alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, "test-secret-test-secret-test-secret!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestRegisterDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, _, err := svc.Register("alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Register("alice", "other@example.com", "hunter22")
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	_, _, err = svc.Register("bob", "alice@example.com", "hunter22")
	assert.ErrorIs(t, err, util.ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, _, err := svc.Register("alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login("alice", "wrong")
	assert.Error(t, err)

	_, _, err = svc.Login("nobody", "hunter22")
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, _, err := svc.Register("alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(user.ID, "wrong", "newpass99"), util.ErrWrongPassword)

	require.NoError(t, svc.ChangePassword(user.ID, "hunter22", "newpass99"))

	_, _, err = svc.Login("alice", "newpass99")
	assert.NoError(t, err)
}

func TestUpdateProfileUniqueness(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	alice, _, err := svc.Register("alice", "alice@example.com", "hunter22")
	require.NoError(t, err)
	_, _, err = svc.Register("bob", "bob@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(alice.ID, "bob", "alice@example.com")
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	_, err = svc.UpdateProfile(alice.ID, "alice", "bob@example.com")
	assert.ErrorIs(t, err, util.ErrEmailTaken)

	// 保留自己的名字不算冲突
	updated, err := svc.UpdateProfile(alice.ID, "alice", "alice2@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice2@example.com", updated.Email)
}
