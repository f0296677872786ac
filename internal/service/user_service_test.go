package service

import (
	"ctf_platform_backend/internal/model"
	"ctf_platform_backend/internal/repository"
	"ctf_platform_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDeleteGuards(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "admin")
	victim := createUser(t, db, "victim")
	svc := NewUserService(repository.NewUserRepository(db))

	assert.ErrorIs(t, svc.Delete(admin.ID, admin.ID), util.ErrSelfDeletion)
	assert.ErrorIs(t, svc.Delete(424242, admin.ID), util.ErrUserNotFound)

	require.NoError(t, svc.Delete(victim.ID, admin.ID))
	_, err := svc.Get(victim.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestUserUpdateRole(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	svc := NewUserService(repository.NewUserRepository(db))

	updated, err := svc.Update(user.ID, "", "", model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)
	// 没传的字段保持原样
	assert.Equal(t, "alice", updated.Username)
}

func TestUserListPagination(t *testing.T) {
	db := newTestDB(t)
	for _, name := range []string{"u1", "u2", "u3"} {
		createUser(t, db, name)
	}
	svc := NewUserService(repository.NewUserRepository(db))

	users, total, err := svc.List(2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)
}
