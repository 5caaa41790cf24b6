package jsondb_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ferhatk/fizikcozum/model"
	"github.com/ferhatk/fizikcozum/store"
	"github.com/ferhatk/fizikcozum/store/jsondb"
	"github.com/ferhatk/fizikcozum/util"
)

func newTestDB(t *testing.T) (*jsondb.JsonDB, string) {
	t.Helper()
	util.BcryptCost = bcrypt.MinCost
	t.Setenv(util.AdminUsernameEnvVar, "admin")
	t.Setenv(util.AdminPasswordEnvVar, "admin123")

	dataPath := filepath.Join(t.TempDir(), "users.json")
	db := jsondb.New(dataPath)
	require.NoError(t, db.Init())
	return db, dataPath
}

func TestInitCreatesBootstrapAdminOnce(t *testing.T) {
	db, dataPath := newTestDB(t)

	admin, err := db.GetUserByName("admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.NotEmpty(t, admin.ID)

	ok, err := util.VerifyHash(admin.Password, "admin123")
	require.NoError(t, err)
	assert.True(t, ok)

	// a second Init on the same file must not create a second admin
	reopened := jsondb.New(dataPath)
	require.NoError(t, reopened.Init())
	users, err := reopened.GetUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)

	again, err := reopened.GetUserByName("admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
}

func TestCreateUserDefaultsAndDuplicates(t *testing.T) {
	db, _ := newTestDB(t)

	user, err := db.CreateUser("alice", "hash-1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.False(t, user.Blocked)
	assert.Nil(t, user.BannedUntil)

	_, err = db.CreateUser("alice", "hash-2")
	assert.ErrorIs(t, err, store.ErrDuplicateUsername)

	// exact match is case-sensitive
	_, err = db.CreateUser("Alice", "hash-3")
	require.NoError(t, err)

	users, err := db.GetUsers()
	require.NoError(t, err)
	count := 0
	for _, u := range users {
		if u.Username == "alice" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	db, dataPath := newTestDB(t)

	created, err := db.CreateUser("alice", "hash-1")
	require.NoError(t, err)

	// the durable copy is a single array of full records
	data, err := os.ReadFile(dataPath)
	require.NoError(t, err)
	var records []model.User
	require.NoError(t, json.Unmarshal(data, &records))
	assert.Len(t, records, 2) // admin + alice

	reopened := jsondb.New(dataPath)
	require.NoError(t, reopened.Init())

	loaded, err := reopened.GetUser(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, loaded)
}

func TestUpdateUserMergesOnlyProvidedFields(t *testing.T) {
	db, _ := newTestDB(t)

	user, err := db.CreateUser("alice", "hash-1")
	require.NoError(t, err)

	blocked := true
	updated, err := db.UpdateUser(user.ID, store.UserUpdate{Blocked: &blocked})
	require.NoError(t, err)
	assert.True(t, updated.Blocked)
	assert.Equal(t, user.ID, updated.ID)
	assert.Equal(t, model.RoleUser, updated.Role)
	assert.Equal(t, "hash-1", updated.Password)

	role := model.RoleAdmin
	until := time.Now().Add(24 * time.Hour).UTC()
	updated, err = db.UpdateUser(user.ID, store.UserUpdate{Role: &role, BannedUntil: &until})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)
	assert.True(t, updated.Blocked)
	require.NotNil(t, updated.BannedUntil)
	assert.Equal(t, until, *updated.BannedUntil)

	_, err = db.UpdateUser("no-such-id", store.UserUpdate{Blocked: &blocked})
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	db, _ := newTestDB(t)

	user, err := db.CreateUser("alice", "hash-1")
	require.NoError(t, err)

	require.NoError(t, db.DeleteUser(user.ID))

	_, err = db.GetUser(user.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	users, err := db.GetUsers()
	require.NoError(t, err)
	for _, u := range users {
		assert.NotEqual(t, "alice", u.Username)
	}

	assert.ErrorIs(t, db.DeleteUser(user.ID), store.ErrUserNotFound)
}
