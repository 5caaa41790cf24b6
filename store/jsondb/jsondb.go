package jsondb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/xid"

	"github.com/ferhatk/fizikcozum/model"
	"github.com/ferhatk/fizikcozum/store"
	"github.com/ferhatk/fizikcozum/util"
)

// JsonDB keeps the whole user collection in memory and mirrors it to a single
// JSON file (an array of full records) on every mutation. The file is written
// to a temp path and renamed into place so a crash mid-write never corrupts
// the durable copy. Intended for a single process instance only: two
// instances sharing one file would overwrite each other's writes.
type JsonDB struct {
	dataPath string

	mu    sync.RWMutex
	users map[string]model.User
}

// New returns a new pointer JsonDB
func New(dataPath string) *JsonDB {
	return &JsonDB{
		dataPath: dataPath,
		users:    make(map[string]model.User),
	}
}

// Init loads the collection from disk, starting empty on first run, and then
// makes sure the bootstrap admin account exists.
func (o *JsonDB) Init() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.load(); err != nil {
		return err
	}

	// bootstrap admin account
	adminUsername := util.LookupEnvOrString(util.AdminUsernameEnvVar, util.DefaultAdminUsername)
	if _, ok := o.findByName(adminUsername); ok {
		return nil
	}

	plaintext := util.LookupEnvOrString(util.AdminPasswordEnvVar, util.DefaultAdminPassword)
	hash, err := util.HashPassword(plaintext)
	if err != nil {
		return err
	}

	admin := model.User{
		ID:       xid.New().String(),
		Username: adminUsername,
		Password: hash,
		Role:     model.RoleAdmin,
	}
	o.users[admin.ID] = admin
	if err := o.persist(); err != nil {
		delete(o.users, admin.ID)
		return err
	}
	return nil
}

// GetUser func to query a user by id from the database
func (o *JsonDB) GetUser(id string) (model.User, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	user, ok := o.users[id]
	if !ok {
		return model.User{}, store.ErrUserNotFound
	}
	return user, nil
}

// GetUserByName func to query a user by username from the database. The
// match is case-sensitive and exact.
func (o *JsonDB) GetUserByName(username string) (model.User, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	user, ok := o.findByName(username)
	if !ok {
		return model.User{}, store.ErrUserNotFound
	}
	return user, nil
}

// CreateUser func to save a new user in the database. New users always start
// with the regular role and an unblocked account.
func (o *JsonDB) CreateUser(username, passwordHash string) (model.User, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.findByName(username); ok {
		return model.User{}, store.ErrDuplicateUsername
	}

	user := model.User{
		ID:       xid.New().String(),
		Username: username,
		Password: passwordHash,
		Role:     model.RoleUser,
	}
	o.users[user.ID] = user
	if err := o.persist(); err != nil {
		delete(o.users, user.ID)
		return model.User{}, err
	}
	return user, nil
}

// UpdateUser func to merge the provided fields into an existing record
func (o *JsonDB) UpdateUser(id string, update store.UserUpdate) (model.User, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	user, ok := o.users[id]
	if !ok {
		return model.User{}, store.ErrUserNotFound
	}

	prev := user
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.Blocked != nil {
		user.Blocked = *update.Blocked
	}
	if update.BannedUntil != nil {
		user.BannedUntil = update.BannedUntil
	}

	o.users[id] = user
	if err := o.persist(); err != nil {
		o.users[id] = prev
		return model.User{}, err
	}
	return user, nil
}

// DeleteUser func to remove a user from the database
func (o *JsonDB) DeleteUser(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	user, ok := o.users[id]
	if !ok {
		return store.ErrUserNotFound
	}

	delete(o.users, id)
	if err := o.persist(); err != nil {
		o.users[id] = user
		return err
	}
	return nil
}

// GetUsers func to get all users from the database
func (o *JsonDB) GetUsers() ([]model.User, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	users := make([]model.User, 0, len(o.users))
	for _, user := range o.users {
		users = append(users, user)
	}
	return users, nil
}

func (o *JsonDB) findByName(username string) (model.User, bool) {
	for _, user := range o.users {
		if user.Username == username {
			return user, true
		}
	}
	return model.User{}, false
}

// load reads the whole collection file into memory. A missing file is a
// first run and leaves the collection empty.
func (o *JsonDB) load() error {
	data, err := os.ReadFile(o.dataPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cannot read user database: %w", err)
	}

	var records []model.User
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("cannot decode user database: %w", err)
	}

	o.users = make(map[string]model.User, len(records))
	for _, user := range records {
		o.users[user.ID] = user
	}
	return nil
}

// persist writes the full collection to a temp file and renames it over the
// data file. Callers must hold the write lock.
func (o *JsonDB) persist() error {
	records := make([]model.User, 0, len(o.users))
	for _, user := range o.users {
		records = append(records, user)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode user database: %w", err)
	}

	dir := filepath.Dir(o.dataPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("cannot create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "users-*.json.tmp")
	if err != nil {
		return fmt.Errorf("cannot create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot write user database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), o.dataPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot replace user database: %w", err)
	}
	return nil
}
