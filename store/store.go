package store

import (
	"errors"
	"time"

	"github.com/ferhatk/fizikcozum/model"
)

var (
	// ErrUserNotFound is returned by lookups and mutations on an unknown id.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUsername is returned when creating a user whose username
	// is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
)

// UserUpdate carries the admin-editable fields of a user record. A nil field
// is left unchanged. The password hash cannot be changed through an update.
type UserUpdate struct {
	Role        *string
	Blocked     *bool
	BannedUntil *time.Time
}

type IStore interface {
	Init() error
	GetUser(id string) (model.User, error)
	GetUserByName(username string) (model.User, error)
	CreateUser(username, passwordHash string) (model.User, error)
	UpdateUser(id string, update UserUpdate) (model.User, error)
	DeleteUser(id string) error
	GetUsers() ([]model.User, error)
}
