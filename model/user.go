package model

import "time"

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User model. Password always holds the bcrypt hash, never the plaintext.
// BannedUntil is stored and shown to admins but not consulted on login.
type User struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Password    string     `json:"password"`
	Role        string     `json:"role"`
	Blocked     bool       `json:"blocked"`
	BannedUntil *time.Time `json:"bannedUntil"`
}

// PublicUser is the subset of a user record that is safe to return to clients.
type PublicUser struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	Blocked     bool       `json:"blocked"`
	BannedUntil *time.Time `json:"bannedUntil"`
}

// Public strips the password hash from the record.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		Blocked:     u.Blocked,
		BannedUntil: u.BannedUntil,
	}
}
