package staff

import (
	"context"
	"errors"
	"time"
)

// Staff is one teacher/operator account. Passwords are stored as bcrypt
// hashes only.
type Staff struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	// ErrBadCredentials covers both unknown usernames and wrong
	// passwords, so responses don't leak which one it was.
	ErrBadCredentials = errors.New("invalid username or password")
	// ErrExists is returned when creating a duplicate username.
	ErrExists = errors.New("staff account already exists")
)

// Store holds staff accounts and verifies logins.
type Store interface {
	Create(ctx context.Context, username, password, name string) (Staff, error)
	Authenticate(ctx context.Context, username, password string) (*Staff, error)
	// ChangePassword verifies the old password before replacing it.
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
}
