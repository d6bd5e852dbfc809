package staff

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Repository persists staff accounts in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new account with a bcrypt-hashed password.
func (r *Repository) Create(ctx context.Context, username, password, name string) (Staff, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Staff{}, err
	}
	st := Staff{ID: uuid.NewString(), Username: username, Name: name, CreatedAt: time.Now().UTC()}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO staff (id, username, password_hash, name, created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (username) DO NOTHING
		RETURNING id
	`, st.ID, st.Username, hash, st.Name, st.CreatedAt)
	if err := row.Scan(&st.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Staff{}, ErrExists
		}
		return Staff{}, err
	}
	return st, nil
}

// Authenticate checks a username/password pair.
func (r *Repository) Authenticate(ctx context.Context, username, password string) (*Staff, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, name, created_at FROM staff WHERE username = $1
	`, username)
	var st Staff
	var hash []byte
	if err := row.Scan(&st.ID, &st.Username, &hash, &st.Name, &st.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return &st, nil
}

// ChangePassword verifies the old password before writing a new hash.
func (r *Repository) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if _, err := r.Authenticate(ctx, username, oldPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE staff SET password_hash = $2 WHERE username = $1`, username, hash)
	return err
}
