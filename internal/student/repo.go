package student

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Repository persists student records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const studentColumns = `id, name, status, reason, approved, seat_id, updated_at`

// List returns all records ordered by student number.
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+studentColumns+`
		FROM students
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Status, &st.Reason, &st.Approved, &st.SeatID, &st.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, st)
	}
	return res, rows.Err()
}

// Get returns a single record, nil when unknown.
func (r *Repository) Get(ctx context.Context, id string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+studentColumns+`
		FROM students WHERE id = $1
	`, id)
	var st Student
	if err := row.Scan(&st.ID, &st.Name, &st.Status, &st.Reason, &st.Approved, &st.SeatID, &st.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// Create inserts a new record; status defaults to present.
func (r *Repository) Create(ctx context.Context, st Student) (Student, error) {
	if st.Status == "" {
		st.Status = StatusPresent
	}
	st.UpdatedAt = time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (id, name, status, reason, approved, seat_id, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO NOTHING
		RETURNING updated_at
	`, st.ID, st.Name, st.Status, st.Reason, st.Approved, st.SeatID, st.UpdatedAt)
	if err := row.Scan(&st.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, ErrExists
		}
		return Student{}, err
	}
	return st, nil
}

// Update replaces every field of an existing record.
func (r *Repository) Update(ctx context.Context, st Student) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students
		SET name = $2, status = $3, reason = $4, approved = $5, seat_id = $6, updated_at = NOW()
		WHERE id = $1
	`, st.ID, st.Name, st.Status, st.Reason, st.Approved, st.SeatID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// SetStatus overwrites status and reason only.
func (r *Repository) SetStatus(ctx context.Context, id, status, reason string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET status = $2, reason = $3, updated_at = NOW() WHERE id = $1
	`, id, status, reason)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// Report overwrites status and reason and clears the approved flag.
func (r *Repository) Report(ctx context.Context, id, status, reason string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET status = $2, reason = $3, approved = FALSE, updated_at = NOW() WHERE id = $1
	`, id, status, reason)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// SetApproved flips the staff review flag.
func (r *Repository) SetApproved(ctx context.Context, id string, approved bool) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET approved = $2, updated_at = NOW() WHERE id = $1
	`, id, approved)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// Delete removes a record.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
