package auth

import (
	"context"
	"database/sql"
	"errors"
)

type Staff struct {
	ID           string
	DisplayName  string
	PasswordHash string
	Role         string
	IsDisabled   bool
	CreatedAt    string
}

type StaffStore interface {
	GetByID(ctx context.Context, id string) (*Staff, error)
	Create(ctx context.Context, s *Staff) error
	Delete(ctx context.Context, id string) (int64, error)
	UpdateID(ctx context.Context, oldID, newID string) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) StaffStore {
	return &Store{db: db}
}

func (s *Store) GetByID(ctx context.Context, id string) (*Staff, error) {
	const q = `
SELECT staff_id, display_name, password_hash, role, is_disabled, created_at
FROM staff_accounts
WHERE staff_id = ?
LIMIT 1
`
	var st Staff
	var isDisabledInt int
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&st.ID,
		&st.DisplayName,
		&st.PasswordHash,
		&st.Role,
		&isDisabledInt,
		&st.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if isDisabledInt != 0 {
		st.IsDisabled = true
	}
	return &st, nil
}

func (s *Store) Create(ctx context.Context, st *Staff) error {
	const q = `
INSERT INTO staff_accounts (staff_id, display_name, password_hash, role, is_disabled, created_at)
VALUES (?, ?, ?, ?, 0, NOW(6))
`
	_, err := s.db.ExecContext(ctx, q, st.ID, st.DisplayName, st.PasswordHash, st.Role)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	const q = `DELETE FROM staff_accounts WHERE staff_id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) UpdateID(ctx context.Context, oldID, newID string) (int64, error) {
	// Changing the PK; wrap in a transaction if contention ever matters.
	const q = `UPDATE staff_accounts SET staff_id = ? WHERE staff_id = ?`
	res, err := s.db.ExecContext(ctx, q, newID, oldID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}
