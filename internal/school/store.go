package school

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

type SchoolStore interface {
	GetByID(ctx context.Context, schoolID string) (*School, error)
	Create(ctx context.Context, sc *School) error
	List(ctx context.Context, limit, offset int) ([]School, int64, error)
	UpdateWorkingDays(ctx context.Context, schoolID string, days []string) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) SchoolStore { return &Store{db: db} }

func (s *Store) GetByID(ctx context.Context, schoolID string) (*School, error) {
	const q = `
	SELECT school_id, name, address, phone, working_days, created_at
	FROM schools
	WHERE school_id = ?
	LIMIT 1`
	var sc School
	var days string
	err := s.db.QueryRowContext(ctx, q, schoolID).Scan(
		&sc.SchoolID, &sc.Name, &sc.Address, &sc.Phone, &days, &sc.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sc.WorkingDays = splitWorkingDays(days)
	return &sc, nil
}

func (s *Store) Create(ctx context.Context, sc *School) error {
	const q = `
	INSERT INTO schools (school_id, name, address, phone, working_days, created_at)
	VALUES (?, ?, ?, ?, ?, NOW(6))`
	_, err := s.db.ExecContext(ctx, q,
		sc.SchoolID, sc.Name, sc.Address, sc.Phone, joinWorkingDays(sc.WorkingDays))
	if err != nil && strings.Contains(err.Error(), "Duplicate entry") {
		return ErrConflict("school_id already exists")
	}
	return err
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]School, int64, error) {
	const q = `
	SELECT school_id, name, address, phone, working_days, created_at
	FROM schools
	ORDER BY school_id
	LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]School, 0, limit)
	for rows.Next() {
		var sc School
		var days string
		if err := rows.Scan(&sc.SchoolID, &sc.Name, &sc.Address, &sc.Phone, &days, &sc.CreatedAt); err != nil {
			return nil, 0, err
		}
		sc.WorkingDays = splitWorkingDays(days)
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schools`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) UpdateWorkingDays(ctx context.Context, schoolID string, days []string) (int64, error) {
	const q = `UPDATE schools SET working_days = ? WHERE school_id = ?`
	res, err := s.db.ExecContext(ctx, q, joinWorkingDays(days), schoolID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
