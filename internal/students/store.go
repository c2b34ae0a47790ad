package students

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type StudentStore interface {
	Create(ctx context.Context, st *Student) error
	GetByID(ctx context.Context, studentID string) (*Student, error)
	List(ctx context.Context, f StudentFilter) ([]Student, int64, error)
	Update(ctx context.Context, st *Student) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) StudentStore { return &Store{db: db} }

const studentColumns = `student_id, school_id, class_id, admission_no, name,
	father_phone, mother_phone, guardian_name, created_at`

func scanStudent(row interface{ Scan(...any) error }) (*Student, error) {
	var st Student
	err := row.Scan(
		&st.StudentID, &st.SchoolID, &st.ClassID, &st.AdmissionNo, &st.Name,
		&st.FatherPhone, &st.MotherPhone, &st.GuardianName, &st.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) Create(ctx context.Context, st *Student) error {
	const q = `
	INSERT INTO students
	(student_id, school_id, class_id, admission_no, name, father_phone, mother_phone, guardian_name, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(6))`
	_, err := s.db.ExecContext(ctx, q,
		st.StudentID, st.SchoolID, st.ClassID, st.AdmissionNo, st.Name,
		st.FatherPhone, st.MotherPhone, st.GuardianName)
	if err != nil && strings.Contains(err.Error(), "Duplicate entry") {
		// UNIQUE(school_id, admission_no)
		return ErrConflict("admission_no already exists in this school")
	}
	return err
}

func (s *Store) GetByID(ctx context.Context, studentID string) (*Student, error) {
	q := `SELECT ` + studentColumns + ` FROM students WHERE student_id = ? LIMIT 1`
	st, err := scanStudent(s.db.QueryRowContext(ctx, q, studentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) List(ctx context.Context, f StudentFilter) ([]Student, int64, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)

	buf.WriteString(`SELECT ` + studentColumns + ` FROM students`)

	wheres = append(wheres, "school_id = ?")
	args = append(args, f.SchoolID)
	if f.ClassID != nil && *f.ClassID != "" {
		wheres = append(wheres, "class_id = ?")
		args = append(args, *f.ClassID)
	}
	buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	buf.WriteString(" ORDER BY admission_no ASC, student_id ASC")

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	buf.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, f.Offset))

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var cntBuf bytes.Buffer
	cntBuf.WriteString("SELECT COUNT(*) FROM students WHERE " + strings.Join(wheres, " AND "))
	var total int64
	if err := s.db.QueryRowContext(ctx, cntBuf.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) Update(ctx context.Context, st *Student) (int64, error) {
	const q = `
	UPDATE students
	SET class_id = ?, name = ?, father_phone = ?, mother_phone = ?, guardian_name = ?
	WHERE student_id = ?`
	res, err := s.db.ExecContext(ctx, q,
		st.ClassID, st.Name, st.FatherPhone, st.MotherPhone, st.GuardianName, st.StudentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
