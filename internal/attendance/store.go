package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	platformdb "SIMS-backend/internal/platform/db"
)

type Store interface {
	UpsertBatch(ctx context.Context, recs []Record) ([]Record, error)
	ListByDate(ctx context.Context, schoolID, date string, classID *string) ([]RecordDetail, error)
	ListRange(ctx context.Context, schoolID string, classID, studentID *string, from, to string) ([]Record, error)
	GuardianContacts(ctx context.Context, studentIDs []string) ([]GuardianContact, error)
	InsertAlert(ctx context.Context, a *Alert) error
	ListAlerts(ctx context.Context, q AlertListQuery) ([]Alert, error)
}

type sqlStore struct{ db *sql.DB }

func NewStore(db *sql.DB) Store { return &sqlStore{db: db} }

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// UpsertBatch inserts or overwrites one row per (student_id, att_date) and
// returns the persisted rows. The multi-row INSERT and the re-select run in
// one transaction so the returned rows are exactly what was committed.
func (s *sqlStore) UpsertBatch(ctx context.Context, recs []Record) ([]Record, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	var out []Record
	err := platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		var (
			buf  bytes.Buffer
			args []any
		)
		buf.WriteString(`
		INSERT INTO attendance
		(school_id, class_id, student_id, att_date, status, remarks, marked_by, created_at, updated_at)
		VALUES `)
		for i, r := range recs {
			if i > 0 {
				buf.WriteString(",")
			}
			buf.WriteString("(?, ?, ?, ?, ?, ?, ?, NOW(6), NOW(6))")
			args = append(args, r.SchoolID, r.ClassID, r.StudentID, r.AttDate, string(r.Status), remarksOrNil(r.Remarks), r.MarkedBy)
		}
		// UNIQUE(student_id, att_date): resubmission overwrites, never duplicates.
		buf.WriteString(`
		ON DUPLICATE KEY UPDATE
		school_id = VALUES(school_id),
		class_id  = VALUES(class_id),
		status    = VALUES(status),
		remarks   = VALUES(remarks),
		marked_by = VALUES(marked_by),
		updated_at = NOW(6)`)

		if _, err := tx.ExecContext(ctx, buf.String(), args...); err != nil {
			return err
		}

		ids := make([]any, 0, len(recs)+1)
		ids = append(ids, recs[0].AttDate)
		for _, r := range recs {
			ids = append(ids, r.StudentID)
		}
		q := fmt.Sprintf(`
		SELECT attendance_id, school_id, class_id, student_id,
		       DATE_FORMAT(att_date, '%%Y-%%m-%%d') AS att_date,
		       status, remarks, marked_by, created_at
		FROM attendance
		WHERE att_date = ? AND student_id IN (%s)
		ORDER BY attendance_id ASC`, placeholders(len(recs)))

		rows, err := tx.QueryContext(ctx, q, ids...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var r Record
			var status string
			if err := rows.Scan(&r.AttendanceID, &r.SchoolID, &r.ClassID, &r.StudentID,
				&r.AttDate, &status, &r.Remarks, &r.MarkedBy, &r.CreatedAt); err != nil {
				return err
			}
			r.Status = Status(status)
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *sqlStore) ListByDate(ctx context.Context, schoolID, date string, classID *string) ([]RecordDetail, error) {
	var (
		buf  bytes.Buffer
		args []any
	)
	buf.WriteString(`
	SELECT a.attendance_id, a.school_id, a.class_id, a.student_id,
	       DATE_FORMAT(a.att_date, '%Y-%m-%d') AS att_date,
	       a.status, a.remarks, a.marked_by, a.created_at,
	       COALESCE(st.name, ''), COALESCE(st.admission_no, ''), COALESCE(sa.display_name, '')
	FROM attendance a
	LEFT JOIN students st ON st.student_id = a.student_id
	LEFT JOIN staff_accounts sa ON sa.staff_id = a.marked_by
	WHERE a.school_id = ? AND a.att_date = ?`)
	args = append(args, schoolID, date)
	if classID != nil && *classID != "" {
		buf.WriteString(" AND a.class_id = ?")
		args = append(args, *classID)
	}
	buf.WriteString(" ORDER BY a.attendance_id ASC")

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RecordDetail, 0, 32)
	for rows.Next() {
		var d RecordDetail
		var status string
		if err := rows.Scan(&d.AttendanceID, &d.SchoolID, &d.ClassID, &d.StudentID,
			&d.AttDate, &status, &d.Remarks, &d.MarkedBy, &d.CreatedAt,
			&d.StudentName, &d.AdmissionNo, &d.MarkedByName); err != nil {
			return nil, err
		}
		d.Status = Status(status)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *sqlStore) ListRange(ctx context.Context, schoolID string, classID, studentID *string, from, to string) ([]Record, error) {
	var out []Record
	err := platformdb.ReadOnly(ctx, s.db, func(ctx context.Context, tx platformdb.DBTX) error {
		var (
			buf  bytes.Buffer
			args []any
		)
		buf.WriteString(`
		SELECT attendance_id, school_id, class_id, student_id,
		       DATE_FORMAT(att_date, '%Y-%m-%d') AS att_date,
		       status, remarks, marked_by, created_at
		FROM attendance
		WHERE school_id = ? AND att_date BETWEEN ? AND ?`)
		args = append(args, schoolID, from, to)
		if classID != nil && *classID != "" {
			buf.WriteString(" AND class_id = ?")
			args = append(args, *classID)
		}
		if studentID != nil && *studentID != "" {
			buf.WriteString(" AND student_id = ?")
			args = append(args, *studentID)
		}
		buf.WriteString(" ORDER BY att_date ASC, attendance_id ASC")

		rows, err := tx.QueryContext(ctx, buf.String(), args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var r Record
			var status string
			if err := rows.Scan(&r.AttendanceID, &r.SchoolID, &r.ClassID, &r.StudentID,
				&r.AttDate, &status, &r.Remarks, &r.MarkedBy, &r.CreatedAt); err != nil {
				return err
			}
			r.Status = Status(status)
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *sqlStore) GuardianContacts(ctx context.Context, studentIDs []string) ([]GuardianContact, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(`
	SELECT student_id, name, father_phone, mother_phone
	FROM students
	WHERE student_id IN (%s)`, placeholders(len(studentIDs)))

	args := make([]any, 0, len(studentIDs))
	for _, id := range studentIDs {
		args = append(args, id)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]GuardianContact, 0, len(studentIDs))
	for rows.Next() {
		var g GuardianContact
		if err := rows.Scan(&g.StudentID, &g.Name, &g.FatherPhone, &g.MotherPhone); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *sqlStore) InsertAlert(ctx context.Context, a *Alert) error {
	const q = `
	INSERT INTO attendance_alerts
	(alert_ulid, school_id, attendance_id, student_id, phone, alert_type, message, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, 'pending', NOW(6))`
	_, err := s.db.ExecContext(ctx, q,
		a.AlertULID, a.SchoolID, a.AttendanceID, a.StudentID, a.Phone, string(a.AlertType), a.Message)
	return err
}

func (s *sqlStore) ListAlerts(ctx context.Context, q AlertListQuery) ([]Alert, error) {
	var (
		buf  bytes.Buffer
		args []any
	)
	buf.WriteString(`
	SELECT alert_id, alert_ulid, school_id, attendance_id, student_id,
	       phone, alert_type, message, status, created_at
	FROM attendance_alerts
	WHERE school_id = ?`)
	args = append(args, q.SchoolID)
	if q.Date != nil && *q.Date != "" {
		buf.WriteString(" AND DATE(created_at) = ?")
		args = append(args, *q.Date)
	}
	buf.WriteString(" ORDER BY alert_id DESC")

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	buf.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, q.Offset))

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Alert
	for rows.Next() {
		var a Alert
		var alertType string
		if err := rows.Scan(&a.AlertID, &a.AlertULID, &a.SchoolID, &a.AttendanceID, &a.StudentID,
			&a.Phone, &alertType, &a.Message, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.AlertType = Status(alertType)
		out = append(out, a)
	}
	return out, rows.Err()
}

// ===== helpers =====

func remarksOrNil(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
