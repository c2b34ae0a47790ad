package attendance

import (
	"strings"
	"time"

	"golang.org/x/text/width"
)

const DateLayout = "2006-01-02"

// Status is the closed set of attendance states. Anything else is rejected
// before persistence.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusLeave   Status = "leave"
	StatusExcused Status = "excused"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPresent:
		return StatusPresent, nil
	case StatusAbsent:
		return StatusAbsent, nil
	case StatusLate:
		return StatusLate, nil
	case StatusLeave:
		return StatusLeave, nil
	case StatusExcused:
		return StatusExcused, nil
	default:
		return "", ErrInvalid("unknown status: " + s)
	}
}

// alertsGuardian reports whether this status produces a guardian alert.
// Excused absences are tracked in summaries but deliberately do not alert.
func (s Status) alertsGuardian() bool {
	return s == StatusAbsent || s == StatusLate || s == StatusLeave
}

// countsAsLeave reports whether this status folds into the "leave" summary
// bucket. Excused is grouped with leave everywhere counts are reported.
func (s Status) countsAsLeave() bool {
	return s == StatusLeave || s == StatusExcused
}

// Record is one row of the attendance table. UNIQUE(student_id, att_date)
// makes resubmission overwrite instead of duplicate.
type Record struct {
	AttendanceID uint64
	SchoolID     string
	ClassID      string
	StudentID    string
	AttDate      string // YYYY-MM-DD
	Status       Status
	Remarks      *string
	MarkedBy     string
	CreatedAt    time.Time
}

// RecordDetail is a Record joined with display fields for listings.
type RecordDetail struct {
	Record
	StudentName  string
	AdmissionNo  string
	MarkedByName string
}

// Alert is one row of the attendance_alerts table. Delivery beyond the
// initial "pending" state is owned by an external messaging worker.
type Alert struct {
	AlertID      uint64
	AlertULID    string
	SchoolID     string
	AttendanceID *uint64
	StudentID    string
	Phone        string
	AlertType    Status
	Message      string
	Status       string
	CreatedAt    time.Time
}

// GuardianContact carries the phone numbers needed for the alert fan-out.
type GuardianContact struct {
	StudentID   string
	Name        string
	FatherPhone *string
	MotherPhone *string
}

// guardianPhone picks the father's number, falling back to the mother's.
// Returns "" when neither yields a dialable number.
func (g GuardianContact) guardianPhone() string {
	if g.FatherPhone != nil {
		if p := normalizePhone(*g.FatherPhone); p != "" {
			return p
		}
	}
	if g.MotherPhone != nil {
		if p := normalizePhone(*g.MotherPhone); p != "" {
			return p
		}
	}
	return ""
}

// normalizePhone folds full-width digits to ASCII and strips formatting so
// stored numbers like "０９０-1234 5678" become dialable.
func normalizePhone(raw string) string {
	s := width.Narrow.String(strings.TrimSpace(raw))
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (r Record) toDTO() RecordResponse {
	return RecordResponse{
		AttendanceID: r.AttendanceID,
		SchoolID:     r.SchoolID,
		ClassID:      r.ClassID,
		StudentID:    r.StudentID,
		Date:         r.AttDate,
		Status:       string(r.Status),
		Remarks:      r.Remarks,
		MarkedBy:     r.MarkedBy,
		CreatedAt:    r.CreatedAt,
	}
}

func (r RecordDetail) toDTO() RecordDetailResponse {
	return RecordDetailResponse{
		RecordResponse: r.Record.toDTO(),
		StudentName:    r.StudentName,
		AdmissionNo:    r.AdmissionNo,
		MarkedByName:   r.MarkedByName,
	}
}

func (a Alert) toDTO() AlertResponse {
	return AlertResponse{
		AlertID:      a.AlertID,
		AlertULID:    a.AlertULID,
		SchoolID:     a.SchoolID,
		AttendanceID: a.AttendanceID,
		StudentID:    a.StudentID,
		Phone:        a.Phone,
		AlertType:    string(a.AlertType),
		Message:      a.Message,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt,
	}
}
