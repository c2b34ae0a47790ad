package attendance

import "time"

type RecordInput struct {
	StudentID string  `json:"student_id"`
	Status    string  `json:"status"`
	Remarks   *string `json:"remarks,omitempty"`
}

// SubmitRequest is validated in the service so the caller gets the exact
// "missing required fields" message rather than a binding error.
type SubmitRequest struct {
	SchoolID string        `json:"school_id"`
	ClassID  string        `json:"class_id"`
	Date     string        `json:"date"` // YYYY-MM-DD
	Records  []RecordInput `json:"attendance_records"`
	MarkedBy string        `json:"marked_by"`
	SendSMS  *bool         `json:"send_sms,omitempty"` // defaults to true
}

type Summary struct {
	Total     int `json:"total"`
	Present   int `json:"present"`
	Absent    int `json:"absent"`
	Late      int `json:"late"`
	Leave     int `json:"leave"` // leave + excused
	SMSSent   int `json:"sms_sent"`
	SMSFailed int `json:"sms_failed"`
}

type SubmitResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Summary Summary          `json:"summary"`
	Data    []RecordResponse `json:"data"`
}

type RecordResponse struct {
	AttendanceID uint64    `json:"attendance_id"`
	SchoolID     string    `json:"school_id"`
	ClassID      string    `json:"class_id"`
	StudentID    string    `json:"student_id"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Status       string    `json:"status"`
	Remarks      *string   `json:"remarks,omitempty"`
	MarkedBy     string    `json:"marked_by"`
	CreatedAt    time.Time `json:"created_at"`
}

type RecordDetailResponse struct {
	RecordResponse
	StudentName  string `json:"student_name"`
	AdmissionNo  string `json:"admission_no"`
	MarkedByName string `json:"marked_by_name"`
}

type MonthlySummaryRequest struct {
	SchoolID  string  `json:"school_id"`
	ClassID   *string `json:"class_id,omitempty"`
	StudentID *string `json:"student_id,omitempty"`
	Month     int     `json:"month"`
	Year      int     `json:"year"`
}

type MonthlySummaryResponse struct {
	TotalDays  int              `json:"total_days"`
	Present    int              `json:"present"`
	Absent     int              `json:"absent"`
	Late       int              `json:"late"`
	Leave      int              `json:"leave"` // leave + excused
	Percentage int              `json:"percentage"`
	Records    []RecordResponse `json:"records"`
}

type AlertResponse struct {
	AlertID      uint64    `json:"alert_id"`
	AlertULID    string    `json:"alert_ulid"`
	SchoolID     string    `json:"school_id"`
	AttendanceID *uint64   `json:"attendance_id,omitempty"`
	StudentID    string    `json:"student_id"`
	Phone        string    `json:"phone"`
	AlertType    string    `json:"alert_type"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type AlertListQuery struct {
	SchoolID string
	Date     *string // filters by creation day, YYYY-MM-DD
	Limit    int
	Offset   int
}
