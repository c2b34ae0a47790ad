package attendance

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"SIMS-backend/internal/school"
)

// ===== Error model =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

// ===== Interfaces =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// SchoolDirectory looks up a school's display name and working-day calendar.
// Unknown schools return ("", nil, nil).
type SchoolDirectory interface {
	WorkingCalendar(ctx context.Context, schoolID string) (name string, days []string, err error)
}

// ===== Service =====

type Service struct {
	store   Store
	schools SchoolDirectory
	clock   Clock
	id      IDGen
}

func NewService(db *sql.DB, schools SchoolDirectory) *Service {
	return &Service{
		store:   NewStore(db),
		schools: schools,
		clock:   realClock{},
		id:      ulidGen{},
	}
}

// Submit records attendance for a whole class on one date. All-or-nothing
// with respect to validation and the batch upsert; guardian alerts are
// best-effort and only tallied.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	if req.SchoolID == "" || req.ClassID == "" || req.Date == "" || len(req.Records) == 0 {
		return nil, ErrInvalid("missing required fields")
	}

	date, err := time.ParseInLocation(DateLayout, req.Date, time.UTC)
	if err != nil {
		return nil, ErrInvalid("date must be YYYY-MM-DD")
	}

	statuses := make([]Status, len(req.Records))
	for i, rec := range req.Records {
		if rec.StudentID == "" {
			return nil, ErrInvalid("student_id is required for every record")
		}
		st, err := ParseStatus(rec.Status)
		if err != nil {
			return nil, err
		}
		statuses[i] = st
	}

	schoolName, workingDays, err := s.schools.WorkingCalendar(ctx, req.SchoolID)
	if err != nil {
		return nil, ErrInternal("school lookup failed: " + err.Error())
	}
	// Missing configuration must never block attendance capture.
	if len(workingDays) == 0 {
		workingDays = school.DefaultWorkingDays
	}

	weekday := strings.ToLower(date.Weekday().String())
	if !containsDay(workingDays, weekday) {
		return nil, ErrInvalid(fmt.Sprintf(
			"%s is not a working day for this school (working days: %s)",
			weekday, strings.Join(workingDays, ", ")))
	}

	recs := make([]Record, len(req.Records))
	for i, rec := range req.Records {
		recs[i] = Record{
			SchoolID:  req.SchoolID,
			ClassID:   req.ClassID,
			StudentID: rec.StudentID,
			AttDate:   req.Date,
			Status:    statuses[i],
			Remarks:   rec.Remarks,
			MarkedBy:  req.MarkedBy,
		}
	}

	persisted, err := s.store.UpsertBatch(ctx, recs)
	if err != nil {
		return nil, ErrInternal("failed to save attendance: " + err.Error())
	}

	summary := Summary{Total: len(req.Records)}
	for _, st := range statuses {
		switch {
		case st == StatusPresent:
			summary.Present++
		case st == StatusAbsent:
			summary.Absent++
		case st == StatusLate:
			summary.Late++
		case st.countsAsLeave():
			summary.Leave++
		}
	}

	sendSMS := req.SendSMS == nil || *req.SendSMS
	if sendSMS {
		sent, failed := s.fanOutAlerts(ctx, recs, persisted, schoolName)
		summary.SMSSent = sent
		summary.SMSFailed = failed
	}

	data := make([]RecordResponse, 0, len(persisted))
	for _, r := range persisted {
		data = append(data, r.toDTO())
	}

	return &SubmitResponse{
		Success: true,
		Message: fmt.Sprintf("Attendance recorded for %d students", summary.Total),
		Summary: summary,
		Data:    data,
	}, nil
}

// fanOutAlerts inserts one pending alert per alert-worthy student with a
// reachable guardian phone. Individual failures are logged and counted but
// never fail the submission.
func (s *Service) fanOutAlerts(ctx context.Context, recs, persisted []Record, schoolName string) (sent, failed int) {
	byStudent := make(map[string]Record, len(recs))
	var affected []string
	for _, r := range recs {
		if r.Status.alertsGuardian() {
			byStudent[r.StudentID] = r
			affected = append(affected, r.StudentID)
		}
	}
	if len(affected) == 0 {
		return 0, 0
	}

	attendanceIDs := make(map[string]uint64, len(persisted))
	for _, r := range persisted {
		attendanceIDs[r.StudentID] = r.AttendanceID
	}

	contacts, err := s.store.GuardianContacts(ctx, affected)
	if err != nil {
		log.Printf("[WARN] guardian lookup failed, skipping alerts: %v", err)
		return 0, len(affected)
	}

	if schoolName == "" {
		schoolName = "the school"
	}

	for _, g := range contacts {
		rec, ok := byStudent[g.StudentID]
		if !ok {
			continue
		}
		phone := g.guardianPhone()
		if phone == "" {
			continue
		}

		alertULID, err := s.id.New()
		if err != nil {
			log.Printf("[WARN] alert id generation failed for student %s: %v", g.StudentID, err)
			failed++
			continue
		}

		alert := Alert{
			AlertULID: alertULID,
			SchoolID:  rec.SchoolID,
			StudentID: g.StudentID,
			Phone:     phone,
			AlertType: rec.Status,
			Message:   alertMessage(rec.Status, g.Name, rec.AttDate, schoolName),
		}
		if id, ok := attendanceIDs[g.StudentID]; ok {
			alert.AttendanceID = &id
		}

		if err := s.store.InsertAlert(ctx, &alert); err != nil {
			log.Printf("[WARN] failed to insert alert for student %s: %v", g.StudentID, err)
			failed++
			continue
		}
		sent++
	}
	return sent, failed
}

func alertMessage(st Status, studentName, date, schoolName string) string {
	switch st {
	case StatusAbsent:
		return fmt.Sprintf("Dear Parent, your ward %s was marked absent on %s at %s. Please contact the school office.",
			studentName, date, schoolName)
	case StatusLate:
		return fmt.Sprintf("Dear Parent, your ward %s arrived late on %s.", studentName, date)
	default:
		return fmt.Sprintf("Dear Parent, leave has been recorded for your ward %s on %s.", studentName, date)
	}
}

// GetByDate lists one day's records with student/staff display fields.
// An empty day yields an empty array, not an error.
func (s *Service) GetByDate(ctx context.Context, schoolID, dateStr string, classID *string) ([]RecordDetailResponse, error) {
	if schoolID == "" {
		return nil, ErrInvalid("school_id is required")
	}
	if dateStr == "" || strings.EqualFold(dateStr, "today") {
		dateStr = s.clock.Now().UTC().Format(DateLayout)
	}
	if _, err := time.ParseInLocation(DateLayout, dateStr, time.UTC); err != nil {
		return nil, ErrInvalid("date must be YYYY-MM-DD or 'today'")
	}

	rows, err := s.store.ListByDate(ctx, schoolID, dateStr, classID)
	if err != nil {
		return nil, ErrInternal(err.Error())
	}
	out := make([]RecordDetailResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDTO())
	}
	return out, nil
}

// MonthlySummary aggregates per-status counts for one month.
// percentage = round(100 * present / (present+absent+late+leave)), 0 when the
// denominator is 0.
func (s *Service) MonthlySummary(ctx context.Context, req MonthlySummaryRequest) (*MonthlySummaryResponse, error) {
	if req.SchoolID == "" {
		return nil, ErrInvalid("school_id is required")
	}
	if req.Month < 1 || req.Month > 12 {
		return nil, ErrInvalid("month must be between 1 and 12")
	}
	if req.Year < 1970 || req.Year > 9999 {
		return nil, ErrInvalid("year is out of range")
	}

	first := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	rows, err := s.store.ListRange(ctx, req.SchoolID, req.ClassID, req.StudentID,
		first.Format(DateLayout), last.Format(DateLayout))
	if err != nil {
		return nil, ErrInternal(err.Error())
	}

	resp := MonthlySummaryResponse{Records: make([]RecordResponse, 0, len(rows))}
	for _, r := range rows {
		switch {
		case r.Status == StatusPresent:
			resp.Present++
		case r.Status == StatusAbsent:
			resp.Absent++
		case r.Status == StatusLate:
			resp.Late++
		case r.Status.countsAsLeave():
			resp.Leave++
		}
		resp.Records = append(resp.Records, r.toDTO())
	}

	resp.TotalDays = resp.Present + resp.Absent + resp.Late + resp.Leave
	if resp.TotalDays > 0 {
		resp.Percentage = int(math.Round(100 * float64(resp.Present) / float64(resp.TotalDays)))
	}
	return &resp, nil
}

// ListAlerts exposes the alert log for auditing. Delivery state beyond
// "pending" is owned by the messaging worker.
func (s *Service) ListAlerts(ctx context.Context, q AlertListQuery) ([]AlertResponse, error) {
	if q.SchoolID == "" {
		return nil, ErrInvalid("school_id is required")
	}
	if q.Date != nil && *q.Date != "" {
		if _, err := time.ParseInLocation(DateLayout, *q.Date, time.UTC); err != nil {
			return nil, ErrInvalid("date must be YYYY-MM-DD")
		}
	}
	rows, err := s.store.ListAlerts(ctx, q)
	if err != nil {
		return nil, ErrInternal(err.Error())
	}
	out := make([]AlertResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, a.toDTO())
	}
	return out, nil
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if strings.EqualFold(d, day) {
			return true
		}
	}
	return false
}
