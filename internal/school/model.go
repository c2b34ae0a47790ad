package school

import (
	"strings"
	"time"
)

// School is one row of the schools table.
type School struct {
	SchoolID    string
	Name        string
	Address     *string
	Phone       *string
	WorkingDays []string
	CreatedAt   time.Time
}

// Canonical weekday order, lowercase names. working_days is persisted as a
// comma-joined subset of these.
var weekdayOrder = []string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// DefaultWorkingDays is assumed whenever a school has no stored configuration.
// Attendance capture must never be blocked by missing school settings.
var DefaultWorkingDays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

func weekdayIndex(name string) int {
	for i, d := range weekdayOrder {
		if d == name {
			return i
		}
	}
	return -1
}

// NormalizeWorkingDays lowercases, validates and dedupes day names, returning
// them in canonical Sunday-first order.
func NormalizeWorkingDays(days []string) ([]string, error) {
	if len(days) == 0 {
		return nil, ErrInvalid("working_days must not be empty")
	}
	seen := [7]bool{}
	for _, d := range days {
		name := strings.ToLower(strings.TrimSpace(d))
		idx := weekdayIndex(name)
		if idx < 0 {
			return nil, ErrInvalid("unknown weekday: " + d)
		}
		seen[idx] = true
	}
	out := make([]string, 0, 7)
	for i, d := range weekdayOrder {
		if seen[i] {
			out = append(out, d)
		}
	}
	return out, nil
}

func joinWorkingDays(days []string) string {
	return strings.Join(days, ",")
}

func splitWorkingDays(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s School) toDTO() SchoolResponse {
	return SchoolResponse{
		SchoolID:    s.SchoolID,
		Name:        s.Name,
		Address:     s.Address,
		Phone:       s.Phone,
		WorkingDays: s.WorkingDays,
		CreatedAt:   s.CreatedAt,
	}
}
