package students

import "time"

// Student is one row of the students table. StudentID is a ULID assigned at
// admission time.
type Student struct {
	StudentID    string
	SchoolID     string
	ClassID      string
	AdmissionNo  string
	Name         string
	FatherPhone  *string
	MotherPhone  *string
	GuardianName *string
	CreatedAt    time.Time
}

type StudentFilter struct {
	SchoolID string
	ClassID  *string
	Limit    int
	Offset   int
}

func (s Student) toDTO() StudentResponse {
	return StudentResponse{
		StudentID:    s.StudentID,
		SchoolID:     s.SchoolID,
		ClassID:      s.ClassID,
		AdmissionNo:  s.AdmissionNo,
		Name:         s.Name,
		FatherPhone:  s.FatherPhone,
		MotherPhone:  s.MotherPhone,
		GuardianName: s.GuardianName,
		CreatedAt:    s.CreatedAt,
	}
}
