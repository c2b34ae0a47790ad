package students

import "time"

type CreateStudentRequest struct {
	SchoolID     string  `json:"school_id" binding:"required"`
	ClassID      string  `json:"class_id" binding:"required"`
	AdmissionNo  string  `json:"admission_no" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	FatherPhone  *string `json:"father_phone,omitempty"`
	MotherPhone  *string `json:"mother_phone,omitempty"`
	GuardianName *string `json:"guardian_name,omitempty"`
}

type UpdateStudentRequest struct {
	ClassID      *string `json:"class_id,omitempty"`
	Name         *string `json:"name,omitempty"`
	FatherPhone  *string `json:"father_phone,omitempty"`
	MotherPhone  *string `json:"mother_phone,omitempty"`
	GuardianName *string `json:"guardian_name,omitempty"`
}

type StudentResponse struct {
	StudentID    string    `json:"student_id"`
	SchoolID     string    `json:"school_id"`
	ClassID      string    `json:"class_id"`
	AdmissionNo  string    `json:"admission_no"`
	Name         string    `json:"name"`
	FatherPhone  *string   `json:"father_phone,omitempty"`
	MotherPhone  *string   `json:"mother_phone,omitempty"`
	GuardianName *string   `json:"guardian_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ListStudentsResponse struct {
	Students []StudentResponse `json:"students"`
	Total    int64             `json:"total"`
}
