package students

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"
)

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

type Service struct {
	store StudentStore
	id    IDGen
}

func NewService(db *sql.DB) *Service {
	return &Service{
		store: NewStore(db),
		id:    ulidGen{},
	}
}

// POST /students
func (s *Service) CreateStudent(ctx context.Context, req CreateStudentRequest) (*StudentResponse, error) {
	id, err := s.id.New()
	if err != nil {
		return nil, ErrInternal("failed to generate student_id")
	}

	st := Student{
		StudentID:    id,
		SchoolID:     req.SchoolID,
		ClassID:      req.ClassID,
		AdmissionNo:  req.AdmissionNo,
		Name:         req.Name,
		FatherPhone:  req.FatherPhone,
		MotherPhone:  req.MotherPhone,
		GuardianName: req.GuardianName,
	}
	if err := s.store.Create(ctx, &st); err != nil {
		return nil, err
	}

	created, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, ErrInternal("inserted but not found")
	}
	resp := created.toDTO()
	return &resp, nil
}

// GET /students/:student_id
func (s *Service) GetStudent(ctx context.Context, studentID string) (*StudentResponse, error) {
	if studentID == "" {
		return nil, ErrInvalid("student_id is required")
	}
	st, err := s.store.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrNotFound("student not found")
	}
	resp := st.toDTO()
	return &resp, nil
}

// GET /students
func (s *Service) ListStudents(ctx context.Context, f StudentFilter) (*ListStudentsResponse, error) {
	if f.SchoolID == "" {
		return nil, ErrInvalid("school_id is required")
	}
	rows, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]StudentResponse, 0, len(rows))
	for _, st := range rows {
		out = append(out, st.toDTO())
	}
	return &ListStudentsResponse{Students: out, Total: total}, nil
}

// PUT /students/:student_id
func (s *Service) UpdateStudent(ctx context.Context, studentID string, req UpdateStudentRequest) (*StudentResponse, error) {
	if studentID == "" {
		return nil, ErrInvalid("student_id is required")
	}
	st, err := s.store.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrNotFound("student not found")
	}

	if req.ClassID != nil && *req.ClassID != "" {
		st.ClassID = *req.ClassID
	}
	if req.Name != nil && *req.Name != "" {
		st.Name = *req.Name
	}
	if req.FatherPhone != nil {
		st.FatherPhone = req.FatherPhone
	}
	if req.MotherPhone != nil {
		st.MotherPhone = req.MotherPhone
	}
	if req.GuardianName != nil {
		st.GuardianName = req.GuardianName
	}

	if _, err := s.store.Update(ctx, st); err != nil {
		return nil, err
	}
	return s.GetStudent(ctx, studentID)
}
