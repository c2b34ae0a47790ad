package students

import (
	"context"
	"fmt"
	"testing"
	"time"
)

type fakeStore struct {
	students map[string]*Student
}

func newFakeStore() *fakeStore {
	return &fakeStore{students: make(map[string]*Student)}
}

func (f *fakeStore) Create(_ context.Context, st *Student) error {
	for _, s := range f.students {
		if s.SchoolID == st.SchoolID && s.AdmissionNo == st.AdmissionNo {
			return ErrConflict("admission_no already exists in this school")
		}
	}
	cp := *st
	cp.CreatedAt = time.Now().UTC()
	f.students[st.StudentID] = &cp
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, studentID string) (*Student, error) {
	st, ok := f.students[studentID]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (f *fakeStore) List(_ context.Context, filter StudentFilter) ([]Student, int64, error) {
	var out []Student
	for _, st := range f.students {
		if st.SchoolID != filter.SchoolID {
			continue
		}
		if filter.ClassID != nil && *filter.ClassID != "" && st.ClassID != *filter.ClassID {
			continue
		}
		out = append(out, *st)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) Update(_ context.Context, st *Student) (int64, error) {
	if _, ok := f.students[st.StudentID]; !ok {
		return 0, nil
	}
	cp := *st
	f.students[st.StudentID] = &cp
	return 1, nil
}

type seqIDGen struct{ n int }

func (g *seqIDGen) New() (string, error) {
	g.n++
	return fmt.Sprintf("01STUDENT%017d", g.n), nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return &Service{store: store, id: &seqIDGen{}}, store
}

func strPtr(s string) *string { return &s }

func TestCreateStudent_AssignsID(t *testing.T) {
	svc, store := newTestService()

	resp, err := svc.CreateStudent(context.Background(), CreateStudentRequest{
		SchoolID: "S1", ClassID: "C1", AdmissionNo: "A-100", Name: "Asha Rao",
		FatherPhone: strPtr("0901234567"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StudentID == "" {
		t.Fatal("student_id must be assigned")
	}
	if _, ok := store.students[resp.StudentID]; !ok {
		t.Fatal("student was not persisted")
	}
}

func TestCreateStudent_DuplicateAdmissionNo(t *testing.T) {
	svc, _ := newTestService()

	req := CreateStudentRequest{SchoolID: "S1", ClassID: "C1", AdmissionNo: "A-100", Name: "Asha Rao"}
	if _, err := svc.CreateStudent(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	_, err := svc.CreateStudent(context.Background(), req)
	api, ok := err.(*APIError)
	if !ok || api.Code != CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestListStudents_RequiresSchoolID(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.ListStudents(context.Background(), StudentFilter{})
	api, ok := err.(*APIError)
	if !ok || api.Code != CodeInvalidArgument {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestListStudents_FiltersByClass(t *testing.T) {
	svc, _ := newTestService()
	for i, class := range []string{"C1", "C1", "C2"} {
		_, err := svc.CreateStudent(context.Background(), CreateStudentRequest{
			SchoolID: "S1", ClassID: class, AdmissionNo: fmt.Sprintf("A-%d", i), Name: "X",
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	classID := "C1"
	resp, err := svc.ListStudents(context.Background(), StudentFilter{SchoolID: "S1", ClassID: &classID})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Students) != 2 {
		t.Fatalf("expected 2 students in C1, got %d", len(resp.Students))
	}
}

func TestUpdateStudent_PartialUpdate(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.CreateStudent(context.Background(), CreateStudentRequest{
		SchoolID: "S1", ClassID: "C1", AdmissionNo: "A-100", Name: "Asha Rao",
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := svc.UpdateStudent(context.Background(), created.StudentID, UpdateStudentRequest{
		MotherPhone: strPtr("0808888888"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Name != "Asha Rao" || resp.ClassID != "C1" {
		t.Fatalf("untouched fields must survive: %+v", resp)
	}
	if resp.MotherPhone == nil || *resp.MotherPhone != "0808888888" {
		t.Fatalf("mother_phone not updated: %+v", resp)
	}
}

func TestUpdateStudent_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.UpdateStudent(context.Background(), "missing", UpdateStudentRequest{})
	api, ok := err.(*APIError)
	if !ok || api.Code != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestGetStudent_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.GetStudent(context.Background(), "missing")
	api, ok := err.(*APIError)
	if !ok || api.Code != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
