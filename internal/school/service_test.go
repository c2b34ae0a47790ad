package school

import (
	"context"
	"reflect"
	"testing"
	"time"
)

type fakeStore struct {
	schools map[string]*School
}

func newFakeStore() *fakeStore {
	return &fakeStore{schools: make(map[string]*School)}
}

func (f *fakeStore) GetByID(_ context.Context, schoolID string) (*School, error) {
	sc, ok := f.schools[schoolID]
	if !ok {
		return nil, nil
	}
	cp := *sc
	return &cp, nil
}

func (f *fakeStore) Create(_ context.Context, sc *School) error {
	if _, ok := f.schools[sc.SchoolID]; ok {
		return ErrConflict("school_id already exists")
	}
	cp := *sc
	cp.CreatedAt = time.Now().UTC()
	f.schools[sc.SchoolID] = &cp
	return nil
}

func (f *fakeStore) List(_ context.Context, limit, offset int) ([]School, int64, error) {
	var out []School
	for _, sc := range f.schools {
		out = append(out, *sc)
	}
	return out, int64(len(f.schools)), nil
}

func (f *fakeStore) UpdateWorkingDays(_ context.Context, schoolID string, days []string) (int64, error) {
	sc, ok := f.schools[schoolID]
	if !ok {
		return 0, nil
	}
	sc.WorkingDays = days
	return 1, nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return &Service{store: store}, store
}

func TestNormalizeWorkingDays(t *testing.T) {
	got, err := NormalizeWorkingDays([]string{"Friday", " monday", "friday"})
	if err != nil {
		t.Fatal(err)
	}
	// canonical Sunday-first order, deduped
	if !reflect.DeepEqual(got, []string{"monday", "friday"}) {
		t.Fatalf("unexpected normalization: %v", got)
	}

	if _, err := NormalizeWorkingDays(nil); err == nil {
		t.Fatal("empty set must be rejected")
	}
	if _, err := NormalizeWorkingDays([]string{"funday"}); err == nil {
		t.Fatal("unknown weekday must be rejected")
	}
}

func TestCreateSchool_DefaultWorkingDays(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.CreateSchool(context.Background(), CreateSchoolRequest{
		SchoolID: "S1", Name: "Sunrise Public School",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(resp.WorkingDays, DefaultWorkingDays) {
		t.Fatalf("expected Mon-Sat default, got %v", resp.WorkingDays)
	}
}

func TestCreateSchool_DuplicateRejected(t *testing.T) {
	svc, _ := newTestService()

	req := CreateSchoolRequest{SchoolID: "S1", Name: "Sunrise"}
	if _, err := svc.CreateSchool(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	_, err := svc.CreateSchool(context.Background(), req)
	api, ok := err.(*APIError)
	if !ok || api.Code != CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestUpdateWorkingDays(t *testing.T) {
	svc, store := newTestService()
	if _, err := svc.CreateSchool(context.Background(), CreateSchoolRequest{SchoolID: "S1", Name: "Sunrise"}); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.UpdateWorkingDays(context.Background(), "S1", UpdateWorkingDaysRequest{
		WorkingDays: []string{"Monday", "Wednesday", "sunday"},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"sunday", "monday", "wednesday"}
	if !reflect.DeepEqual(resp.WorkingDays, want) {
		t.Fatalf("expected %v, got %v", want, resp.WorkingDays)
	}
	if !reflect.DeepEqual(store.schools["S1"].WorkingDays, want) {
		t.Fatal("store was not updated")
	}
}

func TestUpdateWorkingDays_UnknownSchool(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.UpdateWorkingDays(context.Background(), "nope", UpdateWorkingDaysRequest{
		WorkingDays: []string{"monday"},
	})
	api, ok := err.(*APIError)
	if !ok || api.Code != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestWorkingCalendar(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.CreateSchool(context.Background(), CreateSchoolRequest{
		SchoolID: "S1", Name: "Sunrise", WorkingDays: []string{"monday", "tuesday"},
	}); err != nil {
		t.Fatal(err)
	}

	name, days, err := svc.WorkingCalendar(context.Background(), "S1")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Sunrise" || !reflect.DeepEqual(days, []string{"monday", "tuesday"}) {
		t.Fatalf("unexpected calendar: %s %v", name, days)
	}

	// Unknown schools are not an error: the attendance core falls back to
	// the default calendar.
	name, days, err = svc.WorkingCalendar(context.Background(), "missing")
	if err != nil {
		t.Fatal(err)
	}
	if name != "" || days != nil {
		t.Fatalf("unknown school must yield empty calendar, got %s %v", name, days)
	}
}

func TestGetSchool_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.GetSchool(context.Background(), "missing")
	api, ok := err.(*APIError)
	if !ok || api.Code != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
