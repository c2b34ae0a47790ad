package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

type fakeStore struct {
	staff map[string]*Staff
}

func newFakeStore() *fakeStore {
	return &fakeStore{staff: make(map[string]*Staff)}
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Staff, error) {
	st, ok := f.staff[id]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (f *fakeStore) Create(_ context.Context, st *Staff) error {
	cp := *st
	f.staff[st.ID] = &cp
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := f.staff[id]; !ok {
		return 0, nil
	}
	delete(f.staff, id)
	return 1, nil
}

func (f *fakeStore) UpdateID(_ context.Context, oldID, newID string) (int64, error) {
	st, ok := f.staff[oldID]
	if !ok {
		return 0, nil
	}
	st.ID = newID
	f.staff[newID] = st
	delete(f.staff, oldID)
	return 1, nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return &Service{store: store}, store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.Register(ctx, "t.tanaka", "s3cret", "Tanaka Taro", "teacher"); err != nil {
		t.Fatal(err)
	}

	tokenStr, err := svc.Login(ctx, "t.tanaka", "s3cret")
	if err != nil {
		t.Fatal(err)
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return JWTSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		t.Fatalf("token must verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != "t.tanaka" || claims["role"] != "teacher" {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.Register(ctx, "t.tanaka", "s3cret", "Tanaka Taro", "teacher"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(ctx, "t.tanaka", "wrong"); err == nil {
		t.Fatal("wrong password must fail")
	}
	if _, err := svc.Login(ctx, "nobody", "s3cret"); err == nil {
		t.Fatal("unknown id must fail")
	}
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	if err := svc.Register(ctx, "t.tanaka", "s3cret", "Tanaka Taro", "teacher"); err != nil {
		t.Fatal(err)
	}
	store.staff["t.tanaka"].IsDisabled = true

	if _, err := svc.Login(ctx, "t.tanaka", "s3cret"); err == nil {
		t.Fatal("disabled account must not log in")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.Register(ctx, "t.tanaka", "s3cret", "Tanaka Taro", "teacher"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Register(ctx, "t.tanaka", "other", "Imposter", "teacher"); err != ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestChangeID(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	if err := svc.Register(ctx, "old", "s3cret", "Tanaka Taro", "teacher"); err != nil {
		t.Fatal(err)
	}
	if err := svc.ChangeID(ctx, "old", "new"); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.staff["new"]; !ok {
		t.Fatal("new id missing")
	}
	if err := svc.ChangeID(ctx, "missing", "x"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
