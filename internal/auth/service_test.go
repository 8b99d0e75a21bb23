package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
)

type fakeUserStore struct {
	users  map[int64]*core.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*core.User{}, nextID: 1}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return 0, core.ErrUserExists
		}
	}
	id := f.nextID
	f.nextID++
	f.users[id] = &core.User{ID: id, Username: username, Email: email, PasswordHash: passwordHash}
	return id, nil
}

func (f *fakeUserStore) UserByUsername(ctx context.Context, username string) (*core.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUserStore) UserByID(ctx context.Context, id int64) (*core.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

func newTestService() (*Service, *fakeUserStore) {
	store := newFakeUserStore()
	return NewService(store, NewTokenIssuer("test-secret", time.Hour)), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()

	session, err := svc.Register(context.Background(), "alice", "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.Token == "" || session.User.Username != "alice" {
		t.Fatalf("bad session: %+v", session)
	}

	session, err = svc.Login(context.Background(), "alice", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.User.Email != "alice@example.com" {
		t.Fatalf("bad login session: %+v", session)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	cases := []struct {
		name            string
		username, email string
		password        string
		wantErr         error
	}{
		{"empty username", "  ", "a@b.com", "longenough", core.ErrEmptyUsername},
		{"no at sign", "bob", "bob.example.com", "longenough", core.ErrInvalidEmail},
		{"empty domain", "bob", "bob@", "longenough", core.ErrInvalidEmail},
		{"no tld", "bob", "bob@host", "longenough", core.ErrInvalidEmail},
		{"short password", "bob", "bob@example.com", "short", core.ErrWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.username, tc.email, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "longenough"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), "alice", "other@example.com", "longenough")
	if !errors.Is(err, core.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "longenough"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, unknownErr := svc.Login(context.Background(), "nobody", "whatever")
	_, wrongPassErr := svc.Login(context.Background(), "alice", "wrong password")
	for _, err := range []error{unknownErr, wrongPassErr} {
		if !errors.Is(err, core.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	}
}

func TestPasswordHashIsNotPlaintext(t *testing.T) {
	svc, store := newTestService()
	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "longenough"); err != nil {
		t.Fatalf("register: %v", err)
	}
	u, _ := store.UserByUsername(context.Background(), "alice")
	if u.PasswordHash == "longenough" || u.PasswordHash == "" {
		t.Fatalf("password stored insecurely: %q", u.PasswordHash)
	}
	if err := CheckPassword(u.PasswordHash, "longenough"); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}
