package session

import (
	"context"
	"errors"
	"testing"

	"github.com/idilsaglam/itemdesk/internal/model"
)

type mapStore struct {
	m   map[string]string
	err error
}

func (s *mapStore) Get(_ context.Context, k string) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	v, ok := s.m[k]
	return v, ok, nil
}

func (s *mapStore) Set(_ context.Context, k, v string) error {
	if s.m == nil {
		s.m = map[string]string{}
	}
	s.m[k] = v
	return nil
}

func (s *mapStore) Delete(_ context.Context, k string) error {
	delete(s.m, k)
	return nil
}

func TestAuthenticated(t *testing.T) {
	if Anonymous().Authenticated() {
		t.Error("anonymous session must not be authenticated")
	}
	if New("", "Ada").Authenticated() {
		t.Error("empty id must not be authenticated")
	}
	s := New("5", "Ada")
	if !s.Authenticated() || s.UserID() != "5" || s.DisplayName() != "Ada" {
		t.Errorf("unexpected session: %+v", s)
	}
}

func TestOwns(t *testing.T) {
	item := model.Item{ID: "1", UserID: "5"}
	tests := []struct {
		name string
		s    Session
		want bool
	}{
		{name: "owner", s: New("5", ""), want: true},
		{name: "other user", s: New("6", ""), want: false},
		{name: "anonymous", s: Anonymous(), want: false},
		{name: "text differs", s: New("05", ""), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Owns(item); got != tt.want {
				t.Errorf("Owns() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadFromStore(t *testing.T) {
	t.Setenv(EnvUserID, "")
	st := &mapStore{m: map[string]string{KeyUserID: "5", KeyUserName: "Ada"}}
	s, err := Load(context.Background(), st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	id, ok := s.Identity()
	if !ok || id.ID != "5" || id.Name != "Ada" || id.Source != "store" {
		t.Errorf("Identity() = %+v, %v", id, ok)
	}
}

func TestLoadEmptyIDIsAnonymous(t *testing.T) {
	t.Setenv(EnvUserID, "")
	st := &mapStore{m: map[string]string{KeyUserID: "  ", KeyUserName: "Ada"}}
	s, err := Load(context.Background(), st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Authenticated() {
		t.Error("blank stored id must yield an anonymous session")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(EnvUserID, "42")
	t.Setenv(EnvUserName, "Env User")
	st := &mapStore{m: map[string]string{KeyUserID: "5"}}
	s, err := Load(context.Background(), st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	id, _ := s.Identity()
	if id.ID != "42" || id.Source != "env" || id.Name != "Env User" {
		t.Errorf("Identity() = %+v", id)
	}
}

func TestLoadStoreError(t *testing.T) {
	t.Setenv(EnvUserID, "")
	boom := errors.New("boom")
	if _, err := Load(context.Background(), &mapStore{err: boom}); !errors.Is(err, boom) {
		t.Errorf("Load error = %v, want wrapped boom", err)
	}
}

func TestSaveAndClear(t *testing.T) {
	ctx := context.Background()
	st := &mapStore{}
	if err := Save(ctx, st, "", "x"); err == nil {
		t.Error("Save with empty id should fail")
	}
	if err := Save(ctx, st, "7", " Grace "); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if st.m[KeyUserID] != "7" || st.m[KeyUserName] != "Grace" {
		t.Errorf("stored = %v", st.m)
	}
	if err := Clear(ctx, st); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(st.m) != 0 {
		t.Errorf("after Clear store = %v", st.m)
	}
}
