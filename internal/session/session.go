// Package session carries the signed-in identity as an explicit value instead
// of reading persisted storage ad hoc.
package session

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/idilsaglam/itemdesk/internal/model"
)

// Keys written by the sign-in flow.
const (
	KeyUserID   = "userId"
	KeyUserName = "userName"
)

// Env overrides, checked before the store.
const (
	EnvUserID   = "ITEMDESK_USER_ID"
	EnvUserName = "ITEMDESK_USER_NAME"
)

// Store is the persisted key-value store the identity lives in.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Identity is who the user is, as far as the client knows.
type Identity struct {
	ID     model.ID `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Source string   `json:"source" yaml:"source"` // "env" | "store"
}

// Session is the optional identity threaded into the view-model.
// The zero value is an anonymous session.
type Session struct {
	identity *Identity
}

// Anonymous returns a session with no identity.
func Anonymous() Session { return Session{} }

// New returns a session for id. An empty id yields an anonymous session.
func New(id model.ID, name string) Session {
	if id.IsZero() {
		return Session{}
	}
	return Session{identity: &Identity{ID: id, Name: name}}
}

// Authenticated is true iff an identity with a non-empty id is present.
func (s Session) Authenticated() bool {
	return s.identity != nil && !s.identity.ID.IsZero()
}

// Identity returns a copy of the identity, if any.
func (s Session) Identity() (Identity, bool) {
	if !s.Authenticated() {
		return Identity{}, false
	}
	return *s.identity, true
}

// UserID is the session identifier, or "" when anonymous.
func (s Session) UserID() model.ID {
	if !s.Authenticated() {
		return ""
	}
	return s.identity.ID
}

// DisplayName is the user's name, or "" when anonymous.
func (s Session) DisplayName() string {
	if !s.Authenticated() {
		return ""
	}
	return s.identity.Name
}

// Owns reports whether the session may edit or delete it.
func (s Session) Owns(it model.Item) bool {
	return s.Authenticated() && s.identity.ID == it.UserID
}

// Load resolves the session from the environment, then the store.
func Load(ctx context.Context, st Store) (Session, error) {
	if env := model.ParseID(os.Getenv(EnvUserID)); !env.IsZero() {
		return Session{identity: &Identity{
			ID:     env,
			Name:   strings.TrimSpace(os.Getenv(EnvUserName)),
			Source: "env",
		}}, nil
	}
	if st == nil {
		return Session{}, nil
	}

	raw, ok, err := st.Get(ctx, KeyUserID)
	if err != nil {
		return Session{}, fmt.Errorf("read %s: %w", KeyUserID, err)
	}
	id := model.ParseID(raw)
	if !ok || id.IsZero() {
		return Session{}, nil // not signed in
	}
	name, _, err := st.Get(ctx, KeyUserName)
	if err != nil {
		return Session{}, fmt.Errorf("read %s: %w", KeyUserName, err)
	}
	return Session{identity: &Identity{ID: id, Name: name, Source: "store"}}, nil
}

// Save persists an identity so later runs are signed in.
func Save(ctx context.Context, st Store, id model.ID, name string) error {
	if id.IsZero() {
		return fmt.Errorf("empty user id")
	}
	if err := st.Set(ctx, KeyUserID, id.String()); err != nil {
		return fmt.Errorf("save %s: %w", KeyUserID, err)
	}
	if err := st.Set(ctx, KeyUserName, strings.TrimSpace(name)); err != nil {
		return fmt.Errorf("save %s: %w", KeyUserName, err)
	}
	return nil
}

// Clear removes the persisted identity.
func Clear(ctx context.Context, st Store) error {
	for _, k := range []string{KeyUserID, KeyUserName} {
		if err := st.Delete(ctx, k); err != nil {
			return fmt.Errorf("clear %s: %w", k, err)
		}
	}
	return nil
}
