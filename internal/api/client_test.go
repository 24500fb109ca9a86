package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/idilsaglam/itemdesk/internal/model"
)

type recorded struct {
	Method string
	Path   string
	UserID string
	ReqID  string
	Body   string
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recorded
	status   map[string]int // "METHOD /path" -> status override
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			UserID: r.Header.Get(HeaderUserID),
			ReqID:  r.Header.Get("X-Request-Id"),
			Body:   string(b),
		})
		code, overridden := f.status[r.Method+" "+r.URL.Path]
		f.mu.Unlock()

		if overridden {
			http.Error(w, "nope", code)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/items":
			_, _ = io.WriteString(w, `[{"id":1,"userId":5,"categoryId":"a","title":"Lamp","description":"Desk lamp","timestamp":"2024-03-01T10:00:00Z"},
				{"id":2,"userId":"6","categoryId":"b","title":"Chair","description":"Oak","timestamp":"2024-03-02T10:00:00Z"}]`)
		case r.Method == http.MethodGet && r.URL.Path == "/items/categories":
			_, _ = io.WriteString(w, `[{"id":"a","name":"Lighting"},{"id":"b","name":"Furniture"}]`)
		case r.Method == http.MethodGet && r.URL.Path == "/items/1":
			_, _ = io.WriteString(w, `{"id":1,"userId":5,"categoryId":"a","title":"Lamp"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/items":
			var in model.ItemInput
			if err := json.Unmarshal(b, &in); err != nil {
				t.Errorf("create body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(model.Item{ID: "9", UserID: model.ID(r.Header.Get(HeaderUserID)), Title: in.Title, CategoryID: in.CategoryID})
		case r.Method == http.MethodPut && r.URL.Path == "/items/1":
			_, _ = io.WriteString(w, `{"id":1,"userId":5,"categoryId":"b","title":"Lamp v2"}`)
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/items/"):
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
}

func (f *fakeAPI) calls() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.requests...)
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	f := &fakeAPI{status: map[string]int{}}
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, f
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "localhost:5000/x", "://"} {
		if _, err := New(u); err == nil {
			t.Errorf("New(%q) should fail", u)
		}
	}
}

func TestListItems(t *testing.T) {
	c, f := newTestClient(t)
	items, err := c.ListItems(context.Background())
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != "1" || items[0].UserID != "5" || items[1].UserID != "6" {
		t.Errorf("unexpected items: %+v", items)
	}
	if f.calls()[0].Method != http.MethodGet || f.calls()[0].Path != "/items" {
		t.Errorf("request = %+v", f.calls()[0])
	}
	if f.calls()[0].UserID != "" {
		t.Error("list must not send user-id")
	}
	if f.calls()[0].ReqID == "" {
		t.Error("X-Request-Id should be set")
	}
}

func TestListCategories(t *testing.T) {
	c, _ := newTestClient(t)
	cats, err := c.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != 2 || cats[1].Name != "Furniture" {
		t.Errorf("unexpected categories: %+v", cats)
	}
}

func TestDeleteItemSendsUserID(t *testing.T) {
	c, f := newTestClient(t)
	if err := c.DeleteItem(context.Background(), "5", "1"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	got := f.calls()[0]
	if got.Method != http.MethodDelete || got.Path != "/items/1" || got.UserID != "5" {
		t.Errorf("request = %+v", got)
	}
}

func TestDeleteItemUnauthenticated(t *testing.T) {
	c, f := newTestClient(t)
	if err := c.DeleteItem(context.Background(), "", "1"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if len(f.calls()) != 0 {
		t.Errorf("no request expected, got %d", len(f.calls()))
	}
}

func TestStatusError(t *testing.T) {
	c, f := newTestClient(t)
	f.mu.Lock()
	f.status["DELETE /items/1"] = http.StatusForbidden
	f.mu.Unlock()
	err := c.DeleteItem(context.Background(), "6", "1")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Status != http.StatusForbidden || se.Op != "delete item" || se.Body != "nope" {
		t.Errorf("StatusError = %+v", se)
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("message = %q", err.Error())
	}
	if IsNotFound(err) {
		t.Error("403 is not a not-found error")
	}
}

func TestGetItemNotFound(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.GetItem(context.Background(), "404")
	if !IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestCreateAndUpdate(t *testing.T) {
	c, f := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateItem(ctx, "5", model.ItemInput{Title: "Rug", CategoryID: "b"})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if created.ID != "9" || created.UserID != "5" || created.Title != "Rug" {
		t.Errorf("created = %+v", created)
	}
	if !strings.Contains(f.calls()[0].Body, `"categoryId":"b"`) {
		t.Errorf("create body = %s", f.calls()[0].Body)
	}

	updated, err := c.UpdateItem(ctx, "5", "1", model.ItemInput{Title: "Lamp v2", CategoryID: "b"})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Title != "Lamp v2" || f.calls()[1].Method != http.MethodPut || f.calls()[1].UserID != "5" {
		t.Errorf("updated = %+v, req = %+v", updated, f.calls()[1])
	}

	if _, err := c.CreateItem(ctx, "", model.ItemInput{}); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("create without user: %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	c, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.ListItems(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
