package tui

import (
	"sync"

	"github.com/idilsaglam/itemdesk/internal/browser"
)

// Router collects navigation requests from the browser; the model drains it
// after each browser call and switches screens.
type Router struct {
	mu      sync.Mutex
	pending []browser.Route
}

func NewRouter() *Router { return &Router{} }

func (r *Router) Navigate(rt browser.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, rt)
}

func (r *Router) drain() []browser.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending
	r.pending = nil
	return out
}
