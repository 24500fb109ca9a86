package browser

import "errors"

var (
	// ErrNotOwner refuses edits of items that belong to another user.
	ErrNotOwner = errors.New("item belongs to another user")
	// ErrClosed marks results that arrived after the browser was closed.
	ErrClosed = errors.New("browser closed")
)

// Op identifies the operation an Outcome belongs to.
type Op string

const (
	OpLoadItems      Op = "load items"
	OpLoadCategories Op = "load categories"
	OpDelete         Op = "delete item"
	OpAdd            Op = "add item"
	OpEdit           Op = "edit item"
)

// Status tags an Outcome.
type Status int

const (
	// Done: the operation took effect.
	Done Status = iota
	// Failed: a remote call failed; prior state is intact.
	Failed
	// Discarded: a newer request superseded the result, or the browser was closed.
	Discarded
	// Redirected: a precondition sent the user elsewhere instead.
	Redirected
)

func (s Status) String() string {
	switch s {
	case Done:
		return "done"
	case Failed:
		return "failed"
	case Discarded:
		return "discarded"
	case Redirected:
		return "redirected"
	}
	return "unknown"
}

// Outcome reports what an operation did. Failures are also logged, so
// callers are free to ignore it.
type Outcome struct {
	Op     Op
	Status Status
	Err    error
	Route  Route // navigation performed, if any
}

func (o Outcome) OK() bool { return o.Status == Done }
