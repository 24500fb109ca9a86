// Package browser holds the item browser state: the loaded items and
// categories, the category filter, the detail selection, and the remote calls
// that change them.
//
// Remote work is split in two halves so a UI loop never blocks: Start*
// methods return a closure that does the network call and can run on any
// goroutine, and Apply* methods fold its result back into state. Each load
// carries a sequence number; a result older than one already applied is
// discarded.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/itemdesk/internal/logging"
	"github.com/idilsaglam/itemdesk/internal/model"
	"github.com/idilsaglam/itemdesk/internal/session"
)

// Remote is the slice of the item API the browser consumes.
type Remote interface {
	ListItems(ctx context.Context) ([]model.Item, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	DeleteItem(ctx context.Context, userID, id model.ID) error
}

// ReloadFilter decides what happens to the category filter when a fresh
// item list arrives.
type ReloadFilter int

const (
	// KeepFilter re-applies the selected category to the new list.
	KeepFilter ReloadFilter = iota
	// ResetFilter drops the selection and shows everything.
	ResetFilter
)

// Options tune a Browser.
type Options struct {
	ReloadFilter ReloadFilter
	Logger       *log.Logger
}

// ItemsResult is the product of a StartLoadItems closure.
type ItemsResult struct {
	Seq   uint64
	Items []model.Item
	Err   error
}

// CategoriesResult is the product of a StartLoadCategories closure.
type CategoriesResult struct {
	Seq        uint64
	Categories []model.Category
	Err        error
}

// DeleteResult is the product of a StartDelete closure: the delete call and
// the reload that always follows it.
type DeleteResult struct {
	ID     model.ID
	Err    error
	Reload ItemsResult
}

// Browser is the item browser view-model. It is safe for concurrent use.
type Browser struct {
	remote Remote
	nav    Navigator
	sess   session.Session
	log    *log.Logger
	opts   Options

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	closed     bool
	items      []model.Item
	visible    []model.Item
	categories []model.Category
	selected   model.ID
	detail     *model.Item

	itemsIssued, itemsApplied uint64
	catsIssued, catsApplied   uint64
}

// New activates a browser. Its requests are bound to ctx and to the
// browser's own lifetime; Close cancels them.
func New(ctx context.Context, remote Remote, nav Navigator, sess session.Session, opts Options) *Browser {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if nav == nil {
		nav = NavigatorFunc(func(Route) {})
	}
	cctx, cancel := context.WithCancel(ctx)
	return &Browser{
		remote:     remote,
		nav:        nav,
		sess:       sess,
		log:        opts.Logger,
		opts:       opts,
		ctx:        cctx,
		cancel:     cancel,
		items:      []model.Item{},
		visible:    []model.Item{},
		categories: []model.Category{},
	}
}

// Close ends the activation. In-flight requests are cancelled and any result
// that still arrives is discarded.
func (b *Browser) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.cancel()
}

// Session returns the identity the browser was activated with.
func (b *Browser) Session() session.Session { return b.sess }

// ---- loading ----

// StartLoadItems issues an item load. Run the returned closure off the UI
// loop and pass its result to ApplyItems.
func (b *Browser) StartLoadItems() func() ItemsResult {
	seq := b.issueItems()
	return func() ItemsResult { return b.fetchItems(seq) }
}

func (b *Browser) issueItems() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.itemsIssued++
	return b.itemsIssued
}

func (b *Browser) fetchItems(seq uint64) ItemsResult {
	items, err := b.remote.ListItems(b.ctx)
	return ItemsResult{Seq: seq, Items: items, Err: err}
}

// ApplyItems folds a load result into state. On failure the previous lists
// stay as they were.
func (b *Browser) ApplyItems(r ItemsResult) Outcome {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.applyItemsLocked(r)
}

func (b *Browser) applyItemsLocked(r ItemsResult) Outcome {
	out := Outcome{Op: OpLoadItems}
	if b.closed {
		b.log.Debug("dropping item list after close", "seq", r.Seq)
		out.Status, out.Err = Discarded, ErrClosed
		return out
	}
	if r.Seq <= b.itemsApplied {
		b.log.Debug("dropping stale item list", "seq", r.Seq, "applied", b.itemsApplied)
		out.Status = Discarded
		return out
	}
	if r.Err != nil {
		b.log.Error("fetch items failed", "err", r.Err)
		out.Status, out.Err = Failed, r.Err
		return out
	}

	b.itemsApplied = r.Seq
	b.items = append([]model.Item{}, r.Items...)
	if b.opts.ReloadFilter == ResetFilter {
		b.selected = ""
	}
	b.visible = model.FilterByCategory(b.items, b.selected)
	if b.detail != nil {
		if it, ok := model.FindItem(b.items, b.detail.ID); ok {
			b.detail = &it
		} else {
			b.detail = nil
		}
	}
	b.log.Debug("items loaded", "count", len(b.items), "visible", len(b.visible))
	return out
}

// LoadItems fetches and applies the item list in one call.
func (b *Browser) LoadItems() Outcome {
	return b.ApplyItems(b.StartLoadItems()())
}

// StartLoadCategories issues a category load.
func (b *Browser) StartLoadCategories() func() CategoriesResult {
	b.mu.Lock()
	b.catsIssued++
	seq := b.catsIssued
	b.mu.Unlock()
	return func() CategoriesResult {
		cats, err := b.remote.ListCategories(b.ctx)
		return CategoriesResult{Seq: seq, Categories: cats, Err: err}
	}
}

// ApplyCategories folds a category result into state.
func (b *Browser) ApplyCategories(r CategoriesResult) Outcome {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := Outcome{Op: OpLoadCategories}
	switch {
	case b.closed:
		out.Status, out.Err = Discarded, ErrClosed
	case r.Seq <= b.catsApplied:
		b.log.Debug("dropping stale category list", "seq", r.Seq, "applied", b.catsApplied)
		out.Status = Discarded
	case r.Err != nil:
		b.log.Error("fetch categories failed", "err", r.Err)
		out.Status, out.Err = Failed, r.Err
	default:
		b.catsApplied = r.Seq
		b.categories = append([]model.Category{}, r.Categories...)
	}
	return out
}

// LoadCategories fetches and applies the category list in one call.
func (b *Browser) LoadCategories() Outcome {
	return b.ApplyCategories(b.StartLoadCategories()())
}

// ---- filtering ----

// SelectCategory toggles the filter. Selecting the current category, or the
// empty id, shows every item; any other id shows exactly the items in it.
func (b *Browser) SelectCategory(id model.ID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id.IsZero() || id == b.selected {
		b.selected = ""
	} else {
		b.selected = id
	}
	b.visible = model.FilterByCategory(b.items, b.selected)
}

// SelectedCategory returns the active filter; ok is false when showing all.
func (b *Browser) SelectedCategory() (id model.ID, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected, !b.selected.IsZero()
}

// Items returns every loaded item.
func (b *Browser) Items() []model.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Item{}, b.items...)
}

// Visible returns the items that pass the current filter.
func (b *Browser) Visible() []model.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Item{}, b.visible...)
}

// Categories returns the loaded categories.
func (b *Browser) Categories() []model.Category {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Category{}, b.categories...)
}

// ---- delete ----

// StartDelete checks that someone is signed in. If not, it navigates to the
// login route and returns nil. Otherwise the returned closure performs the
// delete followed by exactly one item reload, whatever the delete's result.
func (b *Browser) StartDelete(id model.ID) func() DeleteResult {
	if !b.sess.Authenticated() {
		b.log.Debug("delete needs a signed-in user, redirecting", "item", id)
		b.nav.Navigate(LoginRoute())
		return nil
	}
	userID := b.sess.UserID()
	return func() DeleteResult {
		err := b.remote.DeleteItem(b.ctx, userID, id)
		// The reload sequence is taken after the delete so no load issued
		// while it was in flight can overwrite the post-delete list.
		seq := b.issueItems()
		return DeleteResult{ID: id, Err: err, Reload: b.fetchItems(seq)}
	}
}

// ApplyDelete logs the delete result and applies the reload.
func (b *Browser) ApplyDelete(r DeleteResult) Outcome {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.Err != nil && !b.closed {
		b.log.Error("delete item failed", "item", r.ID, "err", r.Err)
	}
	reload := b.applyItemsLocked(r.Reload)

	out := Outcome{Op: OpDelete}
	switch {
	case b.closed:
		out.Status, out.Err = Discarded, ErrClosed
	case r.Err != nil:
		out.Status, out.Err = Failed, r.Err
		if reload.Err != nil {
			out.Err = errors.Join(r.Err, fmt.Errorf("reload: %w", reload.Err))
		}
	case reload.Status == Failed:
		out.Status, out.Err = Failed, fmt.Errorf("reload: %w", reload.Err)
	}
	return out
}

// Delete removes an item and reconciles the list. An anonymous session is
// redirected to login without any remote call.
func (b *Browser) Delete(id model.ID) Outcome {
	run := b.StartDelete(id)
	if run == nil {
		return Outcome{Op: OpDelete, Status: Redirected, Route: LoginRoute()}
	}
	return b.ApplyDelete(run())
}

// ---- detail ----

// OpenDetail selects it for the expanded view, replacing any prior selection.
func (b *Browser) OpenDetail(it model.Item) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.detail = &it
}

// CloseDetail clears the selection.
func (b *Browser) CloseDetail() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.detail = nil
}

// Detail returns the selected item, if any.
func (b *Browser) Detail() (model.Item, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.detail == nil {
		return model.Item{}, false
	}
	return *b.detail, true
}

// ---- ownership and navigation ----

// CanModify reports whether edit and delete controls should be offered for it.
func (b *Browser) CanModify(it model.Item) bool {
	return b.sess.Owns(it)
}

// RequestAdd navigates to the add form, or to login for anonymous users.
func (b *Browser) RequestAdd() Outcome {
	if !b.sess.Authenticated() {
		b.nav.Navigate(LoginRoute())
		return Outcome{Op: OpAdd, Status: Redirected, Route: LoginRoute()}
	}
	b.nav.Navigate(AddItemRoute())
	return Outcome{Op: OpAdd, Status: Done, Route: AddItemRoute()}
}

// RequestEdit navigates to the edit form for it when the session owns it.
func (b *Browser) RequestEdit(it model.Item) Outcome {
	switch {
	case !b.sess.Authenticated():
		b.nav.Navigate(LoginRoute())
		return Outcome{Op: OpEdit, Status: Redirected, Route: LoginRoute()}
	case !b.CanModify(it):
		return Outcome{Op: OpEdit, Status: Failed, Err: ErrNotOwner}
	}
	r := EditItemRoute(it.ID)
	b.nav.Navigate(r)
	return Outcome{Op: OpEdit, Status: Done, Route: r}
}
