package listing

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/dalemusser/campushub/internal/app/backend"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/sourcegraph/conc"
)

// ErrStale marks a list response that arrived after a newer request was
// issued. Such responses are dropped.
var ErrStale = errors.New("listing: stale response")

// API is the backend surface a Controller needs. *backend.Client satisfies it.
type API interface {
	List(ctx context.Context, k models.Kind, q url.Values) (models.Page, error)
	Create(ctx context.Context, k models.Kind, fields map[string]any) (models.Item, error)
	Update(ctx context.Context, k models.Kind, id string, fields map[string]any) error
	Delete(ctx context.Context, k models.Kind, id string) error
}

// Options configures a Controller. Zero values pick the defaults.
type Options struct {
	Context  context.Context // parent of every fetch; carries the backend cookie
	Limit    int
	Window   time.Duration // search debounce
	Timeout  time.Duration // per fetch
	OnURL    func(query string)
	OnError  func(msg string)
	OnChange func(Snapshot)
}

// Snapshot is a consistent copy of the controller's visible state.
type Snapshot struct {
	Input      string
	State      State
	Items      []models.Item
	Pagination models.Pagination
	Busy       bool
}

// Controller is the live list state of one kind for a long-lived consumer.
// Search input is shown immediately and committed after the debounce
// window; filter and page changes commit at once. Every commit rewrites
// the URL (replace) and fetches the matching page. Only the response to
// the latest fetch is applied.
type Controller struct {
	kind models.Kind
	api  API
	opts Options

	ctx    context.Context
	cancel context.CancelFunc
	deb    *Debouncer[string]
	wg     conc.WaitGroup

	mu         sync.Mutex
	input      string
	state      State
	items      []models.Item
	pagination models.Pagination
	busy       bool
	loaded     bool
	seq        uint64
}

// NewController starts a controller seeded from seed. When initial is
// non-nil it is the server-rendered first page and no fetch is issued;
// otherwise the first page is fetched right away.
func NewController(k models.Kind, api API, seed State, initial *models.Page, opts Options) *Controller {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Window <= 0 {
		opts.Window = DebounceWindow
	}
	if opts.Timeout <= 0 {
		opts.Timeout = timeouts.Medium()
	}
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	c := &Controller{
		kind:   k,
		api:    api,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		input:  seed.Search,
		state:  seed.clone(),
		items:  []models.Item{},
	}
	c.deb = NewDebouncer(opts.Window, c.commitSearch)

	if initial != nil {
		c.items = append(c.items, initial.Items...)
		c.pagination = initial.Pagination.Normalize()
		c.loaded = true
		return c
	}
	c.mu.Lock()
	seq := c.begin()
	st := c.state
	c.mu.Unlock()
	c.fetch(seq, st)
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	items := make([]models.Item, len(c.items))
	copy(items, c.items)
	return Snapshot{
		Input:      c.input,
		State:      c.state.clone(),
		Items:      items,
		Pagination: c.pagination,
		Busy:       c.busy,
	}
}

// TypeSearch updates the visible input now and commits it once typing
// pauses for the debounce window.
func (c *Controller) TypeSearch(q string) {
	c.mu.Lock()
	c.input = q
	c.mu.Unlock()
	c.deb.Trigger(q)
}

// SetFilter commits a filter change, resetting to page 1.
func (c *Controller) SetFilter(name, value string) {
	if !c.kind.AllowsFilter(name) {
		return
	}
	c.commit(func(s State) State { return s.WithFilter(name, value) })
}

// SetPage commits a page change.
func (c *Controller) SetPage(n int) {
	c.commit(func(s State) State { return s.WithPage(n) })
}

// Refresh re-fetches the committed state without touching the URL.
func (c *Controller) Refresh() {
	c.mu.Lock()
	seq := c.begin()
	st := c.state
	c.mu.Unlock()
	c.fetch(seq, st)
}

// Create adds an item and re-fetches the list on success.
func (c *Controller) Create(ctx context.Context, fields map[string]any) (models.Item, error) {
	it, err := c.api.Create(ctx, c.kind, fields)
	if err != nil {
		c.fail(backend.UserMessage(err, "Failed to create "+c.kind.Singular))
		return models.Item{}, err
	}
	c.Refresh()
	return it, nil
}

// Update changes an item and re-fetches the list on success.
func (c *Controller) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := c.api.Update(ctx, c.kind, id, fields); err != nil {
		c.fail(backend.UserMessage(err, "Failed to update "+c.kind.Singular))
		return err
	}
	c.Refresh()
	return nil
}

// Delete removes an item and re-fetches the list on success.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, c.kind, id); err != nil {
		c.fail(backend.UserMessage(err, "Failed to delete "+c.kind.Singular))
		return err
	}
	c.Refresh()
	return nil
}

// Wait blocks until in-flight fetches have finished.
func (c *Controller) Wait() { c.wg.Wait() }

// Close cancels the pending search commit and any in-flight fetch.
func (c *Controller) Close() {
	c.deb.Stop()
	c.cancel()
	c.wg.Wait()
}

func (c *Controller) commitSearch(q string) {
	c.commit(func(s State) State { return s.WithSearch(q) })
}

// commit applies change and fetches. A change that leaves the state as it
// was is a no-op.
func (c *Controller) commit(change func(State) State) {
	c.mu.Lock()
	next := change(c.state)
	if next.Equal(c.state) {
		c.mu.Unlock()
		return
	}
	c.state = next
	st := c.state
	seq := c.begin()
	c.mu.Unlock()

	if c.opts.OnURL != nil {
		c.opts.OnURL(st.Query())
	}
	c.fetch(seq, st)
}

// begin must be called with mu held.
func (c *Controller) begin() uint64 {
	c.seq++
	c.busy = true
	return c.seq
}

func (c *Controller) fetch(seq uint64, st State) {
	q := st.APIQuery(c.opts.Limit)
	c.wg.Go(func() {
		ctx, cancel := context.WithTimeout(c.ctx, c.opts.Timeout)
		defer cancel()
		page, err := c.api.List(ctx, c.kind, q)
		_ = c.apply(seq, page, err)
	})
}

// apply installs the result of fetch seq. It returns ErrStale when a newer
// fetch has been issued since, leaving state untouched.
func (c *Controller) apply(seq uint64, page models.Page, err error) error {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return ErrStale
	}
	c.busy = false
	if err != nil {
		if !c.loaded {
			c.items = []models.Item{}
			c.pagination = models.Pagination{}.Normalize()
		}
		c.mu.Unlock()
		if c.ctx.Err() == nil {
			c.fail(backend.UserMessage(err, "Failed to load "+c.kind.Label))
		}
		return err
	}
	c.items = append([]models.Item{}, page.Items...)
	c.pagination = page.Pagination.Normalize()
	c.loaded = true
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if c.opts.OnChange != nil {
		c.opts.OnChange(snap)
	}
	return nil
}

func (c *Controller) fail(msg string) {
	if c.opts.OnError != nil {
		c.opts.OnError(msg)
	}
}
