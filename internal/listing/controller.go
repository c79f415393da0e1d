package listing

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// Fetcher loads one page of records for a query.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, q Query) (Page[T], error)
}

// View is a consistent snapshot of a Controller.
type View[T any] struct {
	Data       []T
	IsLoading  bool
	State      State
	Pagination Pagination
	Filters    Filters
}

// Controller drives a paginated list: every mutation re-fetches, and a
// response is only applied if no newer request was issued after it.
type Controller[T any] struct {
	fetcher Fetcher[T]
	logger  zerolog.Logger

	mu         sync.Mutex
	query      Query
	data       []T
	pagination Pagination
	state      State
	latest     uint64
}

func NewController[T any](fetcher Fetcher[T], initial []T, logger zerolog.Logger) *Controller[T] {
	q := DefaultQuery()
	return &Controller[T]{
		fetcher: fetcher,
		logger:  logger,
		query:   q,
		data:    initial,
		pagination: Pagination{
			Page:  q.Page,
			Limit: q.Limit,
		},
		state: Idle,
	}
}

func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	data := make([]T, len(c.data))
	copy(data, c.data)
	return View[T]{
		Data:       data,
		IsLoading:  c.state == Loading,
		State:      c.state,
		Pagination: c.pagination,
		Filters:    cloneFilters(c.query.Filters),
	}
}

func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.query
	q.Filters = cloneFilters(q.Filters)
	return q
}

// ApplyFilters replaces the filter set wholesale and returns to page 1.
func (c *Controller[T]) ApplyFilters(ctx context.Context, filters Filters) {
	c.load(ctx, func(q *Query) {
		q.Filters = cloneFilters(filters)
		q.Page = 1
	})
}

func (c *Controller[T]) ResetFilters(ctx context.Context) {
	c.load(ctx, func(q *Query) {
		q.Filters = Filters{}
		q.Page = 1
	})
}

// ChangePage does not clamp n to the known page range.
func (c *Controller[T]) ChangePage(ctx context.Context, n int) {
	c.load(ctx, func(q *Query) {
		q.Page = n
	})
}

func (c *Controller[T]) ChangePageSize(ctx context.Context, n int) {
	c.load(ctx, func(q *Query) {
		q.Limit = n
		q.Page = 1
	})
}

func (c *Controller[T]) SetSort(ctx context.Context, sortBy, order string) {
	c.load(ctx, func(q *Query) {
		q.SortBy = sortBy
		q.SortOrder = order
		q.Page = 1
	})
}

func (c *Controller[T]) Refresh(ctx context.Context) {
	c.load(ctx, func(*Query) {})
}

func (c *Controller[T]) load(ctx context.Context, mutate func(*Query)) {
	c.mu.Lock()
	mutate(&c.query)
	c.latest++
	token := c.latest
	q := c.query
	q.Filters = cloneFilters(q.Filters)
	c.pagination.Page = q.Page
	c.pagination.Limit = q.Limit
	c.state = Loading
	c.mu.Unlock()

	page, err := c.fetcher.Fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.latest {
		c.logger.Debug().Uint64("token", token).Uint64("latest", c.latest).Msg("discarding stale list response")
		return
	}
	if err != nil {
		c.logger.Error().Err(err).Int("page", q.Page).Msg("list fetch failed")
		c.data = []T{}
		c.state = Error
		return
	}
	c.data = page.Data
	if c.data == nil {
		c.data = []T{}
	}
	c.pagination = Pagination{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      page.Pagination.Total,
		TotalPages: page.Pagination.TotalPages,
	}
	c.state = Success
}

func cloneFilters(f Filters) Filters {
	if f.Extra == nil {
		return f
	}
	extra := make(map[string]string, len(f.Extra))
	for k, v := range f.Extra {
		extra[k] = v
	}
	f.Extra = extra
	return f
}
