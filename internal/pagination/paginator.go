package pagination

import (
	"context"
	"errors"
	"sync"
)

// ErrNoMorePages is returned by LoadMore once the last page was merged
var ErrNoMorePages = errors.New("no more pages")

// PageFunc loads one page for the given state
type PageFunc[T any] func(ctx context.Context, state State) (Page[T], error)

// Paginator accumulates records across "load more" calls
type Paginator[T any] struct {
	mu      sync.Mutex
	fetch   PageFunc[T]
	key     KeyFunc[T]
	state   State
	records []T
	done    bool
}

// NewPaginator creates a paginator starting at the first page
func NewPaginator[T any](pageSize int, fetch PageFunc[T], key KeyFunc[T]) *Paginator[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if key == nil {
		key = DefaultKey[T]
	}
	return &Paginator[T]{
		fetch: fetch,
		key:   key,
		state: State{PageSize: pageSize},
	}
}

// LoadMore fetches the next page and returns the accumulated records
func (p *Paginator[T]) LoadMore(ctx context.Context) ([]T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return p.records, ErrNoMorePages
	}

	state := p.state
	result, err := FetchMoreData(ctx, p.records, state.Offset, func(ctx context.Context, offset string) (Page[T], error) {
		return p.fetch(ctx, State{Offset: offset, PageSize: state.PageSize})
	}, p.key)
	if err != nil {
		return p.records, err
	}

	p.records = result.Records
	p.state.Offset = result.NextOffset
	p.done = !result.HasMore
	return p.records, nil
}

// LoadAll keeps loading until the last page or maxPages fetches (0 = unbounded)
func (p *Paginator[T]) LoadAll(ctx context.Context, maxPages int) ([]T, error) {
	for pages := 0; maxPages <= 0 || pages < maxPages; pages++ {
		records, err := p.LoadMore(ctx)
		if errors.Is(err, ErrNoMorePages) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		if !p.HasMore() {
			return records, nil
		}
	}
	return p.Records(), nil
}

// HasMore reports whether another page can be loaded
func (p *Paginator[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.done
}

// State returns the current cursor
func (p *Paginator[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Records returns the accumulated records
func (p *Paginator[T]) Records() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.records
}

// Reset starts over from the first page
func (p *Paginator[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Offset = ""
	p.records = nil
	p.done = false
}
