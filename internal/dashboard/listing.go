package dashboard

import (
	"context"
	"fmt"
	"sync"
)

type ListingOptions struct {
	PageSize int
	// ServerSideFilters sends search and date bounds to the backend instead
	// of narrowing the fetched page locally.
	ServerSideFilters bool
}

// Snapshot is the result of one fetch plus its display narrowing.
type Snapshot struct {
	View ViewState
	// Rows are the page as fetched; Visible are the rows that pass the filter.
	Rows       []Record
	Visible    []Record
	Count      int64
	Pager      Pager
	Generation uint64
	Loaded     bool
}

// Listing fetches one sorted page at a time and narrows it for display.
// Overlapping fetches are sequenced by generation: only the newest request
// may replace the snapshot.
type Listing struct {
	backend  Backend
	notifier Notifier
	opts     ListingOptions

	mu   sync.Mutex
	gen  uint64
	view ViewState
	snap Snapshot
}

func NewListing(backend Backend, notifier Notifier, opts ListingOptions) *Listing {
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	view := DefaultViewState(opts.PageSize)
	return &Listing{
		backend:  backend,
		notifier: notifier,
		opts:     opts,
		view:     view,
		snap:     emptySnapshot(view),
	}
}

func emptySnapshot(view ViewState) Snapshot {
	return Snapshot{
		View:    view,
		Rows:    []Record{},
		Visible: []Record{},
		Pager:   NewPager(view.Page, view.PageSize, 0),
	}
}

func (l *Listing) View() ViewState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view
}

func (l *Listing) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}

// Apply moves the listing to view, fetching only when the page, sort or a
// server-side filter changed. Pure display changes are narrowed locally.
func (l *Listing) Apply(ctx context.Context, view ViewState) (Snapshot, error) {
	view.PageSize = l.opts.PageSize
	view = view.normalize()

	l.mu.Lock()
	loaded := l.snap.Loaded
	same := l.view.fetchKey(l.opts.ServerSideFilters) == view.fetchKey(l.opts.ServerSideFilters)
	l.mu.Unlock()

	if loaded && same {
		return l.Narrow(view.Filter(), view.FromInput, view.ToInput), nil
	}
	return l.Load(ctx, view)
}

// Load always fetches the page described by view. The view is committed
// only together with a fetched page; after a failure View and Snapshot still
// describe the last good page.
func (l *Listing) Load(ctx context.Context, view ViewState) (Snapshot, error) {
	view.PageSize = l.opts.PageSize
	view = view.normalize()

	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	q := PageQuery{
		Offset: (view.Page - 1) * view.PageSize,
		Limit:  view.PageSize,
		Sort:   view.Sort,
	}
	if l.opts.ServerSideFilters {
		q.Search = view.Filter().Term()
		q.From = view.From
		q.To = view.To
	}

	result, err := l.backend.FetchPage(ctx, q)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		return l.snap, ErrSuperseded
	}
	if err != nil {
		notify(l.notifier, Failure(MsgFetchFailed, err))
		return l.snap, fmt.Errorf("fetch customers: %w", err)
	}

	rows := result.Records
	if rows == nil {
		rows = []Record{}
	}
	visible := rows
	if !l.opts.ServerSideFilters {
		visible = view.Filter().Apply(rows)
	}

	l.view = view
	l.snap = Snapshot{
		View:       view,
		Rows:       rows,
		Visible:    visible,
		Count:      result.Count,
		Pager:      NewPager(view.Page, view.PageSize, result.Count),
		Generation: gen,
		Loaded:     true,
	}
	return l.snap, nil
}

// Narrow re-filters the current page without touching the backend.
func (l *Listing) Narrow(filter Filter, fromInput, toInput string) Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.view.Search = filter.Search
	l.view.From, l.view.FromInput = filter.From, fromInput
	l.view.To, l.view.ToInput = filter.To, toInput

	l.snap.View = l.view
	if l.opts.ServerSideFilters {
		l.snap.Visible = l.snap.Rows
	} else {
		l.snap.Visible = filter.Apply(l.snap.Rows)
	}
	return l.snap
}

// Refresh refetches the current view.
func (l *Listing) Refresh(ctx context.Context) error {
	_, err := l.Load(ctx, l.View())
	return err
}

// Reset forgets the loaded page and cancels any fetch in flight. The view is
// kept so the next Refresh asks for the same page.
func (l *Listing) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.snap = emptySnapshot(l.view)
}
