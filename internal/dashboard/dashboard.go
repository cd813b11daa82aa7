// Package dashboard implements the customer listing, summary, record form and
// deletion flow shared by the web pages and the terminal client.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/Henok-Haile/crm-dashboard/internal/clock"
	"github.com/Henok-Haile/crm-dashboard/internal/config"
	"github.com/Henok-Haile/crm-dashboard/internal/dashboard/session"
	"github.com/bwmarrin/snowflake"
)

// Refresher is anything that can refetch its data after a mutation.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshFunc adapts a plain function to Refresher.
type RefreshFunc func(ctx context.Context) error

func (f RefreshFunc) Refresh(ctx context.Context) error { return f(ctx) }

type Options struct {
	PageSize          int
	RecentWindow      time.Duration
	ServerSideFilters bool
	// SkipMutationRefresh leaves the listing and summary alone after a
	// successful save or delete. Set it for request-scoped dashboards that
	// are thrown away before anything reads them again.
	SkipMutationRefresh bool
}

func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultDashboardConfig())
}

func OptionsFromConfig(cfg config.DashboardConfig) Options {
	return Options{
		PageSize:          cfg.PageSize,
		RecentWindow:      time.Duration(cfg.RecentWindowDays) * 24 * time.Hour,
		ServerSideFilters: cfg.ServerSideFilters(),
	}
}

// userChanges is implemented by session.Context.
type userChanges interface {
	OnChange(fn func(session.State)) (remove func())
}

// Dashboard wires the four components over one backend. The form and the
// deletion control refresh both the listing and the summary on success.
// When the user source reports sign-in changes, a new user refetches both
// and a sign-out clears them.
type Dashboard struct {
	Listing  *Listing
	Summary  *Summary
	Form     *RecordForm
	Deletion *Deletion

	mu     sync.Mutex
	userID snowflake.ID
	stop   func()
}

func New(backend Backend, notifier Notifier, users UserSource, clk clock.Clock, opts Options) *Dashboard {
	listing := NewListing(backend, notifier, ListingOptions{
		PageSize:          opts.PageSize,
		ServerSideFilters: opts.ServerSideFilters,
	})
	summary := NewSummary(backend, clk, opts.RecentWindow)

	var refreshers []Refresher
	if !opts.SkipMutationRefresh {
		refreshers = []Refresher{listing, summary}
	}

	d := &Dashboard{
		Listing:  listing,
		Summary:  summary,
		Form:     NewRecordForm(backend, notifier, users, refreshers...),
		Deletion: NewDeletion(backend, notifier, refreshers...),
	}
	if users != nil {
		if u := users.CurrentUser(); u != nil {
			d.userID = u.ID
		}
	}
	if src, ok := users.(userChanges); ok {
		d.stop = src.OnChange(d.userChanged)
	}
	return d
}

// Close stops following user changes.
func (d *Dashboard) Close() {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (d *Dashboard) userChanged(st session.State) {
	if st.Loading {
		return
	}
	var id snowflake.ID
	if st.User != nil {
		id = st.User.ID
	}

	d.mu.Lock()
	changed := id != d.userID
	d.userID = id
	d.mu.Unlock()
	if !changed {
		return
	}

	if id == 0 {
		d.Listing.Reset()
		d.Summary.Reset()
		return
	}
	ctx := context.Background()
	_ = d.Listing.Refresh(ctx)
	_ = d.Summary.Refresh(ctx)
}

// Load fetches the listing for view and recomputes the summary. A summary
// failure is not fatal; it renders as N/A. Display-only changes to an
// already loaded view narrow the current page without a fetch.
func (d *Dashboard) Load(ctx context.Context, view ViewState) (Snapshot, Stats, error) {
	snap, err := d.Listing.Apply(ctx, view)
	_ = d.Summary.Refresh(ctx)
	return snap, d.Summary.Stats(), err
}
