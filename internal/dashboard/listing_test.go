package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	customerdomain "github.com/Henok-Haile/crm-dashboard/internal/customer/domain"
	"github.com/Henok-Haile/crm-dashboard/internal/dashboard"
	"github.com/Henok-Haile/crm-dashboard/internal/dashboard/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id int64, name string) dashboard.Record {
	return dashboard.Record{
		ID:        snowflakeID(id),
		Name:      name,
		Email:     name + "@x.com",
		CreatedAt: time.Date(2024, 6, int(id), 9, 0, 0, 0, time.UTC),
	}
}

func TestListingLoadFetchesOnePage(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	backend.EXPECT().
		FetchPage(gomock.Any(), dashboard.PageQuery{Offset: 5, Limit: 5, Sort: customerdomain.SortLatest}).
		Return(dashboard.PageResult{Records: []dashboard.Record{rec(1, "ann")}, Count: 6}, nil).
		Times(1)

	l := dashboard.NewListing(backend, nil, dashboard.ListingOptions{PageSize: 5})
	view := dashboard.DefaultViewState(5).WithPage(2).WithSort(customerdomain.SortLatest)

	snap, err := l.Load(context.Background(), view)
	require.NoError(t, err)
	assert.True(t, snap.Loaded)
	assert.Equal(t, int64(6), snap.Count)
	assert.Equal(t, 2, snap.Pager.Page)
	assert.Equal(t, 2, snap.Pager.TotalPages)
	assert.True(t, snap.Pager.HasPrev)
	assert.False(t, snap.Pager.HasNext)
}

func TestListingSearchNarrowsWithoutRefetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	backend.EXPECT().
		FetchPage(gomock.Any(), gomock.Any()).
		Return(dashboard.PageResult{Records: []dashboard.Record{rec(1, "ann"), rec(2, "bob")}, Count: 2}, nil).
		Times(1)

	l := dashboard.NewListing(backend, nil, dashboard.ListingOptions{PageSize: 5})
	_, err := l.Load(context.Background(), dashboard.DefaultViewState(5))
	require.NoError(t, err)

	snap, err := l.Apply(context.Background(), l.View().WithSearch("BO"))
	require.NoError(t, err)
	require.Len(t, snap.Visible, 1)
	assert.Equal(t, "bob", snap.Visible[0].Name)
	assert.Len(t, snap.Rows, 2)
	assert.Equal(t, int64(2), snap.Count)
}

func TestListingServerScopeSendsFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	backend.EXPECT().
		FetchPage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q dashboard.PageQuery) (dashboard.PageResult, error) {
			assert.Equal(t, "ann", q.Search)
			require.NotNil(t, q.From)
			return dashboard.PageResult{Records: []dashboard.Record{rec(1, "ann")}, Count: 1}, nil
		})

	l := dashboard.NewListing(backend, nil, dashboard.ListingOptions{PageSize: 5, ServerSideFilters: true})
	snap, err := l.Apply(context.Background(), dashboard.DefaultViewState(5).WithSearch(" Ann ").WithDates("2024-06-01", ""))
	require.NoError(t, err)
	assert.Len(t, snap.Visible, 1)
}

func TestListingFetchFailureKeepsSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	notes := &dashboard.Collector{}

	gomock.InOrder(
		backend.EXPECT().FetchPage(gomock.Any(), gomock.Any()).
			Return(dashboard.PageResult{Records: []dashboard.Record{rec(1, "ann")}, Count: 1}, nil),
		backend.EXPECT().FetchPage(gomock.Any(), gomock.Any()).
			Return(dashboard.PageResult{}, errors.New("connection refused")),
	)

	l := dashboard.NewListing(backend, notes, dashboard.ListingOptions{PageSize: 5})
	_, err := l.Load(context.Background(), dashboard.DefaultViewState(5))
	require.NoError(t, err)

	snap, err := l.Load(context.Background(), dashboard.DefaultViewState(5).WithSort(customerdomain.SortNameDesc))
	require.Error(t, err)
	assert.Len(t, snap.Rows, 1)
	assert.Equal(t, customerdomain.SortNameAsc, snap.View.Sort)
	assert.Equal(t, customerdomain.SortNameAsc, l.View().Sort)

	got := notes.Drain()
	require.Len(t, got, 1)
	assert.Equal(t, dashboard.LevelError, got[0].Level)
	assert.Equal(t, dashboard.MsgFetchFailed, got[0].Title)
	assert.Equal(t, "connection refused", got[0].Description)
}

func TestListingRetriesPageAfterFailedFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	page := func(n int) dashboard.PageQuery {
		return dashboard.PageQuery{Offset: (n - 1) * 5, Limit: 5, Sort: customerdomain.SortNameAsc}
	}
	gomock.InOrder(
		backend.EXPECT().FetchPage(gomock.Any(), page(1)).
			Return(dashboard.PageResult{Records: []dashboard.Record{rec(1, "ann")}, Count: 7}, nil),
		backend.EXPECT().FetchPage(gomock.Any(), page(2)).
			Return(dashboard.PageResult{}, errors.New("timeout")),
		backend.EXPECT().FetchPage(gomock.Any(), page(2)).
			Return(dashboard.PageResult{Records: []dashboard.Record{rec(6, "fay")}, Count: 7}, nil),
	)

	l := dashboard.NewListing(backend, nil, dashboard.ListingOptions{PageSize: 5})
	ctx := context.Background()

	_, err := l.Apply(ctx, dashboard.DefaultViewState(5))
	require.NoError(t, err)

	snap, err := l.Apply(ctx, dashboard.DefaultViewState(5).WithPage(2))
	require.Error(t, err)
	assert.Equal(t, 1, snap.View.Page)
	assert.Equal(t, snap.View.Page, snap.Pager.Page)
	assert.Equal(t, "ann", snap.Rows[0].Name)

	snap, err = l.Apply(ctx, dashboard.DefaultViewState(5).WithPage(2))
	require.NoError(t, err)
	assert.Equal(t, 2, snap.View.Page)
	assert.Equal(t, 2, snap.Pager.Page)
	assert.Equal(t, "fay", snap.Rows[0].Name)
}

func TestListingDiscardsSupersededFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	release := make(chan struct{})
	started := make(chan struct{})

	backend.EXPECT().
		FetchPage(gomock.Any(), dashboard.PageQuery{Offset: 0, Limit: 5, Sort: customerdomain.SortNameAsc}).
		DoAndReturn(func(context.Context, dashboard.PageQuery) (dashboard.PageResult, error) {
			close(started)
			<-release
			return dashboard.PageResult{Records: []dashboard.Record{rec(1, "stale")}, Count: 1}, nil
		})
	backend.EXPECT().
		FetchPage(gomock.Any(), dashboard.PageQuery{Offset: 0, Limit: 5, Sort: customerdomain.SortLatest}).
		Return(dashboard.PageResult{Records: []dashboard.Record{rec(2, "fresh")}, Count: 1}, nil)

	l := dashboard.NewListing(backend, nil, dashboard.ListingOptions{PageSize: 5})

	slow := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background(), dashboard.DefaultViewState(5))
		slow <- err
	}()
	<-started

	snap, err := l.Load(context.Background(), dashboard.DefaultViewState(5).WithSort(customerdomain.SortLatest))
	require.NoError(t, err)
	assert.Equal(t, "fresh", snap.Rows[0].Name)

	close(release)
	assert.ErrorIs(t, <-slow, dashboard.ErrSuperseded)
	assert.Equal(t, "fresh", l.Snapshot().Rows[0].Name)
	assert.Equal(t, customerdomain.SortLatest, l.View().Sort)
}

func TestListingPagerStopsAtBounds(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	backend.EXPECT().
		FetchPage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q dashboard.PageQuery) (dashboard.PageResult, error) {
			return dashboard.PageResult{Records: []dashboard.Record{rec(int64(q.Offset/5+1), "row")}, Count: 7}, nil
		}).
		Times(2)

	l := dashboard.NewListing(backend, nil, dashboard.ListingOptions{PageSize: 5})
	ctx := context.Background()

	snap, err := l.Apply(ctx, dashboard.DefaultViewState(5))
	require.NoError(t, err)

	snap, err = l.Apply(ctx, snap.View.WithPage(snap.Pager.PrevPage()))
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Pager.Page)

	snap, err = l.Apply(ctx, snap.View.WithPage(snap.Pager.NextPage()))
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Pager.Page)

	snap, err = l.Apply(ctx, snap.View.WithPage(snap.Pager.NextPage()))
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Pager.Page)
	assert.False(t, snap.Pager.HasNext)
}
