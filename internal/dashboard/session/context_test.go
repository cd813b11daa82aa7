package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	authdomain "github.com/Henok-Haile/crm-dashboard/internal/auth/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockAuthClient struct {
	mock.Mock

	mu        sync.Mutex
	listeners []func(Event)
}

func (m *mockAuthClient) CurrentUser(ctx context.Context) (*authdomain.User, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*authdomain.User)
	return user, args.Error(1)
}

func (m *mockAuthClient) Subscribe(fn func(Event)) func() {
	m.Called()
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	idx := len(m.listeners) - 1
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.listeners[idx] = nil
		m.mu.Unlock()
	}
}

func (m *mockAuthClient) emit(ev Event) {
	m.mu.Lock()
	listeners := append([]func(Event){}, m.listeners...)
	m.mu.Unlock()
	for _, fn := range listeners {
		if fn != nil {
			fn(ev)
		}
	}
}

func TestContextRestoresStoredSession(t *testing.T) {
	client := &mockAuthClient{}
	user := &authdomain.User{ID: 1, Email: "ann@x.com"}
	client.On("Subscribe").Return().Once()
	client.On("CurrentUser", mock.Anything).Return(user, nil).Once()

	sc := New(client, zap.NewNop())
	assert.True(t, sc.State().Loading)

	require.NoError(t, sc.Init(context.Background()))

	state, err := sc.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, state.Loading)
	assert.Equal(t, user, state.User)
	assert.Equal(t, user, sc.CurrentUser())
	client.AssertExpectations(t)
}

func TestContextRestoreFailureClearsLoading(t *testing.T) {
	client := &mockAuthClient{}
	client.On("Subscribe").Return()
	client.On("CurrentUser", mock.Anything).Return(nil, errors.New("offline"))

	sc := New(client, nil)
	assert.Error(t, sc.Init(context.Background()))

	state := sc.State()
	assert.False(t, state.Loading)
	assert.Nil(t, state.User)
}

func TestContextWaitHonoursContext(t *testing.T) {
	sc := New(&mockAuthClient{}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	state, err := sc.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, state.Loading)
}

func TestContextFollowsEventsUntilClosed(t *testing.T) {
	client := &mockAuthClient{}
	client.On("Subscribe").Return()
	client.On("CurrentUser", mock.Anything).Return(nil, nil)

	sc := New(client, nil)
	require.NoError(t, sc.Init(context.Background()))

	var seen []State
	remove := sc.OnChange(func(s State) { seen = append(seen, s) })
	defer remove()

	user := &authdomain.User{ID: 2, Email: "bob@x.com"}
	client.emit(Event{Type: SignedIn, User: user})
	assert.Equal(t, user, sc.CurrentUser())

	client.emit(Event{Type: SignedOut})
	assert.Nil(t, sc.CurrentUser())
	require.Len(t, seen, 2)

	sc.Close()
	client.emit(Event{Type: SignedIn, User: user})
	assert.Nil(t, sc.CurrentUser())
	assert.Len(t, seen, 2)
}

func TestContextEventDuringRestoreWins(t *testing.T) {
	client := &mockAuthClient{}
	user := &authdomain.User{ID: 3, Email: "cy@x.com"}
	client.On("Subscribe").Return()
	client.On("CurrentUser", mock.Anything).Run(func(mock.Arguments) {
		client.emit(Event{Type: SignedIn, User: user})
	}).Return(nil, nil)

	sc := New(client, nil)
	require.NoError(t, sc.Init(context.Background()))
	assert.Equal(t, user, sc.CurrentUser())
	assert.False(t, sc.State().Loading)
}
