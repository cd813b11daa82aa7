// Package session holds the client-side view of who is signed in.
package session

import (
	"context"
	"sync"

	authdomain "github.com/Henok-Haile/crm-dashboard/internal/auth/domain"
	"go.uber.org/zap"
)

type EventType int

const (
	SignedIn EventType = iota + 1
	SignedOut
)

// Event is an auth state change pushed by the client.
type Event struct {
	Type EventType
	User *authdomain.User
}

// AuthClient is the backend side of authentication as the session context
// needs it. CurrentUser returns nil, nil when there is no valid session.
type AuthClient interface {
	CurrentUser(ctx context.Context) (*authdomain.User, error)
	Subscribe(fn func(Event)) (unsubscribe func())
}

type State struct {
	User    *authdomain.User
	Loading bool
}

// Context tracks the signed-in user. It is loading until Init has restored
// any stored session.
type Context struct {
	client AuthClient
	log    *zap.Logger

	mu          sync.Mutex
	state       State
	events      uint64
	done        chan struct{}
	unsubscribe func()
	listeners   map[int]func(State)
	nextID      int
}

func New(client AuthClient, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{
		client:    client,
		log:       log.Named("session.context"),
		state:     State{Loading: true},
		done:      make(chan struct{}),
		listeners: map[int]func(State){},
	}
}

// Init subscribes to auth changes and restores the stored session. An event
// that arrives while the restore is in flight wins over the restore result.
func (c *Context) Init(ctx context.Context) error {
	c.mu.Lock()
	if c.unsubscribe == nil {
		c.unsubscribe = c.client.Subscribe(c.handle)
	}
	seen := c.events
	c.mu.Unlock()

	user, err := c.client.CurrentUser(ctx)
	if err != nil {
		c.log.Warn("restore session failed", zap.Error(err))
		user = nil
	}

	c.mu.Lock()
	if c.events == seen {
		c.state.User = user
	}
	wasLoading := c.state.Loading
	c.state.Loading = false
	state := c.state
	if wasLoading {
		close(c.done)
	}
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
	return err
}

func (c *Context) handle(ev Event) {
	c.mu.Lock()
	c.events++
	switch ev.Type {
	case SignedIn:
		c.state.User = ev.User
	case SignedOut:
		c.state.User = nil
	}
	state := c.state
	listeners := c.snapshotListeners()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

// Close stops listening for auth changes.
func (c *Context) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentUser satisfies dashboard.UserSource.
func (c *Context) CurrentUser() *authdomain.User {
	return c.State().User
}

// Wait blocks until loading clears or ctx is done.
func (c *Context) Wait(ctx context.Context) (State, error) {
	select {
	case <-c.done:
		return c.State(), nil
	case <-ctx.Done():
		return c.State(), ctx.Err()
	}
}

// OnChange registers fn to be called with the new state on every change.
func (c *Context) OnChange(fn func(State)) (remove func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Context) snapshotListeners() []func(State) {
	out := make([]func(State), 0, len(c.listeners))
	for _, fn := range c.listeners {
		out = append(out, fn)
	}
	return out
}
