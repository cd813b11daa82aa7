package dashboard

import "sync"

const (
	MsgCustomerAdded        = "Customer added successfully"
	MsgCustomerAddFailed    = "Failed to add customer"
	MsgCustomerUpdated      = "Customer updated"
	MsgCustomerUpdateFailed = "Failed to update customer"
	MsgCustomerDeleted      = "Customer deleted"
	MsgCustomerDeleteFailed = "Failed to delete customer"
	MsgFetchFailed          = "Error fetching customers"
	MsgLoginRequired        = "You must be logged in to add a customer."

	MsgLoggedIn        = "Logged in!"
	MsgLoginFailed     = "Login failed"
	MsgLoggedOut       = "Logged out"
	MsgLogoutFailed    = "Logout failed"
	MsgSignupSucceeded = "Signup successful! You can now log in."
	MsgSignupFailed    = "Signup failed"
	MsgEmailConfirmed  = "Email confirmed! You can now log in."

	ConfirmDeleteTitle       = "Are you absolutely sure?"
	ConfirmDeleteDescription = "This action cannot be undone. This will permanently delete this customer."
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient message shown to the user once.
type Notification struct {
	Level       Level  `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Collector buffers notifications until drained.
type Collector struct {
	mu    sync.Mutex
	items []Notification
}

func (c *Collector) Notify(n Notification) {
	c.mu.Lock()
	c.items = append(c.items, n)
	c.mu.Unlock()
}

// Drain returns and clears the buffered notifications.
func (c *Collector) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.items
	c.items = nil
	return out
}

// Success builds a success notification.
func Success(title string) Notification {
	return Notification{Level: LevelSuccess, Title: title}
}

// Failure builds an error notification carrying err as its description.
func Failure(title string, err error) Notification {
	n := Notification{Level: LevelError, Title: title}
	if err != nil {
		n.Description = err.Error()
	}
	return n
}

func notify(n Notifier, msg Notification) {
	if n != nil {
		n.Notify(msg)
	}
}
