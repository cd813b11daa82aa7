package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	authdomain "github.com/Henok-Haile/crm-dashboard/internal/auth/domain"
	"github.com/Henok-Haile/crm-dashboard/internal/dashboard/session"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReply struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      *authdomain.User `json:"user"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*authdomain.User, error) {
	var out envelope[*authdomain.User]
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", nil, credentials{
		Email:    strings.TrimSpace(email),
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// SignIn opens a session, keeps its token and notifies subscribers.
func (c *Client) SignIn(ctx context.Context, email, password string) (*authdomain.User, error) {
	var out envelope[loginReply]
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, credentials{
		Email:    strings.TrimSpace(email),
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}

	c.setToken(out.Data.Token)
	c.emit(session.Event{Type: session.SignedIn, User: out.Data.User})
	return out.Data.User, nil
}

// SignOut revokes the session on the server. The local token is dropped
// even when the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	c.setToken("")
	c.emit(session.Event{Type: session.SignedOut})
	return err
}
