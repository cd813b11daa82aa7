package server

import (
	"errors"
	"net/http"

	authdomain "github.com/Henok-Haile/crm-dashboard/internal/auth/domain"
	obscontext "github.com/Henok-Haile/crm-dashboard/internal/observability/context"
	"github.com/Henok-Haile/crm-dashboard/internal/ownercontext"
	"github.com/gin-gonic/gin"
)

const (
	contextUserKey    = "auth_user"
	contextSessionKey = "auth_session"
)

// AuthRequired resolves the bearer token or session cookie for JSON routes.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := s.authenticate(c); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// WebAuthRequired sends visitors without a valid session to the login page.
func (s *Server) WebAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := s.authenticate(c); err != nil {
			if !errors.Is(err, ErrUnauthorized) {
				s.sessions.Clear(c)
			}
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// authenticate loads the user behind the request token and scopes the
// request context to that user.
func (s *Server) authenticate(c *gin.Context) (*authdomain.User, error) {
	if user, ok := userFromContext(c); ok {
		return user, nil
	}

	token, ok := s.sessions.ReadToken(c)
	if !ok {
		return nil, ErrUnauthorized
	}

	ctx := c.Request.Context()
	sess, err := s.authsvc.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.authsvc.GetUser(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return nil, authdomain.ErrInvalidSession
		}
		return nil, err
	}

	ctx = ownercontext.WithOwnerID(ctx, user.ID)
	ctx = obscontext.WithUserID(ctx, user.ID.String())
	c.Request = c.Request.WithContext(ctx)
	c.Set(contextUserKey, user)
	c.Set(contextSessionKey, sess)
	return user, nil
}

// optionalUser is authenticate for pages that also serve anonymous visitors.
func (s *Server) optionalUser(c *gin.Context) *authdomain.User {
	user, err := s.authenticate(c)
	if err != nil {
		return nil
	}
	return user
}

func userFromContext(c *gin.Context) (*authdomain.User, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*authdomain.User)
	return user, ok && user != nil
}
