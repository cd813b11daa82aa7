package server

import (
	"net/http"
	"strings"

	"github.com/Henok-Haile/crm-dashboard/internal/authorization"
	"github.com/gin-gonic/gin"
)

func (s *Server) authorize(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.authorizeWithContext(c, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// pageAuthorize is authorize for HTML routes; a denial renders plain text.
func (s *Server) pageAuthorize(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.authorizeWithContext(c, object, action); err != nil {
			status, _ := mapError(err)
			c.String(status, http.StatusText(status))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) authorizeWithContext(c *gin.Context, object string, action string) error {
	user, ok := userFromContext(c)
	if !ok {
		return ErrUnauthorized
	}
	if s.authzSvc == nil {
		return ErrForbidden
	}
	return s.authzSvc.Authorize(
		c.Request.Context(),
		authorization.UserSubject(user.ID),
		strings.TrimSpace(object),
		strings.TrimSpace(action),
	)
}
