package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/Henok-Haile/crm-dashboard/internal/dashboard"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	flashCookieName = "_flash"
	flashMaxAge     = 60
)

// setFlash stores notifications to be shown once on the next page.
func (s *Server) setFlash(c *gin.Context, notes ...dashboard.Notification) {
	if len(notes) == 0 {
		return
	}
	raw, err := json.Marshal(notes)
	if err != nil {
		s.log.Warn("encode flash", zap.Error(err))
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, base64.RawURLEncoding.EncodeToString(raw), flashMaxAge, "/", "", s.cfg.AuthCookieSecure, true)
}

// popFlash returns and clears the pending notifications.
func (s *Server) popFlash(c *gin.Context) []dashboard.Notification {
	value, err := c.Cookie(flashCookieName)
	if err != nil || value == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, "", -1, "/", "", s.cfg.AuthCookieSecure, true)

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var notes []dashboard.Notification
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil
	}
	return notes
}
