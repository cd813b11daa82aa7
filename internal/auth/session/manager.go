package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/Henok-Haile/crm-dashboard/internal/config"
	"github.com/gin-gonic/gin"
)

const DefaultCookieName = "_sid"

// Manager reads and writes the login session token. Browsers carry it in an
// HttpOnly cookie, API clients in an Authorization bearer header.
type Manager struct {
	cookieName string
	secure     bool
	now        func() time.Time
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{
		cookieName: DefaultCookieName,
		secure:     cfg.AuthCookieSecure,
		now:        time.Now,
	}
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

func (m *Manager) Secure() bool {
	return m.secure
}

// ReadToken prefers a bearer header and falls back to the session cookie.
func (m *Manager) ReadToken(c *gin.Context) (string, bool) {
	if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
		return token, true
	}
	raw, err := c.Cookie(m.cookieName)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(raw)
	return token, token != ""
}

// Set stores the token in the session cookie until expiresAt.
func (m *Manager) Set(c *gin.Context, token string, expiresAt time.Time) {
	m.write(c, token, max(int(expiresAt.Sub(m.now()).Seconds()), 0))
}

func (m *Manager) Clear(c *gin.Context) {
	m.write(c, "", -1)
}

func (m *Manager) write(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, value, maxAge, "/", "", m.secure, true)
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
