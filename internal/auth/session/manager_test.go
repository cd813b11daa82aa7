package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Henok-Haile/crm-dashboard/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestReadTokenPrefersBearer(t *testing.T) {
	m := NewManager(config.Config{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "cookie-token"})
	c, _ := newContext(req)

	token, ok := m.ReadToken(c)
	assert.True(t, ok)
	assert.Equal(t, "header-token", token)
}

func TestReadTokenFallsBackToCookie(t *testing.T) {
	m := NewManager(config.Config{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "cookie-token"})
	c, _ := newContext(req)

	token, ok := m.ReadToken(c)
	assert.True(t, ok)
	assert.Equal(t, "cookie-token", token)

	c, _ = newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	_, ok = m.ReadToken(c)
	assert.False(t, ok)
}

func TestSetAndClearCookie(t *testing.T) {
	m := NewManager(config.Config{AuthCookieSecure: true})
	fixed := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	c, w := newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	m.Set(c, "tok", fixed.Add(time.Hour))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)

	c, w = newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	m.Clear(c)
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}
