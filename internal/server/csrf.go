package server

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/Henok-Haile/crm-dashboard/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const csrfFieldName = "csrf_token"

var errCSRFKeyRequired = errors.New("AUTH_CSRF_KEY must hold 32 bytes in production")

// newCSRFMiddleware adapts gorilla/csrf to gin for the form routes.
func newCSRFMiddleware(cfg config.Config) (gin.HandlerFunc, error) {
	if !cfg.AuthCSRFEnabled {
		return func(c *gin.Context) { c.Next() }, nil
	}

	key, err := csrfKey(cfg)
	if err != nil {
		return nil, err
	}

	protect := csrf.Protect(key,
		csrf.Secure(cfg.AuthCookieSecure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName(csrfFieldName),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid CSRF token", http.StatusForbidden)
		})),
	)
	plaintext := !cfg.AuthCookieSecure

	return func(c *gin.Context) {
		req := c.Request
		if plaintext {
			req = csrf.PlaintextHTTPRequest(req)
		}

		passed := false
		protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, req)

		if !passed {
			c.Abort()
		}
	}, nil
}

func csrfKey(cfg config.Config) ([]byte, error) {
	raw := cfg.AuthCSRFKey
	switch {
	case len(raw) == 32:
		return []byte(raw), nil
	case len(raw) == 64:
		if key, err := hex.DecodeString(raw); err == nil {
			return key, nil
		}
	case raw != "":
		if key, err := base64.StdEncoding.DecodeString(raw); err == nil && len(key) == 32 {
			return key, nil
		}
	}
	if cfg.IsProduction() {
		return nil, errCSRFKeyRequired
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
