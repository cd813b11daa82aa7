package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/Henok-Haile/crm-dashboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// browser carries cookies between requests the way a user agent would.
type browser struct {
	t       *testing.T
	app     *testApp
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, app *testApp) *browser {
	return &browser{t: t, app: app, cookies: map[string]*http.Cookie{}}
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.send(req)
}

func (b *browser) send(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	resp := b.app.do(req)
	for _, c := range resp.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = &http.Cookie{Name: c.Name, Value: c.Value}
	}
	return resp
}

// follow requests the redirect target of resp.
func (b *browser) follow(resp *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	b.t.Helper()
	require.Equal(b.t, http.StatusSeeOther, resp.Code, resp.Body.String())
	return b.get(resp.Header().Get("Location"))
}

func credentials(email string) url.Values {
	return url.Values{"email": {email}, "password": {"secret123"}}
}

// signedInBrowser signs up and logs in through the pages.
func signedInBrowser(t *testing.T, app *testApp) *browser {
	t.Helper()
	b := newBrowser(t, app)

	resp := b.post("/signup", credentials("ann@example.com"))
	require.Equal(t, http.StatusSeeOther, resp.Code)
	require.Equal(t, "/login", resp.Header().Get("Location"))

	resp = b.post("/login", credentials("ann@example.com"))
	require.Equal(t, http.StatusSeeOther, resp.Code)
	require.Equal(t, "/dashboard", resp.Header().Get("Location"))
	require.Contains(t, b.cookies, "_sid")
	return b
}

var editLink = regexp.MustCompile(`/dashboard/customers/(\d+)/edit`)

func firstCustomerID(t *testing.T, body string) string {
	t.Helper()
	m := editLink.FindStringSubmatch(body)
	require.Len(t, m, 2, "no customer row rendered")
	return m[1]
}

func TestDashboardRedirectsAnonymousVisitors(t *testing.T) {
	app := newTestApp(t, devConfig())
	b := newBrowser(t, app)

	for _, path := range []string{"/dashboard", "/home", "/dashboard/customers/1/edit"} {
		resp := b.get(path)
		assert.Equal(t, http.StatusSeeOther, resp.Code, path)
		assert.Equal(t, "/login", resp.Header().Get("Location"), path)
	}

	resp := b.get("/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `href="/login"`)
}

func TestSignupAndLoginPages(t *testing.T) {
	app := newTestApp(t, devConfig())
	b := newBrowser(t, app)

	resp := b.follow(b.post("/signup", credentials("ann@example.com")))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Signup successful! You can now log in.")

	resp = b.post("/signup", credentials("ann@example.com"))
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "Signup failed")

	resp = b.post("/login", url.Values{"email": {"ann@example.com"}, "password": {"wrong-pass"}})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Login failed")
	assert.Contains(t, resp.Body.String(), "invalid login credentials")
	assert.Contains(t, resp.Body.String(), `value="ann@example.com"`)

	resp = b.follow(b.post("/login", credentials("ann@example.com")))
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "Logged in!")
	assert.Contains(t, body, "ann@example.com")
	assert.Contains(t, body, "Total Customers")
	assert.Contains(t, body, "No matching customers found.")

	resp = b.get("/login")
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/dashboard", resp.Header().Get("Location"))
}

func TestLoginPageShowsConfirmationBanner(t *testing.T) {
	app := newTestApp(t, devConfig())
	resp := newBrowser(t, app).get("/login?confirmation=true")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Email confirmed! You can now log in.")
}

func TestLogoutEndsTheSession(t *testing.T) {
	app := newTestApp(t, devConfig())
	b := signedInBrowser(t, app)

	resp := b.post("/logout", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/login", resp.Header().Get("Location"))
	assert.NotContains(t, b.cookies, "_sid")

	resp = b.get("/login")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Logged out")

	resp = b.get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.Code)
}

func TestAddCustomerFromDashboard(t *testing.T) {
	app := newTestApp(t, devConfig())
	b := signedInBrowser(t, app)

	resp := b.post("/dashboard/customers", url.Values{
		"name":   {"Bob"},
		"email":  {"bob@x.com"},
		"phone":  {"555-0100"},
		"return": {"sort=latest"},
	})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/dashboard?sort=latest", resp.Header().Get("Location"))

	resp = b.follow(resp)
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "Customer added successfully")
	assert.Contains(t, body, "<td>Bob</td>")
	assert.Contains(t, body, "555-0100")
	assert.Contains(t, body, "Page 1 of 1")
}

func TestDashboardMutationsDoNotRefetchBeforeRedirect(t *testing.T) {
	app := newTestApp(t, devConfig())
	b := signedInBrowser(t, app)
	app.customers.reset()

	resp := b.post("/dashboard/customers", url.Values{"name": {"Bob"}, "email": {"bob@x.com"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Zero(t, app.customers.lists.Load())
	assert.Zero(t, app.customers.stamps.Load())

	resp = b.follow(resp)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, int32(1), app.customers.lists.Load())
	assert.Equal(t, int32(1), app.customers.stamps.Load())

	id := firstCustomerID(t, resp.Body.String())
	app.customers.reset()
	resp = b.post("/dashboard/customers/"+id+"/delete", url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Zero(t, app.customers.lists.Load())
	assert.Zero(t, app.customers.stamps.Load())
}

func TestAddCustomerKeepsFormOnFailure(t *testing.T) {
	app := newTestApp(t, devConfig())
	b := signedInBrowser(t, app)

	resp := b.post("/dashboard/customers", url.Values{"email": {"bob@x.com"}})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "Failed to add customer")
	assert.Contains(t, body, "name is required")
	assert.Contains(t, body, "<details open>")
	assert.Contains(t, body, `value="bob@x.com"`)
}

func TestEditCustomerFromDashboard(t *testing.T) {
	app := newTestApp(t, devConfig())
	b := signedInBrowser(t, app)
	b.follow(b.post("/dashboard/customers", url.Values{"name": {"Bob"}, "email": {"bob@x.com"}}))

	id := firstCustomerID(t, b.get("/dashboard").Body.String())

	resp := b.get("/dashboard/customers/" + id + "/edit")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Edit Customer")
	assert.Contains(t, resp.Body.String(), `value="Bob"`)

	resp = b.post("/dashboard/customers/"+id+"/edit", url.Values{"name": {""}, "email": {"bob@x.com"}})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Failed to update customer")

	resp = b.follow(b.post("/dashboard/customers/"+id+"/edit", url.Values{"name": {"Robert"}, "email": {"bob@x.com"}}))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Customer updated")
	assert.Contains(t, resp.Body.String(), "<td>Robert</td>")
}

func TestEditUnknownCustomerRedirects(t *testing.T) {
	app := newTestApp(t, devConfig())
	b := signedInBrowser(t, app)

	resp := b.follow(b.get("/dashboard/customers/12345/edit"))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Failed to update customer")
}

func TestDeleteCustomerNeedsConfirmation(t *testing.T) {
	app := newTestApp(t, devConfig())
	b := signedInBrowser(t, app)
	b.follow(b.post("/dashboard/customers", url.Values{"name": {"Bob"}, "email": {"bob@x.com"}}))
	id := firstCustomerID(t, b.get("/dashboard").Body.String())

	resp := b.get("/dashboard/customers/" + id + "/delete")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Are you absolutely sure?")

	resp = b.follow(b.post("/dashboard/customers/"+id+"/delete", url.Values{}))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "<td>Bob</td>")

	resp = b.follow(b.post("/dashboard/customers/"+id+"/delete", url.Values{"confirm": {"yes"}}))
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "Customer deleted")
	assert.Contains(t, body, "No matching customers found.")
	assert.NotContains(t, body, "<td>Bob</td>")
}

func TestFormRoutesRequireCSRFToken(t *testing.T) {
	cfg := devConfig()
	cfg.AuthCSRFEnabled = true
	app := newTestApp(t, cfg)
	b := newBrowser(t, app)

	resp := b.post("/login", credentials("ann@example.com"))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = b.get("/signup")
	require.Equal(t, http.StatusOK, resp.Code)
	token := csrfToken(t, resp.Body.String())

	form := credentials("ann@example.com")
	form.Set(csrfFieldName, token)
	resp = b.post("/signup", form)
	assert.Equal(t, http.StatusSeeOther, resp.Code)
}

var csrfInput = regexp.MustCompile(`name="` + csrfFieldName + `" value="([^"]+)"`)

func csrfToken(t *testing.T, body string) string {
	t.Helper()
	m := csrfInput.FindStringSubmatch(body)
	require.Len(t, m, 2, "no csrf field rendered")
	return m[1]
}

func TestCSRFKeyParsing(t *testing.T) {
	raw := strings.Repeat("k", 32)

	key, err := csrfKey(config.Config{AuthCSRFKey: raw})
	require.NoError(t, err)
	assert.Equal(t, []byte(raw), key)

	key, err = csrfKey(config.Config{AuthCSRFKey: strings.Repeat("ab", 32)})
	require.NoError(t, err)
	assert.Len(t, key, 32)

	_, err = csrfKey(config.Config{Environment: "production", AuthCSRFKey: "short"})
	assert.ErrorIs(t, err, errCSRFKeyRequired)

	key, err = csrfKey(config.Config{Environment: "development"})
	require.NoError(t, err)
	assert.Len(t, key, 32)
}

func TestLogoutWithoutSessionReportsFailure(t *testing.T) {
	app := newTestApp(t, devConfig())
	b := newBrowser(t, app)

	resp := b.post("/logout", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/login", resp.Header().Get("Location"))

	resp = b.follow(resp)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Logout failed")
}
