package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	authdomain "github.com/Henok-Haile/crm-dashboard/internal/auth/domain"
	customerdomain "github.com/Henok-Haile/crm-dashboard/internal/customer/domain"
	"github.com/Henok-Haile/crm-dashboard/internal/dashboard"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageLanding   = "landing.html"
	pageLogin     = "login.html"
	pageSignup    = "signup.html"
	pageDashboard = "dashboard.html"
	pageEdit      = "edit.html"
	pageDelete    = "delete.html"
)

const appTitle = "CRM Dashboard"

type views map[string]*template.Template

var viewFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string { return dashboard.FormatDate(t) },
	"isoDate":    func(t time.Time) string { return t.UTC().Format(dashboard.DateOnlyLayout) },
}

func loadViews() (views, error) {
	out := views{}
	for _, page := range []string{pageLanding, pageLogin, pageSignup, pageDashboard, pageEdit, pageDelete} {
		tpl, err := template.New("layout.html").Funcs(viewFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, err
		}
		out[page] = tpl
	}
	return out, nil
}

type sortOption struct {
	Value    customerdomain.Sort
	Label    string
	Selected bool
}

type pageData struct {
	Title         string
	User          *authdomain.User
	Notifications []dashboard.Notification
	CSRFField     template.HTML

	// login and signup
	Email        string
	Confirmation string

	// dashboard
	View        dashboard.ViewState
	Snapshot    dashboard.Snapshot
	Stats       dashboard.Stats
	Sorts       []sortOption
	Form        dashboard.FormState
	ReturnQuery string
	ReturnURL   string
	PrevURL     string
	NextURL     string

	// edit and delete
	Record             dashboard.Record
	ConfirmTitle       string
	ConfirmDescription string
}

func (s *Server) render(c *gin.Context, status int, page string, data pageData) {
	tpl, ok := s.views[page]
	if !ok {
		c.String(http.StatusInternalServerError, "unknown page")
		return
	}
	if data.Title == "" {
		data.Title = appTitle
	}
	data.CSRFField = csrf.TemplateField(c.Request)

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		s.log.Error("render page", zap.String("page", page), zap.Error(err))
		c.String(http.StatusInternalServerError, "render error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func sortOptions(selected customerdomain.Sort) []sortOption {
	options := []sortOption{
		{Value: customerdomain.SortNameAsc, Label: "A–Z"},
		{Value: customerdomain.SortNameDesc, Label: "Z–A"},
		{Value: customerdomain.SortLatest, Label: "Latest"},
	}
	for i := range options {
		options[i].Selected = options[i].Value == selected
	}
	return options
}
