package server

import (
	"net/http"
	"net/url"
	"strings"

	authdomain "github.com/Henok-Haile/crm-dashboard/internal/auth/domain"
	"github.com/Henok-Haile/crm-dashboard/internal/dashboard"
	"github.com/gin-gonic/gin"
)

type customerForm struct {
	Name  string `form:"name"`
	Email string `form:"email"`
	Phone string `form:"phone"`
	Notes string `form:"notes"`
}

func (f customerForm) input() dashboard.RecordInput {
	return dashboard.RecordInput{Name: f.Name, Email: f.Email, Phone: f.Phone, Notes: f.Notes}
}

type credentialsForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (s *Server) LandingPage(c *gin.Context) {
	s.render(c, http.StatusOK, pageLanding, pageData{
		User:          s.optionalUser(c),
		Notifications: s.popFlash(c),
	})
}

func (s *Server) LoginPage(c *gin.Context) {
	if s.optionalUser(c) != nil {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	data := pageData{Title: "Log in", Notifications: s.popFlash(c)}
	if c.Query("confirmation") == "true" {
		data.Confirmation = dashboard.MsgEmailConfirmed
	}
	s.render(c, http.StatusOK, pageLogin, data)
}

func (s *Server) LoginSubmit(c *gin.Context) {
	var form credentialsForm
	_ = c.ShouldBind(&form)

	if _, err := s.login(c, form.Email, form.Password); err != nil {
		status, _ := mapError(err)
		s.render(c, status, pageLogin, pageData{
			Title:         "Log in",
			Email:         form.Email,
			Notifications: []dashboard.Notification{failureNote(dashboard.MsgLoginFailed, err)},
		})
		return
	}

	s.setFlash(c, dashboard.Success(dashboard.MsgLoggedIn))
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *Server) SignupPage(c *gin.Context) {
	if s.optionalUser(c) != nil {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	s.render(c, http.StatusOK, pageSignup, pageData{Title: "Sign up", Notifications: s.popFlash(c)})
}

func (s *Server) SignupSubmit(c *gin.Context) {
	var form credentialsForm
	_ = c.ShouldBind(&form)

	if _, err := s.signUp(c, form.Email, form.Password); err != nil {
		status, _ := mapError(err)
		s.render(c, status, pageSignup, pageData{
			Title:         "Sign up",
			Email:         form.Email,
			Notifications: []dashboard.Notification{failureNote(dashboard.MsgSignupFailed, err)},
		})
		return
	}

	s.setFlash(c, dashboard.Success(dashboard.MsgSignupSucceeded))
	c.Redirect(http.StatusSeeOther, "/login")
}

func (s *Server) LogoutSubmit(c *gin.Context) {
	if err := s.logout(c); err != nil {
		s.sessions.Clear(c)
		s.setFlash(c, failureNote(dashboard.MsgLogoutFailed, err))
	} else {
		s.setFlash(c, dashboard.Success(dashboard.MsgLoggedOut))
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func (s *Server) DashboardPage(c *gin.Context) {
	user, _ := userFromContext(c)
	d, notes := s.newDashboard(user)
	view := dashboard.ParseViewState(c.Request.URL.Query(), s.dashboardOptions().PageSize)

	flash := s.popFlash(c)
	data := s.dashboardData(c, d, view)
	data.Notifications = append(flash, notes.Drain()...)
	s.render(c, http.StatusOK, pageDashboard, data)
}

func (s *Server) CreateCustomerSubmit(c *gin.Context) {
	user, _ := userFromContext(c)
	d, notes := s.newDashboard(user)
	view := returnView(c.PostForm("return"), s.dashboardOptions().PageSize)

	var form customerForm
	_ = c.ShouldBind(&form)

	d.Form.OpenCreate()
	d.Form.SetFields(form.input())
	if _, err := d.Form.Submit(c.Request.Context()); err != nil {
		status, _ := mapError(err)
		data := s.dashboardData(c, d, view)
		data.Form = d.Form.State()
		data.Notifications = notes.Drain()
		s.render(c, status, pageDashboard, data)
		return
	}

	s.setFlash(c, notes.Drain()...)
	c.Redirect(http.StatusSeeOther, dashboardURL(view))
}

func (s *Server) EditCustomerPage(c *gin.Context) {
	record, ok := s.loadRecord(c, dashboard.MsgCustomerUpdateFailed)
	if !ok {
		return
	}
	user, _ := userFromContext(c)
	d, _ := s.newDashboard(user)
	view := returnView(c.Query("return"), s.dashboardOptions().PageSize)

	d.Form.OpenEdit(record)
	s.render(c, http.StatusOK, pageEdit, pageData{
		Title:       "Edit Customer",
		User:        user,
		Record:      record,
		Form:        d.Form.State(),
		ReturnQuery: view.Encode(),
		ReturnURL:   dashboardURL(view),
	})
}

func (s *Server) EditCustomerSubmit(c *gin.Context) {
	record, ok := s.loadRecord(c, dashboard.MsgCustomerUpdateFailed)
	if !ok {
		return
	}
	user, _ := userFromContext(c)
	d, notes := s.newDashboard(user)
	view := returnView(c.PostForm("return"), s.dashboardOptions().PageSize)

	var form customerForm
	_ = c.ShouldBind(&form)

	d.Form.OpenEdit(record)
	d.Form.SetFields(form.input())
	if _, err := d.Form.Submit(c.Request.Context()); err != nil {
		status, _ := mapError(err)
		s.render(c, status, pageEdit, pageData{
			Title:         "Edit Customer",
			User:          user,
			Record:        record,
			Form:          d.Form.State(),
			ReturnQuery:   view.Encode(),
			ReturnURL:     dashboardURL(view),
			Notifications: notes.Drain(),
		})
		return
	}

	s.setFlash(c, notes.Drain()...)
	c.Redirect(http.StatusSeeOther, dashboardURL(view))
}

func (s *Server) DeleteCustomerPage(c *gin.Context) {
	record, ok := s.loadRecord(c, dashboard.MsgCustomerDeleteFailed)
	if !ok {
		return
	}
	user, _ := userFromContext(c)
	view := returnView(c.Query("return"), s.dashboardOptions().PageSize)

	s.render(c, http.StatusOK, pageDelete, deleteData(user, record, view, nil))
}

func (s *Server) DeleteCustomerSubmit(c *gin.Context) {
	view := returnView(c.PostForm("return"), s.dashboardOptions().PageSize)
	if c.PostForm("confirm") != "yes" {
		c.Redirect(http.StatusSeeOther, dashboardURL(view))
		return
	}

	record, ok := s.loadRecord(c, dashboard.MsgCustomerDeleteFailed)
	if !ok {
		return
	}
	user, _ := userFromContext(c)
	d, notes := s.newDashboard(user)

	d.Deletion.Request(record)
	if err := d.Deletion.Confirm(c.Request.Context()); err != nil {
		status, _ := mapError(err)
		s.render(c, status, pageDelete, deleteData(user, record, view, notes.Drain()))
		return
	}

	s.setFlash(c, notes.Drain()...)
	c.Redirect(http.StatusSeeOther, dashboardURL(view))
}

func (s *Server) dashboardOptions() dashboard.Options {
	return dashboard.OptionsFromConfig(s.dashCfg.Get())
}

// newDashboard builds the per-request dashboard over the customer service.
// Mutations redirect to a fresh GET, so nothing is refetched after them.
func (s *Server) newDashboard(user *authdomain.User) (*dashboard.Dashboard, *dashboard.Collector) {
	opts := s.dashboardOptions()
	opts.SkipMutationRefresh = true

	notes := &dashboard.Collector{}
	d := dashboard.New(
		dashboard.NewServiceBackend(s.customerSvc),
		notes,
		dashboard.StaticUser{User: user},
		s.clock,
		opts,
	)
	return d, notes
}

func (s *Server) dashboardData(c *gin.Context, d *dashboard.Dashboard, view dashboard.ViewState) pageData {
	user, _ := userFromContext(c)
	snap, stats, _ := d.Load(c.Request.Context(), view)

	return pageData{
		User:        user,
		View:        snap.View,
		Snapshot:    snap,
		Stats:       stats,
		Sorts:       sortOptions(snap.View.Sort),
		Form:        d.Form.State(),
		ReturnQuery: snap.View.Encode(),
		ReturnURL:   dashboardURL(snap.View),
		PrevURL:     dashboardURL(snap.View.WithPage(snap.Pager.PrevPage())),
		NextURL:     dashboardURL(snap.View.WithPage(snap.Pager.NextPage())),
	}
}

// loadRecord fetches the :id record of the signed-in user. When it cannot,
// it redirects to the dashboard with a failure notification.
func (s *Server) loadRecord(c *gin.Context, failTitle string) (dashboard.Record, bool) {
	record, err := s.customerSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		s.setFlash(c, failureNote(failTitle, err))
		c.Redirect(http.StatusSeeOther, "/dashboard")
		c.Abort()
		return dashboard.Record{}, false
	}
	return record, true
}

func deleteData(user *authdomain.User, record dashboard.Record, view dashboard.ViewState, notes []dashboard.Notification) pageData {
	return pageData{
		Title:              "Delete Customer",
		User:               user,
		Record:             record,
		ConfirmTitle:       dashboard.ConfirmDeleteTitle,
		ConfirmDescription: dashboard.ConfirmDeleteDescription,
		ReturnQuery:        view.Encode(),
		ReturnURL:          dashboardURL(view),
		Notifications:      notes,
	}
}

// returnView rebuilds a listing view from an encoded query. Parsing through
// ViewState keeps redirects on the dashboard.
func returnView(raw string, pageSize int) dashboard.ViewState {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return dashboard.DefaultViewState(pageSize)
	}
	return dashboard.ParseViewState(values, pageSize)
}

func dashboardURL(view dashboard.ViewState) string {
	if q := view.Encode(); q != "" {
		return "/dashboard?" + q
	}
	return "/dashboard"
}

func failureNote(title string, err error) dashboard.Notification {
	return dashboard.Notification{Level: dashboard.LevelError, Title: title, Description: userMessage(err)}
}
