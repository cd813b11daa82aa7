package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Henok-Haile/crm-dashboard/internal/auth"
	authdomain "github.com/Henok-Haile/crm-dashboard/internal/auth/domain"
	"github.com/Henok-Haile/crm-dashboard/internal/auth/session"
	"github.com/Henok-Haile/crm-dashboard/internal/authorization"
	"github.com/Henok-Haile/crm-dashboard/internal/clock"
	"github.com/Henok-Haile/crm-dashboard/internal/config"
	"github.com/Henok-Haile/crm-dashboard/internal/customer"
	customerdomain "github.com/Henok-Haile/crm-dashboard/internal/customer/domain"
	"github.com/Henok-Haile/crm-dashboard/internal/observability"
	obsmiddleware "github.com/Henok-Haile/crm-dashboard/internal/observability/logger"
	obsmetrics "github.com/Henok-Haile/crm-dashboard/internal/observability/metrics"
	obstracing "github.com/Henok-Haile/crm-dashboard/internal/observability/tracing"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	auth.Module,
	customer.Module,
	fx.Provide(NewServer),
	fx.Invoke(run),
)

// NewEngine builds the gin engine with recovery, request logging, tracing,
// metrics and error mapping installed, plus the health and metrics routes.
func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
		Logger:          log,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, log *zap.Logger) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics, log)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, s *Server) {
	log = log.Named("http.server")
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("listen", zap.String("addr", srv.Addr), zap.Error(err))
				}
			}()
			log.Info("listening", zap.String("addr", srv.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	authsvc     authdomain.Service
	sessions    *session.Manager
	authzSvc    authorization.Service
	customerSvc customerdomain.Service
	dashCfg     *config.DashboardConfigHolder
	clock       clock.Clock
	obsMetrics  *obsmetrics.Metrics
	views       views
	csrf        gin.HandlerFunc
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	Authsvc     authdomain.Service
	Sessions    *session.Manager
	AuthzSvc    authorization.Service
	CustomerSvc customerdomain.Service
	DashCfg     *config.DashboardConfigHolder
	Clock       clock.Clock
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) (*Server, error) {
	pages, err := loadViews()
	if err != nil {
		return nil, err
	}
	protect, err := newCSRFMiddleware(p.Cfg)
	if err != nil {
		return nil, err
	}
	dashCfg := p.DashCfg
	if dashCfg == nil {
		dashCfg = config.NewStaticDashboardConfigHolder(config.DefaultDashboardConfig())
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}

	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		authsvc:     p.Authsvc,
		sessions:    p.Sessions,
		authzSvc:    p.AuthzSvc,
		customerSvc: p.CustomerSvc,
		dashCfg:     dashCfg,
		clock:       clk,
		obsMetrics:  p.ObsMetrics,
		views:       pages,
		csrf:        protect,
	}

	svc.registerAPIRoutes()
	svc.registerPageRoutes()

	return svc, nil
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", s.SignUp)
	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.AuthRequired(), s.Me)

	customers := api.Group("/customers", s.AuthRequired())
	customers.GET("", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerView), s.ListCustomers)
	customers.GET("/created-at", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerView), s.ListCustomerCreatedAt)
	customers.POST("", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerCreate), s.CreateCustomer)
	customers.GET("/:id", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerView), s.GetCustomerByID)
	customers.PATCH("/:id", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerUpdate), s.UpdateCustomer)
	customers.DELETE("/:id", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerDelete), s.DeleteCustomer)
}

func (s *Server) registerPageRoutes() {
	pages := s.engine.Group("", s.csrf)

	pages.GET("/", s.LandingPage)
	pages.GET("/login", s.LoginPage)
	pages.POST("/login", s.LoginSubmit)
	pages.GET("/signup", s.SignupPage)
	pages.POST("/signup", s.SignupSubmit)
	pages.POST("/logout", s.LogoutSubmit)

	board := pages.Group("", s.WebAuthRequired())
	board.GET("/dashboard", s.pageAuthorize(authorization.ObjectCustomer, authorization.ActionCustomerView), s.DashboardPage)
	board.GET("/home", s.pageAuthorize(authorization.ObjectCustomer, authorization.ActionCustomerView), s.DashboardPage)
	board.POST("/dashboard/customers", s.pageAuthorize(authorization.ObjectCustomer, authorization.ActionCustomerCreate), s.CreateCustomerSubmit)
	board.GET("/dashboard/customers/:id/edit", s.pageAuthorize(authorization.ObjectCustomer, authorization.ActionCustomerUpdate), s.EditCustomerPage)
	board.POST("/dashboard/customers/:id/edit", s.pageAuthorize(authorization.ObjectCustomer, authorization.ActionCustomerUpdate), s.EditCustomerSubmit)
	board.GET("/dashboard/customers/:id/delete", s.pageAuthorize(authorization.ObjectCustomer, authorization.ActionCustomerDelete), s.DeleteCustomerPage)
	board.POST("/dashboard/customers/:id/delete", s.pageAuthorize(authorization.ObjectCustomer, authorization.ActionCustomerDelete), s.DeleteCustomerSubmit)
}
