package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/auth"
	"github.com/shulehq/shule/core/class"
	"github.com/shulehq/shule/core/performance"
	"github.com/shulehq/shule/core/role"
	"github.com/shulehq/shule/core/student"
	"github.com/shulehq/shule/core/tenant"
	"github.com/shulehq/shule/core/user"
)

type (
	ServerDeps struct {
		Conf      *core.Config
		Logger    core.Logger
		Gateway   *auth.GatewayGuard
		TokenSvc  *auth.TokenService
		Evaluator *auth.Evaluator

		TenantSvc  *tenant.Service
		UserSvc    *user.Service
		RoleSvc    *role.Service
		StudentSvc *student.Service
		ClassSvc   *class.Service
		PerfSvc    *performance.Service
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	// everything under /v1 sits behind the deployment gateway
	v1 := s.app.Group("/v1", gatewayMiddleware(s.deps.Gateway))
	authed := authMiddleware(s.deps.TokenSvc)

	registerAuthAPI(v1, authed, &s.deps)
	registerTenantAPI(v1, authed, &s.deps)
	registerUserAPI(v1, authed, &s.deps)
	registerRoleAPI(v1, authed, &s.deps)
	registerStudentAPI(v1, authed, &s.deps)
	registerClassAPI(v1, authed, &s.deps)
	registerPerformanceAPI(v1, authed, &s.deps)
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *server) Errors() <-chan error { return s.errs }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Shule API!")
}
