package echoportal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/trezcool/projectgl/apps/views"
	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/nav"
	"github.com/trezcool/projectgl/core/session"
	"github.com/trezcool/projectgl/services/api"
	"github.com/trezcool/projectgl/services/toast"
)

type (
	ServerDeps struct {
		Conf    *core.Config
		Logger  core.Logger
		Session *session.Store
		Table   *nav.Table
		Guard   *nav.Guard
		Router  *nav.Router
		API     *apisvc.Services
		Toasts  *toastsvc.Queue
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
		ServerDeps
		app      *echo.Echo
		views    *views.Deps
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		ServerDeps: deps,
		app:        echo.New(),
		views:      &views.Deps{Session: deps.Session, API: deps.API},
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := s.Conf.Debug

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.Conf.Portal.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || s.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.Renderer = newRenderer()
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger, s.Session, s.Toasts)
	s.app.Debug = debug

	s.app.POST(nav.LoginPath, s.login)
	s.app.POST("/logout", s.logout)
	s.app.POST("/notification/:id/toggle", s.toggleNotification, s.guarded("/notification"))
	s.app.POST("/preparation/sprint", s.selectSprint, s.guarded("/preparation/sprint"))
	s.app.GET("/*", s.page)
}

// Start serves until Shutdown or Close. Serving errors are sent on Errors.
func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.Conf.Portal.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
