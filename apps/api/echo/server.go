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

	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/access"
	"github.com/trezcool/kosoa/core/annotation"
	"github.com/trezcool/kosoa/core/audit"
	"github.com/trezcool/kosoa/core/class"
	"github.com/trezcool/kosoa/core/correction"
	"github.com/trezcool/kosoa/core/membership"
	"github.com/trezcool/kosoa/core/submission"
	"github.com/trezcool/kosoa/core/task"
	"github.com/trezcool/kosoa/core/taskresource"
	"github.com/trezcool/kosoa/core/user"
)

type (
	ServerDeps struct {
		Conf    *core.Config
		Logger  core.Logger
		MailSvc core.EmailService

		UserSvc         user.Service
		ClassSvc        class.Service
		MembershipSvc   membership.Service
		TaskSvc         task.Service
		TaskResourceSvc taskresource.Service
		SubmissionSvc   submission.Service
		CorrectionSvc   correction.Service
		AnnotationSvc   annotation.Service
		AuditSvc        audit.Service
		Guard           *access.Guard

		DisableReqLogs bool
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
	initAuth(deps.Conf)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)
	guarded := &guardedAPI{
		usrSvc:   s.deps.UserSvc,
		guard:    s.deps.Guard,
		auditSvc: s.deps.AuditSvc,
	}

	registerUserAPI(v1, jwt, guarded, s.deps.UserSvc)
	registerClassAPI(v1, jwt, guarded, s.deps.ClassSvc, s.deps.MembershipSvc, s.deps.TaskSvc, s.deps.UserSvc, s.deps.MailSvc)
	registerTaskAPI(v1, jwt, guarded, s.deps.TaskSvc, s.deps.TaskResourceSvc, s.deps.SubmissionSvc, s.deps.UserSvc)
	registerSubmissionAPI(v1, jwt, guarded, s.deps.SubmissionSvc, s.deps.CorrectionSvc, s.deps.UserSvc)
	registerCorrectionAPI(v1, jwt, guarded, s.deps.CorrectionSvc, s.deps.AnnotationSvc, s.deps.UserSvc)
	registerAnnotationAPI(v1, jwt, guarded, s.deps.AnnotationSvc)
	registerAuditAPI(v1, jwt, guarded, s.deps.AuditSvc)
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *server) Errors() <-chan error            { return s.errs }
func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// signalShutdown is called by the error handler when the app's integrity is
// compromised.
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
	return ctx.String(http.StatusOK, "Welcome to Kosoa API!")
}
