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

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/attendance"
	"github.com/davronbek/proteach/core/catalog"
	"github.com/davronbek/proteach/core/course"
	"github.com/davronbek/proteach/core/deduction"
	"github.com/davronbek/proteach/core/finance"
	"github.com/davronbek/proteach/core/lead"
	"github.com/davronbek/proteach/core/schooldata"
	"github.com/davronbek/proteach/core/stats"
	"github.com/davronbek/proteach/core/student"
	"github.com/davronbek/proteach/core/teacher"
	"github.com/davronbek/proteach/core/user"
)

type (
	// ServerDeps carries every dependency the API needs; nothing is read
	// from package globals.
	ServerDeps struct {
		Conf   *core.Config
		Logger core.Logger

		UserSvc       *user.Service
		StudentSvc    *student.Service
		TeacherSvc    *teacher.Service
		CourseSvc     *course.Service
		FinanceSvc    *finance.Service
		LeadSvc       *lead.Service
		AttendanceSvc *attendance.Service
		CatalogSvc    *catalog.Service
		StatsSvc      *stats.Service
		Hub           *schooldata.Hub
		Engine        *deduction.Engine
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
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
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
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

	v1 := s.app.Group("/v1")
	auth := newJWTAuth(conf)
	jwt := auth.middleware()

	registerUserAPI(v1, jwt, auth, s.deps.UserSvc)
	registerStudentAPI(v1, jwt, s.deps.StudentSvc)
	registerTeacherAPI(v1, jwt, s.deps.TeacherSvc)
	registerCourseAPI(v1, jwt, s.deps.CourseSvc)
	registerFinanceAPI(v1, jwt, s.deps.FinanceSvc)
	registerLeadAPI(v1, jwt, s.deps.LeadSvc)
	registerAttendanceAPI(v1, jwt, s.deps.AttendanceSvc)
	registerCatalogAPI(v1, jwt, s.deps.CatalogSvc)
	registerStatsAPI(v1, jwt, s.deps.StatsSvc)
	registerSchoolDataAPI(v1, jwt, s.deps.Hub)
	registerDeductionAPI(v1, jwt, s.deps.Engine)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errs
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Pro Teach API!")
}
