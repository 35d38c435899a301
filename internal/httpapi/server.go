package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Raj051299/cms-mobile-app/internal/cms/service"
)

type Dependencies struct {
	Logger  *log.Logger
	Addr    string
	Auth    *service.AuthService
	Members *service.MemberDirectory
	Events  *service.EventCatalog
	Clock   *service.ClockEngine
	Query   *service.AttendanceQuery
	Reports *service.ReportService
}

type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	router     chi.Router
	auth       *service.AuthService
	members    *service.MemberDirectory
	events     *service.EventCatalog
	clock      *service.ClockEngine
	query      *service.AttendanceQuery
	reports    *service.ReportService
}

func NewServer(d Dependencies) *Server {
	r := chi.NewRouter()

	s := &Server{
		logger:  d.Logger,
		router:  r,
		auth:    d.Auth,
		members: d.Members,
		events:  d.Events,
		clock:   d.Clock,
		query:   d.Query,
		reports: d.Reports,
	}

	r.Use(middleware.Recoverer)
	r.Use(s.authenticate)

	r.Get("/healthz", s.handleHealth)

	r.Post("/v1/auth/register", s.handleRegister)
	r.Post("/v1/auth/login", s.handleLogin)
	r.Post("/v1/auth/password", s.handleResetPassword)

	r.Get("/v1/events", s.handleListEvents)
	r.Post("/v1/events", s.handleCreateEvent)
	r.Get("/v1/events/{eventID}", s.handleGetEvent)
	r.Put("/v1/events/{eventID}", s.handleUpdateEvent)
	r.Delete("/v1/events/{eventID}", s.handleDeleteEvent)

	r.Get("/v1/events/{eventID}/attendance", s.handleEventAttendance)
	r.Get("/v1/events/{eventID}/attendance/stream", s.handleAttendanceStream)
	r.Get("/v1/events/{eventID}/attendance/{memberID}/action", s.handleResolveAction)
	r.Post("/v1/events/{eventID}/attendance/{memberID}/clock", s.handleApplyAction)
	r.Post("/v1/events/{eventID}/attendance/{memberID}/invite", s.handleInvite)

	r.Get("/v1/members", s.handleListMembers)
	r.Post("/v1/members", s.handleCreateMember)
	r.Get("/v1/members/{memberID}", s.handleGetMember)
	r.Put("/v1/members/{memberID}", s.handleUpdateMember)
	r.Delete("/v1/members/{memberID}", s.handleDeleteMember)
	r.Get("/v1/members/{memberID}/attendance", s.handleMemberAttendance)

	r.Post("/v1/reports", s.handleGenerateReport)

	handler := loggingMiddleware(d.Logger, r)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"server_time": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
