package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

// ── Auth ─────────────────────────────────────────────────────────────────────

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds types.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}

	u, err := s.auth.Register(r.Context(), creds)
	if err != nil {
		s.writeServiceError(w, "register", err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds types.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}

	resp, err := s.auth.Login(r.Context(), creds)
	if err != nil {
		s.writeServiceError(w, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req types.PasswordReset
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.auth.ResetPassword(r.Context(), sessionFrom(r.Context()), req); err != nil {
		s.writeServiceError(w, "reset password", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Events ───────────────────────────────────────────────────────────────────

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.List(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		s.writeServiceError(w, "list events", err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.events.Get(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "eventID"))
	if err != nil {
		s.writeServiceError(w, "get event", err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in types.EventInput
	if !decodeJSON(w, r, &in) {
		return
	}

	ev, err := s.events.Create(r.Context(), sessionFrom(r.Context()), in)
	if err != nil {
		s.writeServiceError(w, "create event", err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var in types.EventInput
	if !decodeJSON(w, r, &in) {
		return
	}

	ev, err := s.events.Update(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "eventID"), in)
	if err != nil {
		s.writeServiceError(w, "update event", err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.events.Delete(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "eventID")); err != nil {
		s.writeServiceError(w, "delete event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Members ──────────────────────────────────────────────────────────────────

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	var (
		members []types.Member
		err     error
	)
	sess := sessionFrom(r.Context())
	if q := r.URL.Query().Get("q"); q != "" {
		members, err = s.members.Search(r.Context(), sess, q)
	} else {
		members, err = s.members.List(r.Context(), sess)
	}
	if err != nil {
		s.writeServiceError(w, "list members", err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := s.members.Get(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "memberID"))
	if err != nil {
		s.writeServiceError(w, "get member", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var in types.MemberInput
	if !decodeJSON(w, r, &in) {
		return
	}

	m, err := s.members.Create(r.Context(), sessionFrom(r.Context()), in)
	if err != nil {
		s.writeServiceError(w, "create member", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var in types.MemberInput
	if !decodeJSON(w, r, &in) {
		return
	}

	m, err := s.members.Update(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "memberID"), in)
	if err != nil {
		s.writeServiceError(w, "update member", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := s.members.Delete(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "memberID")); err != nil {
		s.writeServiceError(w, "delete member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
