package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Raj051299/cms-mobile-app/internal/cms/service"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

// attendanceView adds the display-only fields the attendance screens show.
type attendanceView struct {
	types.AttendanceRecord
	Hours      float64      `json:"hours"`
	NextAction types.Action `json:"next_action"`
}

func toViews(recs []types.AttendanceRecord) []attendanceView {
	out := make([]attendanceView, len(recs))
	for i, r := range recs {
		out[i] = attendanceView{
			AttendanceRecord: r,
			Hours:            types.Round2(r.Hours()),
			NextAction:       types.NextAction(types.StateOf(&r)),
		}
	}
	return out
}

type clockRequest struct {
	Action types.Action `json:"action"`
	Name   string       `json:"name,omitempty"`
}

func (s *Server) handleEventAttendance(w http.ResponseWriter, r *http.Request) {
	checkedIn := r.URL.Query().Get("checked_in") == "true"
	if err := service.AuthorizeAttendanceView(sessionFrom(r.Context()), checkedIn); err != nil {
		s.writeServiceError(w, "event attendance", err)
		return
	}

	recs, err := s.query.ListEventAttendance(r.Context(), chi.URLParam(r, "eventID"), checkedIn)
	if err != nil {
		s.writeServiceError(w, "event attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, toViews(recs))
}

// handleAttendanceStream serves the live attendance feed as server-sent
// events. Every "snapshot" event carries the full current list.
func (s *Server) handleAttendanceStream(w http.ResponseWriter, r *http.Request) {
	checkedIn := r.URL.Query().Get("checked_in") == "true"
	if err := service.AuthorizeAttendanceView(sessionFrom(r.Context()), checkedIn); err != nil {
		s.writeServiceError(w, "attendance stream", err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", "streaming unsupported")
		return
	}

	sub, err := s.query.Subscribe(r.Context(), chi.URLParam(r, "eventID"), checkedIn)
	if err != nil {
		s.writeServiceError(w, "attendance stream", err)
		return
	}
	defer sub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for snap := range sub.All() {
		data, err := json.Marshal(toViews(snap))
		if err != nil {
			s.logger.Printf("attendance stream marshal: %v", err)
			return
		}
		fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
		flusher.Flush()
	}

	if err := sub.Err(); err != nil {
		fmt.Fprintf(w, "event: error\ndata: %q\n\n", err.Error())
		flusher.Flush()
	}
}

func (s *Server) handleResolveAction(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	memberID := chi.URLParam(r, "memberID")

	action, err := s.clock.ResolveAction(r.Context(), sessionFrom(r.Context()), eventID, memberID)
	if err != nil {
		s.writeServiceError(w, "resolve action", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"event_id":  eventID,
		"member_id": memberID,
		"action":    action,
	})
}

func (s *Server) handleApplyAction(w http.ResponseWriter, r *http.Request) {
	var req clockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	eventID := chi.URLParam(r, "eventID")
	memberID := chi.URLParam(r, "memberID")
	sess := sessionFrom(r.Context())

	if err := s.clock.ApplyAction(r.Context(), sess, eventID, memberID, req.Name, req.Action); err != nil {
		s.writeServiceError(w, "apply action", err)
		return
	}

	// Report the state the write left behind so the client can redraw.
	next, err := s.clock.ResolveAction(r.Context(), sess, eventID, memberID)
	if err != nil {
		s.writeServiceError(w, "apply action", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"event_id":    eventID,
		"member_id":   memberID,
		"applied":     req.Action,
		"next_action": next,
	})
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	err := s.clock.Invite(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "eventID"), chi.URLParam(r, "memberID"))
	if err != nil {
		s.writeServiceError(w, "invite", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMemberAttendance lists one member's attendance across every event.
func (s *Server) handleMemberAttendance(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	memberID := chi.URLParam(r, "memberID")

	if _, err := s.members.Get(r.Context(), sess, memberID); err != nil {
		s.writeServiceError(w, "member attendance", err)
		return
	}
	events, err := s.events.List(r.Context(), sess)
	if err != nil {
		s.writeServiceError(w, "member attendance", err)
		return
	}
	ids := make([]string, len(events))
	for i, ev := range events {
		ids[i] = ev.ID
	}

	att, err := s.query.ListMemberAttendance(r.Context(), memberID, ids)
	if err != nil {
		s.writeServiceError(w, "member attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, att)
}
