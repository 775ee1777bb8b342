package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/secid/mentorship-api/api"
	"github.com/secid/mentorship-api/config"
	"github.com/secid/mentorship-api/mentorship"
	"github.com/secid/mentorship-api/models"
)

// Session exported for testing purposes
type Session struct {
	SM *mentorship.SessionManager
	MM *mentorship.MatchManager
}

// SessionStatusBody completes or cancels a session
type SessionStatusBody struct {
	Status models.SessionStatus `json:"status"`
}

// AgendaBody is one agenda item
type AgendaBody struct {
	Item string `json:"item"`
}

// ResourceBody is one resource link
type ResourceBody struct {
	Resource string `json:"resource"`
}

// CreateSessionHandler schedules a session under an active match
func (s Session) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	matchID := mux.Vars(r)["match_id"]
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var in mentorship.SessionInput
	if !decodeBody(w, r, &in) {
		return
	}

	session, err := s.SM.Schedule(ctx, id, matchID, in)
	if err != nil {
		engineError("failed to schedule session", w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// SessionsByMatchHandler lists the sessions of a match for its participants
func (s Session) SessionsByMatchHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	matchID := mux.Vars(r)["match_id"]
	id, ok := caller(w, r)
	if !ok {
		return
	}

	match, err := s.MM.Get(ctx, matchID)
	if err != nil {
		engineError("failed to get match by ID", w, err)
		return
	}
	if !match.HasParticipant(id) {
		engineError("match belongs to other users", w, mentorship.ErrForbidden)
		return
	}

	sessions, err := s.SM.ListByMatch(ctx, matchID)
	if err != nil {
		engineError("failed to list sessions", w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// SessionByIDHandler returns a session to one of its participants
func (s Session) SessionByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	sessionID := mux.Vars(r)["session_id"]
	id, ok := caller(w, r)
	if !ok {
		return
	}

	session, err := s.SM.Get(ctx, sessionID)
	if err != nil {
		engineError("failed to get session by ID", w, err)
		return
	}
	if session.MentorID != id && session.MenteeID != id {
		engineError("session belongs to other users", w, mentorship.ErrForbidden)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// UpdateSessionHandler edits the fields of a scheduled session
func (s Session) UpdateSessionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	sessionID := mux.Vars(r)["session_id"]
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var patch mentorship.SessionPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	session, err := s.SM.Update(ctx, id, sessionID, patch)
	if err != nil {
		engineError("failed to update session", w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// UpdateSessionStatusHandler completes or cancels a scheduled session
func (s Session) UpdateSessionStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	sessionID := mux.Vars(r)["session_id"]
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var body SessionStatusBody
	if !decodeBody(w, r, &body) {
		return
	}

	session, err := s.SM.UpdateStatus(ctx, id, sessionID, body.Status)
	if err != nil {
		engineError("failed to update session status", w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// AddAgendaItemHandler appends an agenda item
func (s Session) AddAgendaItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	var body AgendaBody
	s.editList(w, r, &body, func(userID, sessionID string) (*models.MentorshipSession, error) {
		return s.SM.AddAgendaItem(ctx, userID, sessionID, body.Item)
	})
}

// RemoveAgendaItemHandler removes an agenda item
func (s Session) RemoveAgendaItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	var body AgendaBody
	s.editList(w, r, &body, func(userID, sessionID string) (*models.MentorshipSession, error) {
		return s.SM.RemoveAgendaItem(ctx, userID, sessionID, body.Item)
	})
}

// AddResourceHandler appends a resource
func (s Session) AddResourceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	var body ResourceBody
	s.editList(w, r, &body, func(userID, sessionID string) (*models.MentorshipSession, error) {
		return s.SM.AddResource(ctx, userID, sessionID, body.Resource)
	})
}

// RemoveResourceHandler removes a resource
func (s Session) RemoveResourceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	var body ResourceBody
	s.editList(w, r, &body, func(userID, sessionID string) (*models.MentorshipSession, error) {
		return s.SM.RemoveResource(ctx, userID, sessionID, body.Resource)
	})
}

// AddHomeworkHandler attaches homework to a session
func (s Session) AddHomeworkHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	var hw models.Homework
	s.editList(w, r, &hw, func(userID, sessionID string) (*models.MentorshipSession, error) {
		return s.SM.AddHomework(ctx, userID, sessionID, hw)
	})
}

// RemoveHomeworkHandler removes the homework at {index}
func (s Session) RemoveHomeworkHandler(w http.ResponseWriter, r *http.Request) {
	s.editHomework(w, r, s.SM.RemoveHomework)
}

// CompleteHomeworkHandler marks the homework at {index} completed
func (s Session) CompleteHomeworkHandler(w http.ResponseWriter, r *http.Request) {
	s.editHomework(w, r, s.SM.CompleteHomework)
}

func (s Session) editList(w http.ResponseWriter, r *http.Request, body interface{}, edit func(userID, sessionID string) (*models.MentorshipSession, error)) {
	sessionID := mux.Vars(r)["session_id"]
	id, ok := caller(w, r)
	if !ok {
		return
	}
	if !decodeBody(w, r, body) {
		return
	}

	session, err := edit(id, sessionID)
	if err != nil {
		engineError("failed to edit session", w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type homeworkEdit func(ctx context.Context, userID, id string, index int) (*models.MentorshipSession, error)

func (s Session) editHomework(w http.ResponseWriter, r *http.Request, edit homeworkEdit) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	vars := mux.Vars(r)
	id, ok := caller(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		config.ErrorStatus("invalid homework index", http.StatusBadRequest, w, err)
		return
	}

	session, err := edit(ctx, id, vars["session_id"], index)
	if err != nil {
		engineError("failed to edit homework", w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
