package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/secid/mentorship-api/api"
	"github.com/secid/mentorship-api/config"
	"github.com/secid/mentorship-api/mentorship"
	"github.com/secid/mentorship-api/models"
)

// Match exported for testing purposes
type Match struct {
	MM *mentorship.MatchManager
}

// MatchStatusBody ends a match
type MatchStatusBody struct {
	Status models.MatchStatus `json:"status"`
}

// MatchByIDHandler returns a match to one of its participants
func (m Match) MatchByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	matchID := mux.Vars(r)["match_id"]
	id, ok := caller(w, r)
	if !ok {
		return
	}

	match, err := m.MM.Get(ctx, matchID)
	if err != nil {
		engineError("failed to get match by ID", w, err)
		return
	}
	if !match.HasParticipant(id) {
		engineError("match belongs to other users", w, mentorship.ErrForbidden)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// MatchesHandler lists the caller's matches, optionally by status
func (m Match) MatchesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var query mentorship.MatchQuery
	if err := decodeQuery(r.URL.Query(), &query); err != nil {
		config.ErrorStatus("invalid query", http.StatusBadRequest, w, err)
		return
	}
	if query.UserID == "" {
		query.UserID = id
	}
	for _, u := range []string{query.UserID, query.MentorID, query.MenteeID} {
		if u != "" && u != id {
			engineError("matches belong to other users", w, mentorship.ErrForbidden)
			return
		}
	}

	matches, err := m.MM.List(ctx, query)
	if err != nil {
		engineError("failed to list matches", w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// UpdateMatchStatusHandler completes or cancels an active match
func (m Match) UpdateMatchStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	matchID := mux.Vars(r)["match_id"]
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var body MatchStatusBody
	if !decodeBody(w, r, &body) {
		return
	}

	match, err := m.MM.UpdateStatus(ctx, id, matchID, body.Status)
	if err != nil {
		engineError("failed to update match status", w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}
