package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/secid/mentorship-api/api"
	"github.com/secid/mentorship-api/config"
	"github.com/secid/mentorship-api/mentorship"
	"github.com/secid/mentorship-api/models"
)

// Request exported for testing purposes
type Request struct {
	RM *mentorship.RequestManager
}

// RespondBody is the mentor's answer to a request
type RespondBody struct {
	Status  models.RequestStatus `json:"status"`
	Message string               `json:"message"`
}

// CreateRequestHandler files a request from the calling mentee
func (q Request) CreateRequestHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var in mentorship.RequestInput
	if !decodeBody(w, r, &in) {
		return
	}

	req, err := q.RM.Create(ctx, id, in)
	if err != nil {
		engineError("failed to create request", w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// RequestByIDHandler returns a request to one of its two parties
func (q Request) RequestByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	requestID := mux.Vars(r)["request_id"]
	id, ok := caller(w, r)
	if !ok {
		return
	}

	req, err := q.RM.Get(ctx, requestID)
	if err != nil {
		engineError("failed to get request by ID", w, err)
		return
	}
	if req.MentorID != id && req.MenteeID != id {
		engineError("request belongs to other users", w, mentorship.ErrForbidden)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// RequestsHandler lists the caller's requests, as mentor (mentorId) or mentee (menteeId)
func (q Request) RequestsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var query mentorship.RequestQuery
	if err := decodeQuery(r.URL.Query(), &query); err != nil {
		config.ErrorStatus("invalid query", http.StatusBadRequest, w, err)
		return
	}
	if query.MentorID == "" && query.MenteeID == "" {
		query.MenteeID = id
	}
	if query.MentorID != id && query.MenteeID != id {
		engineError("requests belong to other users", w, mentorship.ErrForbidden)
		return
	}

	reqs, err := q.RM.List(ctx, query)
	if err != nil {
		engineError("failed to list requests", w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

// RespondRequestHandler accepts or rejects a pending request as its mentor
func (q Request) RespondRequestHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	requestID := mux.Vars(r)["request_id"]
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var body RespondBody
	if !decodeBody(w, r, &body) {
		return
	}

	req, err := q.RM.Respond(ctx, id, requestID, body.Status, body.Message)
	if err != nil {
		engineError("failed to respond to request", w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
