package handlers

import (
	"net/http"

	"github.com/secid/mentorship-api/api"
	"github.com/secid/mentorship-api/mentorship"
)

// Feedback exported for testing purposes
type Feedback struct {
	FA *mentorship.FeedbackAggregator
}

// CreateFeedbackHandler records feedback from the caller
func (f Feedback) CreateFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var in mentorship.FeedbackInput
	if !decodeBody(w, r, &in) {
		return
	}

	fb, err := f.FA.Submit(ctx, id, in)
	if err != nil {
		engineError("failed to submit feedback", w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

// FeedbackHandler lists the feedback received by toUserId, the caller by default
func (f Feedback) FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	id, ok := caller(w, r)
	if !ok {
		return
	}
	toUserID := r.URL.Query().Get("toUserId")
	if toUserID == "" {
		toUserID = id
	}

	entries, err := f.FA.List(ctx, toUserID)
	if err != nil {
		engineError("failed to list feedback", w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
