package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/secid/mentorship-api/api"
	"github.com/secid/mentorship-api/config"
	"github.com/secid/mentorship-api/matching"
	"github.com/secid/mentorship-api/mentorship"
	"github.com/secid/mentorship-api/models"
)

// maxImageSize is the largest accepted profile image upload
const maxImageSize = 5 << 20

// Profile exported for testing purposes
type Profile struct {
	PS *mentorship.ProfileStore
}

// ActiveMentorsHandler returns the active mentors that can take another mentee
func (p Profile) ActiveMentorsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	mentors, err := p.PS.ActiveMentors(ctx)
	if err != nil {
		engineError("failed to get active mentors", w, err)
		return
	}
	writeJSON(w, http.StatusOK, mentors)
}

// MentorHandler returns a mentor profile by user id
func (p Profile) MentorHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	userID := mux.Vars(r)["user_id"]

	zap.S().Debugf("user_id: %v", userID)

	mentor, err := p.PS.GetMentor(ctx, userID)
	if err != nil {
		engineError("failed to get mentor profile", w, err)
		return
	}
	writeJSON(w, http.StatusOK, mentor)
}

// UpdateMentorHandler creates or replaces the caller's mentor profile
func (p Profile) UpdateMentorHandler(w http.ResponseWriter, r *http.Request) {
	var in models.MentorProfile
	p.saveProfile(w, r, &in, func(userID string) { in.UserID = userID })
}

// MenteeHandler returns a mentee profile by user id
func (p Profile) MenteeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	userID := mux.Vars(r)["user_id"]

	mentee, err := p.PS.GetMentee(ctx, userID)
	if err != nil {
		engineError("failed to get mentee profile", w, err)
		return
	}
	writeJSON(w, http.StatusOK, mentee)
}

// UpdateMenteeHandler creates or replaces the caller's mentee profile
func (p Profile) UpdateMenteeHandler(w http.ResponseWriter, r *http.Request) {
	var in models.MenteeProfile
	p.saveProfile(w, r, &in, func(userID string) { in.UserID = userID })
}

// saveProfile decodes the body into in, binds it to the path user and stores it
func (p Profile) saveProfile(w http.ResponseWriter, r *http.Request, in models.Profile, bind func(userID string)) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	userID := mux.Vars(r)["user_id"]
	id, ok := caller(w, r)
	if !ok {
		return
	}
	if id != userID {
		engineError("cannot edit another user's profile", w, mentorship.ErrForbidden)
		return
	}

	if !decodeBody(w, r, in) {
		return
	}
	bind(userID)

	saved, err := p.PS.Save(ctx, in)
	if err != nil {
		engineError("failed to save "+string(in.Kind())+" profile", w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// UploadProfileImageHandler stores the multipart "image" field as the caller's profile image
func (p Profile) UploadProfileImageHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	id, ok := caller(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		config.ErrorStatus("failed to parse upload", http.StatusBadRequest, w, err)
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		config.ErrorStatus("missing image", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()

	url, err := p.PS.UploadImage(ctx, id, file)
	if err != nil {
		engineError("failed to upload profile image", w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"profileImage": url})
}

// SuggestionsHandler ranks the active mentors for the calling mentee
func (p Profile) SuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	id, ok := caller(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	sortBy, err := matching.ParseSortBy(q.Get("sortBy"))
	if err != nil {
		config.ErrorStatus("invalid sortBy", http.StatusBadRequest, w, err)
		return
	}
	var filters matching.Filters
	if err := decodeQuery(q, &filters); err != nil {
		config.ErrorStatus("invalid filters", http.StatusBadRequest, w, err)
		return
	}

	results, err := p.PS.Suggestions(ctx, id, filters, sortBy)
	if err != nil {
		engineError("failed to get suggestions", w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
