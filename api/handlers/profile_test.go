package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/secid/mentorship-api/api/handlers"
	"github.com/secid/mentorship-api/models"
)

func TestProfile_MentorHandler(t *testing.T) {
	f := newFixture()
	f.mentors.On("FindOne", mock.Anything, bson.M{"userId": "mentor-1"}).
		Return(&models.MentorProfile{UserID: "mentor-1", DisplayName: "Grace", IsActive: true}, nil)

	req := newRequest(t, "GET", "/api/v1/mentors/mentor-1", "mentee-1", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "mentor-1"})
	rr := serve(handlers.Profile{PS: f.engine.Profiles}.MentorHandler, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got models.MentorProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Grace", got.DisplayName)
}

func TestProfile_MentorHandlerNotFound(t *testing.T) {
	f := newFixture()
	f.mentors.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	req := newRequest(t, "GET", "/api/v1/mentors/nobody", "mentee-1", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "nobody"})
	rr := serve(handlers.Profile{PS: f.engine.Profiles}.MentorHandler, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, models.MessageError{Message: "failed to get mentor profile", Error: `mentor profile "nobody" not found`}, errorBody(t, rr))
}

func TestProfile_MentorHandlerStoreFailure(t *testing.T) {
	f := newFixture()
	f.mentors.On("FindOne", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	req := newRequest(t, "GET", "/api/v1/mentors/mentor-1", "mentee-1", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "mentor-1"})
	rr := serve(handlers.Profile{PS: f.engine.Profiles}.MentorHandler, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestProfile_UpdateMentorHandlerForbidden(t *testing.T) {
	f := newFixture()

	req := newRequest(t, "PUT", "/api/v1/mentors/mentor-1", "mentor-2", models.MentorProfile{DisplayName: "Impostor"})
	req = mux.SetURLVars(req, map[string]string{"user_id": "mentor-1"})
	rr := serve(handlers.Profile{PS: f.engine.Profiles}.UpdateMentorHandler, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	f.mentors.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProfile_UpdateMentorHandlerBadBody(t *testing.T) {
	f := newFixture()

	req := newRequest(t, "PUT", "/api/v1/mentors/mentor-1", "mentor-1", "{not json")
	req = mux.SetURLVars(req, map[string]string{"user_id": "mentor-1"})
	rr := serve(handlers.Profile{PS: f.engine.Profiles}.UpdateMentorHandler, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "failed to decode request", errorBody(t, rr).Message)
}

func TestProfile_UpdateMentorHandlerValidation(t *testing.T) {
	f := newFixture()

	req := newRequest(t, "PUT", "/api/v1/mentors/mentor-1", "mentor-1", models.MentorProfile{DisplayName: "Grace", MaxMentees: -1})
	req = mux.SetURLVars(req, map[string]string{"user_id": "mentor-1"})
	rr := serve(handlers.Profile{PS: f.engine.Profiles}.UpdateMentorHandler, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProfile_UpdateMenteeHandlerRequiresIdentity(t *testing.T) {
	f := newFixture()

	req := newRequest(t, "PUT", "/api/v1/mentees/mentee-1", "", models.MenteeProfile{})
	req = mux.SetURLVars(req, map[string]string{"user_id": "mentee-1"})
	rr := serve(handlers.Profile{PS: f.engine.Profiles}.UpdateMenteeHandler, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProfile_UpdateMenteeHandler(t *testing.T) {
	f := newFixture()
	f.mentees.On("UpdateOne", mock.Anything, bson.M{"userId": "mentee-1"}, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{UpsertedCount: 1}, nil)

	// the body cannot rebind the profile to another user
	req := newRequest(t, "PUT", "/api/v1/mentees/mentee-1", "mentee-1", models.MenteeProfile{UserID: "mentee-2", DisplayName: " Grace "})
	req = mux.SetURLVars(req, map[string]string{"user_id": "mentee-1"})
	rr := serve(handlers.Profile{PS: f.engine.Profiles}.UpdateMenteeHandler, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got models.MenteeProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "mentee-1", got.UserID)
	assert.Equal(t, "Grace", got.DisplayName)
	f.mentees.AssertNumberOfCalls(t, "UpdateOne", 1)
}

func TestProfile_ActiveMentorsHandler(t *testing.T) {
	f := newFixture()
	f.mentors.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]models.MentorProfile{
		{UserID: "mentor-1", IsActive: true, MaxMentees: 2},
		{UserID: "mentor-2", IsActive: true, MaxMentees: 1, CurrentMentees: 1},
	}, nil)

	rr := serve(handlers.Profile{PS: f.engine.Profiles}.ActiveMentorsHandler, newRequest(t, "GET", "/api/v1/mentors", "mentee-1", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got []models.MentorProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "mentor-1", got[0].UserID)
}

func TestProfile_SuggestionsHandler(t *testing.T) {
	f := newFixture()
	f.mentees.On("FindOne", mock.Anything, bson.M{"userId": "mentee-1"}).
		Return(&models.MenteeProfile{UserID: "mentee-1", Interests: []string{"go"}}, nil)
	f.mentors.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]models.MentorProfile{
		{UserID: "mentor-1", IsActive: true, MaxMentees: 2, ExpertiseAreas: []string{"Go"}, Rating: 3.5},
		{UserID: "mentor-2", IsActive: true, MaxMentees: 2, ExpertiseAreas: []string{"Python"}, Rating: 4.8},
		{UserID: "mentor-3", IsActive: true, MaxMentees: 2, ExpertiseAreas: []string{"Go", "Rust"}, Rating: 4.9},
		{UserID: "mentor-4", IsActive: true, MaxMentees: 2, ExpertiseAreas: []string{"Java"}, Rating: 5},
	}, nil)

	req := newRequest(t, "GET", "/api/v1/matches/suggestions?sortBy=rating&expertise=go,python&minRating=4", "mentee-1", nil)
	rr := serve(handlers.Profile{PS: f.engine.Profiles}.SuggestionsHandler, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got []models.MatchResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "mentor-3", got[0].Mentor.UserID)
	assert.Equal(t, "mentor-2", got[1].Mentor.UserID)
}

func TestProfile_SuggestionsHandlerSeniorBracket(t *testing.T) {
	f := newFixture()
	f.mentees.On("FindOne", mock.Anything, bson.M{"userId": "mentee-1"}).
		Return(&models.MenteeProfile{UserID: "mentee-1", Interests: []string{"go"}}, nil)
	f.mentors.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]models.MentorProfile{
		{UserID: "mentor-1", IsActive: true, MaxMentees: 2, Experience: models.Experience{YearsInField: 4}},
		{UserID: "mentor-2", IsActive: true, MaxMentees: 2, Experience: models.Experience{YearsInField: 12}},
	}, nil)

	for _, experience := range []string{"10+", "10%2B", "10-plus"} {
		t.Run(experience, func(t *testing.T) {
			req := newRequest(t, "GET", "/api/v1/matches/suggestions?experience="+experience, "mentee-1", nil)
			rr := serve(handlers.Profile{PS: f.engine.Profiles}.SuggestionsHandler, req)

			require.Equal(t, http.StatusOK, rr.Code)
			var got []models.MatchResult
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			require.Len(t, got, 1)
			assert.Equal(t, "mentor-2", got[0].Mentor.UserID)
		})
	}
}

func TestProfile_SuggestionsHandlerBadQuery(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"unknown sort", "/api/v1/matches/suggestions?sortBy=age"},
		{"rating not a number", "/api/v1/matches/suggestions?minRating=lots"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			rr := serve(handlers.Profile{PS: f.engine.Profiles}.SuggestionsHandler, newRequest(t, "GET", tt.url, "mentee-1", nil))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			f.mentees.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
		})
	}
}

func TestProfile_SuggestionsHandlerWithoutMenteeProfile(t *testing.T) {
	f := newFixture()
	f.mentees.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	rr := serve(handlers.Profile{PS: f.engine.Profiles}.SuggestionsHandler, newRequest(t, "GET", "/api/v1/matches/suggestions", "mentee-1", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// multipartRequest posts fields and, when file is not nil, an "image" part
func multipartRequest(t *testing.T, userID string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("caption", "me"))
	if file != nil {
		part, err := mw.CreateFormFile("image", "me.png")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := newRequest(t, "POST", "/api/v1/profile/image", userID, nil)
	req.Body = io.NopCloser(&body)
	req.ContentLength = int64(body.Len())
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestProfile_UploadProfileImageHandlerMissingFile(t *testing.T) {
	f := newFixture()

	rr := serve(handlers.Profile{PS: f.engine.Profiles}.UploadProfileImageHandler, multipartRequest(t, "mentee-1", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "missing image", errorBody(t, rr).Message)
}

func TestProfile_UploadProfileImageHandlerWithoutBlobStore(t *testing.T) {
	f := newFixture()

	rr := serve(handlers.Profile{PS: f.engine.Profiles}.UploadProfileImageHandler, multipartRequest(t, "mentee-1", []byte("png")))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	f.mentors.AssertNotCalled(t, "CountDocuments", mock.Anything, mock.Anything)
}
