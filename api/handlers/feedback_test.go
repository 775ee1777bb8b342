package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/secid/mentorship-api/api/handlers"
	"github.com/secid/mentorship-api/databases/mocks"
	"github.com/secid/mentorship-api/mentorship"
	"github.com/secid/mentorship-api/models"
)

func TestFeedback_CreateFeedbackHandler(t *testing.T) {
	f := newFixture()
	match := activeMatch()
	f.matches.On("FindOne", mock.Anything, bson.M{"_id": match.ID}).Return(match, nil)
	f.feedback.On("InsertOne", mock.Anything, mock.AnythingOfType("models.MentorshipFeedback")).
		Return(&mocks.InsertOneResultHelper{}, nil)
	f.feedback.On("Find", mock.Anything, bson.M{"toUserId": "mentor-1"}).
		Return([]models.MentorshipFeedback{{Rating: 4, Type: models.FeedbackTypeSession}}, nil)
	f.mentors.On("UpdateOne", mock.Anything, mock.Anything, mock.MatchedBy(func(u bson.M) bool {
		return u["$set"].(bson.M)["rating"] == 4.0
	})).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	rr := serve(handlers.Feedback{FA: f.engine.Feedback}.CreateFeedbackHandler,
		newRequest(t, "POST", "/api/v1/feedback", "mentee-1", mentorship.FeedbackInput{
			ToUserID: "mentor-1",
			MatchID:  match.ID.Hex(),
			Type:     models.FeedbackTypeSession,
			Rating:   4,
			Comment:  " Clear explanations ",
		}))

	require.Equal(t, http.StatusCreated, rr.Code)
	var got models.MentorshipFeedback
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "mentee-1", got.FromUserID)
	assert.Equal(t, "Clear explanations", got.Comment)
	f.mentors.AssertExpectations(t)
}

func TestFeedback_CreateFeedbackHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   mentorship.FeedbackInput
		status int
	}{
		{"rating too high", mentorship.FeedbackInput{ToUserID: "mentor-1", Type: models.FeedbackTypeOverall, Rating: 7}, http.StatusBadRequest},
		{"rating yourself", mentorship.FeedbackInput{ToUserID: "mentee-1", Type: models.FeedbackTypeOverall, Rating: 5}, http.StatusBadRequest},
		{"unknown type", mentorship.FeedbackInput{ToUserID: "mentor-1", Type: "vibes", Rating: 5}, http.StatusBadRequest},
		{"malformed match", mentorship.FeedbackInput{ToUserID: "mentor-1", MatchID: "1234", Type: models.FeedbackTypeOverall, Rating: 5}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			rr := serve(handlers.Feedback{FA: f.engine.Feedback}.CreateFeedbackHandler,
				newRequest(t, "POST", "/api/v1/feedback", "mentee-1", tt.body))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "failed to submit feedback", errorBody(t, rr).Message)
			f.feedback.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
		})
	}
}

func TestFeedback_FeedbackHandler(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		filter bson.M
	}{
		{"defaults to the caller", "/api/v1/feedback", bson.M{"toUserId": "mentor-1"}},
		{"other user", "/api/v1/feedback?toUserId=mentor-2", bson.M{"toUserId": "mentor-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.feedback.On("Find", mock.Anything, tt.filter, mock.Anything).Return(nil, nil)

			rr := serve(handlers.Feedback{FA: f.engine.Feedback}.FeedbackHandler,
				newRequest(t, "GET", tt.url, "mentor-1", nil))

			require.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, `[]`, rr.Body.String())
			f.feedback.AssertExpectations(t)
		})
	}
}
