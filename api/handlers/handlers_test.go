package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/secid/mentorship-api/api"
	"github.com/secid/mentorship-api/databases/mocks"
	"github.com/secid/mentorship-api/mentorship"
	"github.com/secid/mentorship-api/models"
)

var fixedNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	mentors  *mocks.MentorProfileDatabase
	mentees  *mocks.MenteeProfileDatabase
	requests *mocks.RequestDatabase
	matches  *mocks.MatchDatabase
	sessions *mocks.SessionDatabase
	feedback *mocks.FeedbackDatabase
	engine   *mentorship.Engine
}

func newFixture() *fixture {
	f := &fixture{
		mentors:  &mocks.MentorProfileDatabase{},
		mentees:  &mocks.MenteeProfileDatabase{},
		requests: &mocks.RequestDatabase{},
		matches:  &mocks.MatchDatabase{},
		sessions: &mocks.SessionDatabase{},
		feedback: &mocks.FeedbackDatabase{},
	}
	f.engine = mentorship.NewEngine(mentorship.Stores{
		Mentors:  f.mentors,
		Mentees:  f.mentees,
		Requests: f.requests,
		Matches:  f.matches,
		Sessions: f.sessions,
		Feedback: f.feedback,
	}, mentorship.WithClock(func() time.Time { return fixedNow }))
	return f
}

// newRequest builds a request made by userID, as the auth middleware would leave it
func newRequest(t *testing.T, method, url, userID string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")
	if userID != "" {
		req = req.WithContext(api.WithIdentity(req.Context(), api.UserIdentity{UserID: userID}))
	}
	return req
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) models.MessageError {
	t.Helper()
	var resp models.ErrorMessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Response
}

func activeMatch() *models.MentorshipMatch {
	return &models.MentorshipMatch{
		ID:       primitive.NewObjectID(),
		MentorID: "mentor-1",
		MenteeID: "mentee-1",
		Status:   models.MatchStatusActive,
	}
}
