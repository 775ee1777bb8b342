package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/secid/mentorship-api/mentorship"
	"github.com/secid/mentorship-api/models"
)

type mockConn struct {
	mock.Mock
}

func (m *mockConn) Publish(subj string, data []byte) error {
	return m.Called(subj, data).Error(0)
}

func (m *mockConn) Drain() error {
	return m.Called().Error(0)
}

func TestForwardPublishesEnvelope(t *testing.T) {
	conn := &mockConn{}
	var sent []byte
	conn.On("Publish", "mentorship.request.created", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]byte) }).
		Return(nil)

	p := NewPublisher(conn)
	p.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	err := p.Forward(context.Background(), mentorship.RequestCreated{
		Request: models.MentorshipRequest{MentorID: "mentor-1", MenteeID: "mentee-1"},
	})
	require.NoError(t, err)

	var got struct {
		ID         string    `json:"id"`
		Type       string    `json:"type"`
		OccurredAt time.Time `json:"occurredAt"`
		Payload    struct {
			Request models.MentorshipRequest `json:"request"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(sent, &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "request.created", got.Type)
	assert.True(t, got.OccurredAt.Equal(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "mentor-1", got.Payload.Request.MentorID)
	conn.AssertExpectations(t)
}

func TestForwardReturnsPublishError(t *testing.T) {
	conn := &mockConn{}
	conn.On("Publish", mock.Anything, mock.Anything).Return(errors.New("nats: connection closed"))

	err := NewPublisher(conn).Forward(context.Background(), mentorship.MatchEnded{})

	assert.EqualError(t, err, "nats: connection closed")
}

func TestDisabledPublisher(t *testing.T) {
	p, err := Connect("", "mentorship-api")
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NoError(t, p.Forward(context.Background(), mentorship.MatchCreated{}))
	assert.NoError(t, p.Close())
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "mentorship.feedback.submitted", Subject(mentorship.EventFeedbackSubmitted))
}
