package mentorship_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

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

func newFixture(opts ...mentorship.Option) *fixture {
	f := &fixture{
		mentors:  &mocks.MentorProfileDatabase{},
		mentees:  &mocks.MenteeProfileDatabase{},
		requests: &mocks.RequestDatabase{},
		matches:  &mocks.MatchDatabase{},
		sessions: &mocks.SessionDatabase{},
		feedback: &mocks.FeedbackDatabase{},
	}
	opts = append([]mentorship.Option{mentorship.WithClock(func() time.Time { return fixedNow })}, opts...)
	f.engine = mentorship.NewEngine(mentorship.Stores{
		Mentors:  f.mentors,
		Mentees:  f.mentees,
		Requests: f.requests,
		Matches:  f.matches,
		Sessions: f.sessions,
		Feedback: f.feedback,
	}, opts...)
	return f
}

func dt(t time.Time) primitive.DateTime {
	return primitive.NewDateTimeFromTime(t)
}

func activeMatch() *models.MentorshipMatch {
	return &models.MentorshipMatch{
		ID:       primitive.NewObjectID(),
		MentorID: "mentor-1",
		MenteeID: "mentee-1",
		Status:   models.MatchStatusActive,
	}
}

func TestBusReturnsFirstHandlerError(t *testing.T) {
	bus := mentorship.NewBus()
	var calls []string
	observed := 0

	bus.Subscribe(mentorship.EventMatchCreated, func(ctx context.Context, e mentorship.Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	bus.Subscribe(mentorship.EventMatchCreated, func(ctx context.Context, e mentorship.Event) error {
		calls = append(calls, "second")
		return nil
	})
	bus.SubscribeAll(func(ctx context.Context, e mentorship.Event) error {
		observed++
		return errors.New("observer errors are only logged")
	})

	err := bus.Publish(context.Background(), mentorship.MatchCreated{})

	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"first"}, calls)
	assert.Equal(t, 1, observed)
}

func TestBusOnlyRunsHandlersOfTheEventType(t *testing.T) {
	bus := mentorship.NewBus()
	called := false
	bus.Subscribe(mentorship.EventMatchEnded, func(ctx context.Context, e mentorship.Event) error {
		called = true
		return nil
	})

	assert.NoError(t, bus.Publish(context.Background(), mentorship.MatchCreated{}))
	assert.False(t, called)
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("socket closed")
	var err error = &mentorship.DependencyError{Op: "get match", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, &mentorship.NotFoundError{Kind: "match", ID: "42"}, `match "42" not found`)
	assert.EqualError(t, &mentorship.ValidationError{Field: "rating", Message: "must be between 1 and 5"}, "invalid rating: must be between 1 and 5")
}
