package mentorship_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/secid/mentorship-api/databases/mocks"
	"github.com/secid/mentorship-api/mentorship"
	"github.com/secid/mentorship-api/models"
)

func sessionInput() mentorship.SessionInput {
	return mentorship.SessionInput{
		Title:       "Kickoff",
		ScheduledAt: fixedNow.Add(48 * time.Hour),
		Duration:    45,
		Type:        models.SessionTypeVideo,
		MeetingURL:  "https://meet.example.com/kickoff",
		Agenda:      []string{"Goals"},
	}
}

func scheduledSession(match *models.MentorshipMatch) *models.MentorshipSession {
	return &models.MentorshipSession{
		ID:          primitive.NewObjectID(),
		MatchID:     match.ID.Hex(),
		MentorID:    match.MentorID,
		MenteeID:    match.MenteeID,
		Title:       "Kickoff",
		ScheduledAt: dt(fixedNow.Add(48 * time.Hour)),
		Duration:    45,
		Type:        models.SessionTypeChat,
		Agenda:      []string{"Goals", "Resume review"},
		Resources:   []string{},
		Homework: []models.Homework{
			{Title: "Read chapter 1"},
			{Title: "Read chapter 1"},
			{Title: "Build a CLI"},
		},
		Status: models.SessionStatusScheduled,
	}
}

func TestScheduleValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*mentorship.SessionInput)
		field string
	}{
		{"past date", func(in *mentorship.SessionInput) { in.ScheduledAt = fixedNow.Add(-time.Minute) }, "scheduledAt"},
		{"now is not the future", func(in *mentorship.SessionInput) { in.ScheduledAt = fixedNow }, "scheduledAt"},
		{"video without url", func(in *mentorship.SessionInput) { in.MeetingURL = "" }, "meetingUrl"},
		{"in-person without location", func(in *mentorship.SessionInput) {
			in.Type = models.SessionTypeInPerson
			in.MeetingURL = ""
		}, "location"},
		{"too short", func(in *mentorship.SessionInput) { in.Duration = 10 }, "duration"},
		{"unknown type", func(in *mentorship.SessionInput) { in.Type = "carrier-pigeon" }, "type"},
		{"missing title", func(in *mentorship.SessionInput) { in.Title = " " }, "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			match := activeMatch()
			f.matches.On("FindOne", mock.Anything, bson.M{"_id": match.ID}).Return(match, nil)

			in := sessionInput()
			tt.edit(&in)
			_, err := f.engine.Sessions.Schedule(context.Background(), "mentee-1", match.ID.Hex(), in)

			var verr *mentorship.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			f.sessions.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
		})
	}
}

func TestScheduleCopiesParticipantsFromMatch(t *testing.T) {
	f := newFixture()
	match := activeMatch()
	f.matches.On("FindOne", mock.Anything, bson.M{"_id": match.ID}).Return(match, nil)
	f.sessions.On("InsertOne", mock.Anything, mock.AnythingOfType("models.MentorshipSession")).
		Return(&mocks.InsertOneResultHelper{}, nil)

	session, err := f.engine.Sessions.Schedule(context.Background(), "mentor-1", match.ID.Hex(), sessionInput())

	require.NoError(t, err)
	assert.Equal(t, "mentor-1", session.MentorID)
	assert.Equal(t, "mentee-1", session.MenteeID)
	assert.Equal(t, match.ID.Hex(), session.MatchID)
	assert.Equal(t, models.SessionStatusScheduled, session.Status)
	assert.Equal(t, []string{}, session.Resources)
	assert.Equal(t, []models.Homework{}, session.Homework)
	assert.Equal(t, dt(fixedNow), session.CreatedAt)
}

func TestScheduleRejectsOutsiders(t *testing.T) {
	f := newFixture()
	match := activeMatch()
	f.matches.On("FindOne", mock.Anything, mock.Anything).Return(match, nil)

	_, err := f.engine.Sessions.Schedule(context.Background(), "stranger", match.ID.Hex(), sessionInput())

	assert.ErrorIs(t, err, mentorship.ErrForbidden)
}

func TestScheduleOnEndedMatch(t *testing.T) {
	f := newFixture()
	match := activeMatch()
	match.Status = models.MatchStatusCompleted
	f.matches.On("FindOne", mock.Anything, mock.Anything).Return(match, nil)

	_, err := f.engine.Sessions.Schedule(context.Background(), "mentor-1", match.ID.Hex(), sessionInput())

	var serr *mentorship.InvalidStateError
	assert.ErrorAs(t, err, &serr)
}

func TestScheduleUnknownMatch(t *testing.T) {
	f := newFixture()
	f.matches.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	_, err := f.engine.Sessions.Schedule(context.Background(), "mentor-1", primitive.NewObjectID().Hex(), sessionInput())

	var nf *mentorship.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUpdateSessionValidatesMergedResult(t *testing.T) {
	f := newFixture()
	session := scheduledSession(activeMatch())
	f.sessions.On("FindOne", mock.Anything, bson.M{"_id": session.ID}).Return(session, nil)

	video := models.SessionTypeVideo
	_, err := f.engine.Sessions.Update(context.Background(), "mentor-1", session.ID.Hex(), mentorship.SessionPatch{Type: &video})

	var verr *mentorship.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "meetingUrl", verr.Field)

	past := fixedNow.Add(-time.Hour)
	_, err = f.engine.Sessions.Update(context.Background(), "mentor-1", session.ID.Hex(), mentorship.SessionPatch{ScheduledAt: &past})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "scheduledAt", verr.Field)
}

func TestUpdateSessionReschedules(t *testing.T) {
	f := newFixture()
	session := scheduledSession(activeMatch())
	later := fixedNow.Add(72 * time.Hour)
	rescheduled := *session
	rescheduled.ScheduledAt = dt(later)

	f.sessions.On("FindOne", mock.Anything, mock.Anything).Return(session, nil)
	f.sessions.On("FindOneAndUpdate", mock.Anything,
		bson.M{"_id": session.ID, "status": models.SessionStatusScheduled},
		mock.MatchedBy(func(u bson.M) bool {
			return u["$set"].(bson.M)["scheduledAt"] == dt(later)
		}), mock.Anything).Return(&rescheduled, nil)

	got, err := f.engine.Sessions.Update(context.Background(), "mentee-1", session.ID.Hex(), mentorship.SessionPatch{ScheduledAt: &later})

	require.NoError(t, err)
	assert.Equal(t, dt(later), got.ScheduledAt)
}

func TestUpdateTerminalSession(t *testing.T) {
	f := newFixture()
	session := scheduledSession(activeMatch())
	session.Status = models.SessionStatusCompleted
	f.sessions.On("FindOne", mock.Anything, mock.Anything).Return(session, nil)

	title := "Renamed"
	_, err := f.engine.Sessions.Update(context.Background(), "mentor-1", session.ID.Hex(), mentorship.SessionPatch{Title: &title})

	var serr *mentorship.InvalidStateError
	assert.ErrorAs(t, err, &serr)
}

func TestCompleteSessionCountsOnMatch(t *testing.T) {
	f := newFixture()
	match := activeMatch()
	session := scheduledSession(match)
	completed := *session
	completed.Status = models.SessionStatusCompleted

	f.sessions.On("FindOne", mock.Anything, mock.Anything).Return(session, nil)
	f.sessions.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&completed, nil)
	f.matches.On("UpdateOne", mock.Anything, bson.M{"_id": match.ID}, mock.MatchedBy(func(u bson.M) bool {
		return u["$inc"].(bson.M)["sessionsCompleted"] == 1
	})).Return(&mongo.UpdateResult{MatchedCount: 1}, nil).Once()

	got, err := f.engine.Sessions.UpdateStatus(context.Background(), "mentor-1", session.ID.Hex(), models.SessionStatusCompleted)

	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCompleted, got.Status)
	f.matches.AssertExpectations(t)
}

func TestCancelSessionIsOneWay(t *testing.T) {
	f := newFixture()
	session := scheduledSession(activeMatch())
	session.Status = models.SessionStatusCancelled
	f.sessions.On("FindOne", mock.Anything, mock.Anything).Return(session, nil)

	_, err := f.engine.Sessions.UpdateStatus(context.Background(), "mentor-1", session.ID.Hex(), models.SessionStatusCompleted)

	var serr *mentorship.InvalidStateError
	assert.ErrorAs(t, err, &serr)

	_, err = f.engine.Sessions.UpdateStatus(context.Background(), "mentor-1", session.ID.Hex(), models.SessionStatusScheduled)
	var verr *mentorship.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRemoveAgendaItemByValue(t *testing.T) {
	f := newFixture()
	session := scheduledSession(activeMatch())
	f.sessions.On("FindOne", mock.Anything, mock.Anything).Return(session, nil)
	f.sessions.On("FindOneAndUpdate", mock.Anything,
		bson.M{"_id": session.ID, "status": bson.M{"$ne": models.SessionStatusCancelled}},
		mock.MatchedBy(func(u bson.M) bool {
			return u["$pull"].(bson.M)["agenda"] == "Resume review"
		}), mock.Anything).Return(session, nil).Once()

	_, err := f.engine.Sessions.RemoveAgendaItem(context.Background(), "mentee-1", session.ID.Hex(), "Resume review")

	require.NoError(t, err)
	f.sessions.AssertExpectations(t)
}

func TestAddResource(t *testing.T) {
	f := newFixture()
	session := scheduledSession(activeMatch())
	f.sessions.On("FindOne", mock.Anything, mock.Anything).Return(session, nil)
	f.sessions.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.MatchedBy(func(u bson.M) bool {
		return u["$push"].(bson.M)["resources"] == "https://go.dev/tour"
	}), mock.Anything).Return(session, nil).Once()

	_, err := f.engine.Sessions.AddResource(context.Background(), "mentor-1", session.ID.Hex(), " https://go.dev/tour ")
	require.NoError(t, err)

	_, err = f.engine.Sessions.AddResource(context.Background(), "mentor-1", session.ID.Hex(), "  ")
	var verr *mentorship.ValidationError
	assert.ErrorAs(t, err, &verr)
	f.sessions.AssertNumberOfCalls(t, "FindOneAndUpdate", 1)
}

func TestRemoveHomeworkByIndex(t *testing.T) {
	f := newFixture()
	session := scheduledSession(activeMatch())
	f.sessions.On("FindOne", mock.Anything, mock.Anything).Return(session, nil)

	var written []models.Homework
	f.sessions.On("FindOneAndUpdate", mock.Anything, mock.MatchedBy(func(filter bson.M) bool {
		return assert.ObjectsAreEqual(session.Homework, filter["homework"])
	}), mock.Anything, mock.Anything).Return(session, nil).Run(func(args mock.Arguments) {
		written = args.Get(2).(bson.M)["$set"].(bson.M)["homework"].([]models.Homework)
	})

	_, err := f.engine.Sessions.RemoveHomework(context.Background(), "mentor-1", session.ID.Hex(), 1)

	require.NoError(t, err)
	assert.Equal(t, []models.Homework{{Title: "Read chapter 1"}, {Title: "Build a CLI"}}, written)

	_, err = f.engine.Sessions.RemoveHomework(context.Background(), "mentor-1", session.ID.Hex(), 3)
	var verr *mentorship.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "index", verr.Field)
}

func TestRemoveHomeworkConcurrentEdit(t *testing.T) {
	f := newFixture()
	session := scheduledSession(activeMatch())
	f.sessions.On("FindOne", mock.Anything, mock.Anything).Return(session, nil)
	f.sessions.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	_, err := f.engine.Sessions.RemoveHomework(context.Background(), "mentor-1", session.ID.Hex(), 0)

	var serr *mentorship.InvalidStateError
	assert.ErrorAs(t, err, &serr)
}

func TestCompleteHomework(t *testing.T) {
	f := newFixture()
	session := scheduledSession(activeMatch())
	f.sessions.On("FindOne", mock.Anything, mock.Anything).Return(session, nil)
	f.sessions.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.MatchedBy(func(u bson.M) bool {
		return u["$set"].(bson.M)["homework.2.completed"] == true
	}), mock.Anything).Return(session, nil).Once()

	_, err := f.engine.Sessions.CompleteHomework(context.Background(), "mentee-1", session.ID.Hex(), 2)

	require.NoError(t, err)
	f.sessions.AssertExpectations(t)
}

func TestListEditsRejectedOnCancelledSession(t *testing.T) {
	f := newFixture()
	session := scheduledSession(activeMatch())
	session.Status = models.SessionStatusCancelled
	f.sessions.On("FindOne", mock.Anything, mock.Anything).Return(session, nil)

	_, err := f.engine.Sessions.AddAgendaItem(context.Background(), "mentor-1", session.ID.Hex(), "Retro")

	var serr *mentorship.InvalidStateError
	assert.ErrorAs(t, err, &serr)
}
