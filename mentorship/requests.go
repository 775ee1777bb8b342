package mentorship

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/secid/mentorship-api/databases"
	"github.com/secid/mentorship-api/matching"
	"github.com/secid/mentorship-api/models"
)

// MinRequestMessageLength is the shortest accepted request message, in characters
const MinRequestMessageLength = 50

var (
	expectedDurations  = map[string]bool{"1-month": true, "3-months": true, "6-months": true, "ongoing": true}
	meetingFrequencies = map[string]bool{"weekly": true, "biweekly": true, "monthly": true}
)

// RequestInput is what a mentee submits to ask a mentor for mentorship
type RequestInput struct {
	MentorID                string   `json:"mentorId"`
	Message                 string   `json:"message"`
	Goals                   []string `json:"goals"`
	ExpectedDuration        string   `json:"expectedDuration"`
	MeetingFrequency        string   `json:"meetingFrequency"`
	CommunicationPreference string   `json:"communicationPreference"`
}

// RequestQuery selects requests. Empty fields do not filter.
type RequestQuery struct {
	MentorID string               `mapstructure:"mentorId"`
	MenteeID string               `mapstructure:"menteeId"`
	Status   models.RequestStatus `mapstructure:"status"`
}

// RequestManager owns the pending → accepted | rejected state machine
type RequestManager struct {
	requests databases.RequestDatabase
	mentors  databases.MentorProfileDatabase
	mentees  databases.MenteeProfileDatabase
	bus      *Bus
	now      func() time.Time
}

// Create files a pending request from menteeID to in.MentorID
func (m *RequestManager) Create(ctx context.Context, menteeID string, in RequestInput) (*models.MentorshipRequest, error) {
	goals, err := validateRequest(menteeID, in)
	if err != nil {
		return nil, err
	}

	mentor, err := m.mentors.FindOne(ctx, bson.M{"userId": in.MentorID})
	if err != nil {
		return nil, lookupError("mentor profile", in.MentorID, "get mentor profile", err)
	}
	if !mentor.IsActive {
		return nil, invalidState("mentor %s is not accepting requests", in.MentorID)
	}

	pending, err := m.requests.CountDocuments(ctx, bson.M{
		"mentorId": in.MentorID,
		"menteeId": menteeID,
		"status":   models.RequestStatusPending,
	})
	if err != nil {
		return nil, dependency("count pending requests", err)
	}
	if pending > 0 {
		return nil, invalidState("a pending request to mentor %s already exists", in.MentorID)
	}

	req := models.MentorshipRequest{
		ID:                      primitive.NewObjectID(),
		MentorID:                in.MentorID,
		MenteeID:                menteeID,
		Message:                 strings.TrimSpace(in.Message),
		Goals:                   goals,
		ExpectedDuration:        in.ExpectedDuration,
		MeetingFrequency:        in.MeetingFrequency,
		CommunicationPreference: in.CommunicationPreference,
		Status:                  models.RequestStatusPending,
		CreatedAt:               primitive.NewDateTimeFromTime(m.now()),
	}

	// the score is recorded when the mentee has a profile to score
	mentee, err := m.mentees.FindOne(ctx, bson.M{"userId": menteeID})
	switch {
	case err == nil:
		res := matching.Score(*mentee, *mentor)
		score := res.Score
		req.MatchScore = &score
		req.MatchReasons = res.Reasons
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, dependency("get mentee profile", err)
	}

	if _, err := m.requests.InsertOne(ctx, req); err != nil {
		return nil, dependency("insert request", err)
	}
	if err := m.bus.Publish(ctx, RequestCreated{Request: req}); err != nil {
		zap.S().Warnw("request created handlers failed", "requestId", req.ID.Hex(), "error", err)
	}
	return &req, nil
}

// Get returns one request
func (m *RequestManager) Get(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	oid, err := objectID("request", id)
	if err != nil {
		return nil, err
	}
	req, err := m.requests.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, lookupError("request", id, "get request", err)
	}
	return req, nil
}

// List returns the requests selected by q, newest first
func (m *RequestManager) List(ctx context.Context, q RequestQuery) ([]models.MentorshipRequest, error) {
	filter := bson.M{}
	if q.MentorID != "" {
		filter["mentorId"] = q.MentorID
	}
	if q.MenteeID != "" {
		filter["menteeId"] = q.MenteeID
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	reqs, err := m.requests.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, dependency("list requests", err)
	}
	if reqs == nil {
		reqs = []models.MentorshipRequest{}
	}
	return reqs, nil
}

// Respond moves a pending request to decision on behalf of its mentor. The
// transition is a conditional update on status, so of two concurrent
// responses only one wins; the loser gets InvalidStateError. Accepting first
// reserves one of the mentor's slots with a conditional increment, so
// concurrent accepts cannot push the mentor past maxMentees, then raises
// RequestAccepted, whose handler creates the match before Respond returns.
func (m *RequestManager) Respond(ctx context.Context, mentorID, id string, decision models.RequestStatus, message string) (*models.MentorshipRequest, error) {
	if decision != models.RequestStatusAccepted && decision != models.RequestStatusRejected {
		return nil, invalid("status", "must be %q or %q", models.RequestStatusAccepted, models.RequestStatusRejected)
	}

	req, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.MentorID != mentorID {
		return nil, ErrForbidden
	}
	if req.Status.IsTerminal() {
		return nil, invalidState("request %s has already been %s", id, req.Status)
	}

	accepting := decision == models.RequestStatusAccepted
	if accepting {
		mentor, err := m.mentors.FindOne(ctx, bson.M{"userId": mentorID})
		if err != nil {
			return nil, lookupError("mentor profile", mentorID, "get mentor profile", err)
		}
		if !mentor.HasCapacity() {
			return nil, invalidState("mentor %s has no remaining capacity", mentorID)
		}
		reserved, err := reserveSlot(ctx, m.mentors, mentorID, m.now())
		if err != nil {
			return nil, dependency("reserve mentor slot", err)
		}
		if !reserved {
			return nil, invalidState("mentor %s has no remaining capacity", mentorID)
		}
	}

	set := bson.M{
		"status":      decision,
		"respondedAt": primitive.NewDateTimeFromTime(m.now()),
	}
	if message = strings.TrimSpace(message); message != "" {
		set["responseMessage"] = message
	}
	updated, err := m.requests.FindOneAndUpdate(ctx,
		bson.M{"_id": req.ID, "status": models.RequestStatusPending},
		bson.M{"$set": set},
		databases.ReturnAfter(),
	)
	if err != nil && accepting {
		m.releaseReserved(ctx, mentorID, id)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, invalidState("request %s is no longer pending", id)
	}
	if err != nil {
		return nil, dependency("respond to request", err)
	}

	if decision == models.RequestStatusRejected {
		if err := m.bus.Publish(ctx, RequestRejected{Request: *updated}); err != nil {
			zap.S().Warnw("request rejected handlers failed", "requestId", id, "error", err)
		}
		return updated, nil
	}
	if err := m.bus.Publish(ctx, RequestAccepted{Request: *updated}); err != nil {
		return updated, err
	}
	return updated, nil
}

// releaseReserved hands back a slot taken for an accept that did not happen
func (m *RequestManager) releaseReserved(ctx context.Context, mentorID, requestID string) {
	if _, err := releaseSlot(ctx, m.mentors, mentorID, m.now()); err != nil {
		zap.S().Errorw("failed to release reserved mentor slot", "mentorId", mentorID, "requestId", requestID, "error", err)
	}
}

func validateRequest(menteeID string, in RequestInput) ([]string, error) {
	if menteeID == "" {
		return nil, invalid("menteeId", "is required")
	}
	if in.MentorID == "" {
		return nil, invalid("mentorId", "is required")
	}
	if in.MentorID == menteeID {
		return nil, invalid("mentorId", "cannot request mentorship from yourself")
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(in.Message)); n < MinRequestMessageLength {
		return nil, invalid("message", "must be at least %d characters, got %d", MinRequestMessageLength, n)
	}
	var goals []string
	for _, g := range in.Goals {
		if g = strings.TrimSpace(g); g != "" {
			goals = append(goals, g)
		}
	}
	if len(goals) == 0 {
		return nil, invalid("goals", "at least one goal is required")
	}
	if in.ExpectedDuration != "" && !expectedDurations[in.ExpectedDuration] {
		return nil, invalid("expectedDuration", "unknown duration %q", in.ExpectedDuration)
	}
	if in.MeetingFrequency != "" && !meetingFrequencies[in.MeetingFrequency] {
		return nil, invalid("meetingFrequency", "unknown frequency %q", in.MeetingFrequency)
	}
	if in.CommunicationPreference != "" && !models.SessionType(in.CommunicationPreference).IsValid() {
		return nil, invalid("communicationPreference", "unknown preference %q", in.CommunicationPreference)
	}
	return goals, nil
}
