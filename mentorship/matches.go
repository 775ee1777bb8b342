package mentorship

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/secid/mentorship-api/databases"
	"github.com/secid/mentorship-api/models"
)

const (
	// DefaultMatchScore is used for requests filed without a compatibility score
	DefaultMatchScore = 0.8
	// AcceptedMatchReason is the reason recorded on every match
	AcceptedMatchReason = "Accepted mentorship request"
)

// MatchQuery selects matches. UserID matches either participant.
type MatchQuery struct {
	UserID   string             `mapstructure:"userId"`
	MentorID string             `mapstructure:"mentorId"`
	MenteeID string             `mapstructure:"menteeId"`
	Status   models.MatchStatus `mapstructure:"status"`
}

// MatchManager owns matches: their creation from accepted requests and their end
type MatchManager struct {
	matches databases.MatchDatabase
	bus     *Bus
	now     func() time.Time
}

// HandleRequestAccepted creates the match of an accepted request. The insert is
// an upsert keyed on requestId, so running it twice for one request is a no-op.
func (m *MatchManager) HandleRequestAccepted(ctx context.Context, e Event) error {
	ev, ok := e.(RequestAccepted)
	if !ok {
		return nil
	}
	return m.materialize(ctx, ev.Request)
}

// EnsureForRequest creates the match of an accepted request if it is missing
func (m *MatchManager) EnsureForRequest(ctx context.Context, req models.MentorshipRequest) error {
	if req.Status != models.RequestStatusAccepted {
		return invalidState("request %s is %s, not accepted", req.ID.Hex(), req.Status)
	}
	return m.materialize(ctx, req)
}

func (m *MatchManager) materialize(ctx context.Context, req models.MentorshipRequest) error {
	now := primitive.NewDateTimeFromTime(m.now())
	score := DefaultMatchScore
	if req.MatchScore != nil {
		score = *req.MatchScore
	}
	match := models.MentorshipMatch{
		ID:                      primitive.NewObjectID(),
		RequestID:               req.ID.Hex(),
		MentorID:                req.MentorID,
		MenteeID:                req.MenteeID,
		Status:                  models.MatchStatusActive,
		MatchScore:              score,
		MatchReason:             []string{AcceptedMatchReason},
		Goals:                   nonNil(req.Goals),
		MeetingFrequency:        req.MeetingFrequency,
		CommunicationPreference: req.CommunicationPreference,
		SessionsCompleted:       0,
		CreatedAt:               now,
		UpdatedAt:               now,
		StartDate:               now,
	}

	res, err := m.matches.UpdateOne(ctx,
		bson.M{"requestId": match.RequestID},
		bson.M{"$setOnInsert": match},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return dependency("create match", err)
	}
	if res.UpsertedCount == 0 {
		zap.S().Infow("match already exists for request", "requestId", match.RequestID)
		return nil
	}

	zap.S().Infow("match created", "matchId", match.ID.Hex(), "requestId", match.RequestID)
	return m.bus.Publish(ctx, MatchCreated{Match: match})
}

// Get returns one match
func (m *MatchManager) Get(ctx context.Context, id string) (*models.MentorshipMatch, error) {
	oid, err := objectID("match", id)
	if err != nil {
		return nil, err
	}
	match, err := m.matches.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, lookupError("match", id, "get match", err)
	}
	return match, nil
}

// List returns the matches selected by q, newest first
func (m *MatchManager) List(ctx context.Context, q MatchQuery) ([]models.MentorshipMatch, error) {
	filter := bson.M{}
	if q.UserID != "" {
		filter["$or"] = bson.A{bson.M{"mentorId": q.UserID}, bson.M{"menteeId": q.UserID}}
	}
	if q.MentorID != "" {
		filter["mentorId"] = q.MentorID
	}
	if q.MenteeID != "" {
		filter["menteeId"] = q.MenteeID
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	matches, err := m.matches.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, dependency("list matches", err)
	}
	if matches == nil {
		matches = []models.MentorshipMatch{}
	}
	return matches, nil
}

// UpdateStatus ends an active match. Either participant may do it.
func (m *MatchManager) UpdateStatus(ctx context.Context, userID, id string, status models.MatchStatus) (*models.MentorshipMatch, error) {
	if !status.IsTerminal() {
		return nil, invalid("status", "must be %q or %q", models.MatchStatusCompleted, models.MatchStatusCancelled)
	}
	match, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(userID) {
		return nil, ErrForbidden
	}
	if match.Status.IsTerminal() {
		return nil, invalidState("match %s is already %s", id, match.Status)
	}

	now := primitive.NewDateTimeFromTime(m.now())
	updated, err := m.matches.FindOneAndUpdate(ctx,
		bson.M{"_id": match.ID, "status": models.MatchStatusActive},
		bson.M{"$set": bson.M{"status": status, "endDate": now, "updatedAt": now}},
		databases.ReturnAfter(),
	)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, invalidState("match %s is no longer active", id)
	}
	if err != nil {
		return nil, dependency("update match status", err)
	}

	if err := m.bus.Publish(ctx, MatchEnded{Match: *updated}); err != nil {
		zap.S().Warnw("match ended handlers failed", "matchId", id, "error", err)
	}
	return updated, nil
}

// HandleSessionCompleted counts a completed session on its match
func (m *MatchManager) HandleSessionCompleted(ctx context.Context, e Event) error {
	ev, ok := e.(SessionCompleted)
	if !ok {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(ev.Session.MatchID)
	if err != nil {
		zap.S().Warnw("completed session has a malformed match id", "sessionId", ev.Session.ID.Hex(), "matchId", ev.Session.MatchID)
		return nil
	}
	update := bson.M{
		"$inc": bson.M{"sessionsCompleted": 1},
		"$set": bson.M{"updatedAt": primitive.NewDateTimeFromTime(m.now())},
	}
	if _, err := m.matches.UpdateOne(ctx, bson.M{"_id": oid}, update); err != nil {
		zap.S().Errorw("failed to count completed session", "matchId", ev.Session.MatchID, "error", err)
	}
	return nil
}

// CountActiveForMentor counts the active matches of a mentor
func (m *MatchManager) CountActiveForMentor(ctx context.Context, mentorID string) (int64, error) {
	n, err := m.matches.CountDocuments(ctx, bson.M{"mentorId": mentorID, "status": models.MatchStatusActive})
	if err != nil {
		return 0, dependency("count active matches", err)
	}
	return n, nil
}
