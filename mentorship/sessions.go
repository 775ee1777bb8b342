package mentorship

import (
	"context"
	"fmt"
	"strings"
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

// MinSessionDuration is the shortest session that can be scheduled, in minutes
const MinSessionDuration = 15

// SessionInput is the payload of a new session
type SessionInput struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	ScheduledAt time.Time          `json:"scheduledAt"`
	Duration    int                `json:"duration"`
	Type        models.SessionType `json:"type"`
	MeetingURL  string             `json:"meetingUrl"`
	Location    string             `json:"location"`
	Agenda      []string           `json:"agenda"`
	Notes       string             `json:"notes"`
	Resources   []string           `json:"resources"`
	Homework    []models.Homework  `json:"homework"`
}

// SessionPatch changes a scheduled session. Nil fields are left as they are.
type SessionPatch struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	ScheduledAt *time.Time          `json:"scheduledAt"`
	Duration    *int                `json:"duration"`
	Type        *models.SessionType `json:"type"`
	MeetingURL  *string             `json:"meetingUrl"`
	Location    *string             `json:"location"`
	Notes       *string             `json:"notes"`
}

// SessionManager schedules and edits the sessions of a match
type SessionManager struct {
	sessions databases.SessionDatabase
	matches  databases.MatchDatabase
	bus      *Bus
	now      func() time.Time
}

// Schedule creates a session under an active match. The participants are
// always copied from the match.
func (m *SessionManager) Schedule(ctx context.Context, userID, matchID string, in SessionInput) (*models.MentorshipSession, error) {
	oid, err := objectID("match", matchID)
	if err != nil {
		return nil, err
	}
	match, err := m.matches.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, lookupError("match", matchID, "get match", err)
	}
	if !match.HasParticipant(userID) {
		return nil, ErrForbidden
	}
	if match.Status != models.MatchStatusActive {
		return nil, invalidState("match %s is %s, sessions can only be scheduled on active matches", matchID, match.Status)
	}

	now := m.now()
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("title", "is required")
	}
	if !in.ScheduledAt.After(now) {
		return nil, invalid("scheduledAt", "must be in the future")
	}
	if err := validateSessionShape(in.Duration, in.Type, in.MeetingURL, in.Location); err != nil {
		return nil, err
	}

	stamp := primitive.NewDateTimeFromTime(now)
	session := models.MentorshipSession{
		ID:          primitive.NewObjectID(),
		MatchID:     match.ID.Hex(),
		MentorID:    match.MentorID,
		MenteeID:    match.MenteeID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		ScheduledAt: primitive.NewDateTimeFromTime(in.ScheduledAt),
		Duration:    in.Duration,
		Type:        in.Type,
		MeetingURL:  strings.TrimSpace(in.MeetingURL),
		Location:    strings.TrimSpace(in.Location),
		Agenda:      nonNil(in.Agenda),
		Notes:       in.Notes,
		Resources:   nonNil(in.Resources),
		Homework:    in.Homework,
		Status:      models.SessionStatusScheduled,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	}
	if session.Homework == nil {
		session.Homework = []models.Homework{}
	}

	if _, err := m.sessions.InsertOne(ctx, session); err != nil {
		return nil, dependency("insert session", err)
	}
	if err := m.bus.Publish(ctx, SessionScheduled{Session: session}); err != nil {
		zap.S().Warnw("session scheduled handlers failed", "sessionId", session.ID.Hex(), "error", err)
	}
	return &session, nil
}

// Get returns one session
func (m *SessionManager) Get(ctx context.Context, id string) (*models.MentorshipSession, error) {
	oid, err := objectID("session", id)
	if err != nil {
		return nil, err
	}
	session, err := m.sessions.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, lookupError("session", id, "get session", err)
	}
	return session, nil
}

// ListByMatch returns the sessions of a match in schedule order
func (m *SessionManager) ListByMatch(ctx context.Context, matchID string) ([]models.MentorshipSession, error) {
	sessions, err := m.sessions.Find(ctx, bson.M{"matchId": matchID}, options.Find().SetSort(bson.D{{Key: "scheduledAt", Value: 1}}))
	if err != nil {
		return nil, dependency("list sessions", err)
	}
	if sessions == nil {
		sessions = []models.MentorshipSession{}
	}
	return sessions, nil
}

// Update edits a scheduled session. The merged result is validated as a whole;
// a new scheduledAt must again be in the future.
func (m *SessionManager) Update(ctx context.Context, userID, id string, p SessionPatch) (*models.MentorshipSession, error) {
	session, err := m.participantSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if session.Status.IsTerminal() {
		return nil, invalidState("session %s is %s and can no longer be edited", id, session.Status)
	}

	merged := *session
	set := bson.M{}
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, invalid("title", "is required")
		}
		merged.Title = strings.TrimSpace(*p.Title)
		set["title"] = merged.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}
	if p.ScheduledAt != nil {
		if !p.ScheduledAt.After(m.now()) {
			return nil, invalid("scheduledAt", "must be in the future")
		}
		set["scheduledAt"] = primitive.NewDateTimeFromTime(*p.ScheduledAt)
	}
	if p.Duration != nil {
		merged.Duration = *p.Duration
		set["duration"] = merged.Duration
	}
	if p.Type != nil {
		merged.Type = *p.Type
		set["type"] = merged.Type
	}
	if p.MeetingURL != nil {
		merged.MeetingURL = strings.TrimSpace(*p.MeetingURL)
		set["meetingUrl"] = merged.MeetingURL
	}
	if p.Location != nil {
		merged.Location = strings.TrimSpace(*p.Location)
		set["location"] = merged.Location
	}
	if err := validateSessionShape(merged.Duration, merged.Type, merged.MeetingURL, merged.Location); err != nil {
		return nil, err
	}

	set["updatedAt"] = primitive.NewDateTimeFromTime(m.now())
	return m.apply(ctx, id, bson.M{"_id": session.ID, "status": models.SessionStatusScheduled}, bson.M{"$set": set})
}

// UpdateStatus completes or cancels a scheduled session
func (m *SessionManager) UpdateStatus(ctx context.Context, userID, id string, status models.SessionStatus) (*models.MentorshipSession, error) {
	if !status.IsTerminal() {
		return nil, invalid("status", "must be %q or %q", models.SessionStatusCompleted, models.SessionStatusCancelled)
	}
	session, err := m.participantSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if session.Status.IsTerminal() {
		return nil, invalidState("session %s is already %s", id, session.Status)
	}

	updated, err := m.apply(ctx, id,
		bson.M{"_id": session.ID, "status": models.SessionStatusScheduled},
		bson.M{"$set": bson.M{"status": status, "updatedAt": primitive.NewDateTimeFromTime(m.now())}},
	)
	if err != nil {
		return nil, err
	}
	if status == models.SessionStatusCompleted {
		if err := m.bus.Publish(ctx, SessionCompleted{Session: *updated}); err != nil {
			zap.S().Warnw("session completed handlers failed", "sessionId", id, "error", err)
		}
	}
	return updated, nil
}

// AddAgendaItem appends an agenda item
func (m *SessionManager) AddAgendaItem(ctx context.Context, userID, id, item string) (*models.MentorshipSession, error) {
	return m.pushValue(ctx, userID, id, "agenda", item)
}

// RemoveAgendaItem removes every agenda item equal to item
func (m *SessionManager) RemoveAgendaItem(ctx context.Context, userID, id, item string) (*models.MentorshipSession, error) {
	return m.pullValue(ctx, userID, id, "agenda", item)
}

// AddResource appends a resource
func (m *SessionManager) AddResource(ctx context.Context, userID, id, resource string) (*models.MentorshipSession, error) {
	return m.pushValue(ctx, userID, id, "resources", resource)
}

// RemoveResource removes every resource equal to resource
func (m *SessionManager) RemoveResource(ctx context.Context, userID, id, resource string) (*models.MentorshipSession, error) {
	return m.pullValue(ctx, userID, id, "resources", resource)
}

// AddHomework appends a homework assignment
func (m *SessionManager) AddHomework(ctx context.Context, userID, id string, hw models.Homework) (*models.MentorshipSession, error) {
	if strings.TrimSpace(hw.Title) == "" {
		return nil, invalid("homework.title", "is required")
	}
	session, err := m.editableSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	hw.Title = strings.TrimSpace(hw.Title)
	return m.apply(ctx, id, editableFilter(session.ID), bson.M{
		"$push": bson.M{"homework": hw},
		"$set":  bson.M{"updatedAt": primitive.NewDateTimeFromTime(m.now())},
	})
}

// RemoveHomework removes the homework at index. The write only applies if the
// homework list is still the one the index was resolved against.
func (m *SessionManager) RemoveHomework(ctx context.Context, userID, id string, index int) (*models.MentorshipSession, error) {
	session, err := m.editableSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(session.Homework) {
		return nil, invalid("index", "homework index %d out of range", index)
	}

	remaining := make([]models.Homework, 0, len(session.Homework)-1)
	remaining = append(remaining, session.Homework[:index]...)
	remaining = append(remaining, session.Homework[index+1:]...)

	filter := editableFilter(session.ID)
	filter["homework"] = session.Homework
	return m.apply(ctx, id, filter, bson.M{"$set": bson.M{
		"homework":  remaining,
		"updatedAt": primitive.NewDateTimeFromTime(m.now()),
	}})
}

// CompleteHomework marks the homework at index as done
func (m *SessionManager) CompleteHomework(ctx context.Context, userID, id string, index int) (*models.MentorshipSession, error) {
	session, err := m.editableSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(session.Homework) {
		return nil, invalid("index", "homework index %d out of range", index)
	}

	path := fmt.Sprintf("homework.%d", index)
	filter := editableFilter(session.ID)
	filter[path+".title"] = session.Homework[index].Title
	return m.apply(ctx, id, filter, bson.M{"$set": bson.M{
		path + ".completed": true,
		"updatedAt":         primitive.NewDateTimeFromTime(m.now()),
	}})
}

func (m *SessionManager) pushValue(ctx context.Context, userID, id, field, value string) (*models.MentorshipSession, error) {
	if value = strings.TrimSpace(value); value == "" {
		return nil, invalid(field, "item must not be empty")
	}
	session, err := m.editableSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return m.apply(ctx, id, editableFilter(session.ID), bson.M{
		"$push": bson.M{field: value},
		"$set":  bson.M{"updatedAt": primitive.NewDateTimeFromTime(m.now())},
	})
}

func (m *SessionManager) pullValue(ctx context.Context, userID, id, field, value string) (*models.MentorshipSession, error) {
	session, err := m.editableSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return m.apply(ctx, id, editableFilter(session.ID), bson.M{
		"$pull": bson.M{field: strings.TrimSpace(value)},
		"$set":  bson.M{"updatedAt": primitive.NewDateTimeFromTime(m.now())},
	})
}

func (m *SessionManager) participantSession(ctx context.Context, userID, id string) (*models.MentorshipSession, error) {
	session, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID != session.MentorID && userID != session.MenteeID {
		return nil, ErrForbidden
	}
	return session, nil
}

// editableSession loads a session whose lists may still change: anything but cancelled
func (m *SessionManager) editableSession(ctx context.Context, userID, id string) (*models.MentorshipSession, error) {
	session, err := m.participantSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionStatusCancelled {
		return nil, invalidState("session %s is cancelled", id)
	}
	return session, nil
}

func editableFilter(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "status": bson.M{"$ne": models.SessionStatusCancelled}}
}

// apply runs a conditional update. A filter miss means the session changed
// state since it was read.
func (m *SessionManager) apply(ctx context.Context, id string, filter, update bson.M) (*models.MentorshipSession, error) {
	updated, err := m.sessions.FindOneAndUpdate(ctx, filter, update, databases.ReturnAfter())
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, invalidState("session %s was modified concurrently, reload and retry", id)
	}
	if err != nil {
		return nil, dependency("update session", err)
	}
	return updated, nil
}

func validateSessionShape(duration int, t models.SessionType, meetingURL, location string) error {
	if duration < MinSessionDuration {
		return invalid("duration", "must be at least %d minutes", MinSessionDuration)
	}
	if !t.IsValid() {
		return invalid("type", "unknown session type %q", t)
	}
	if t == models.SessionTypeVideo && strings.TrimSpace(meetingURL) == "" {
		return invalid("meetingUrl", "is required for video sessions")
	}
	if t == models.SessionTypeInPerson && strings.TrimSpace(location) == "" {
		return invalid("location", "is required for in-person sessions")
	}
	return nil
}
