package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionType is how a mentorship session takes place
type SessionType string

const (
	// SessionTypeVideo requires a meeting URL
	SessionTypeVideo SessionType = "video"
	// SessionTypeVoice is a call
	SessionTypeVoice SessionType = "voice"
	// SessionTypeChat is text only
	SessionTypeChat SessionType = "chat"
	// SessionTypeInPerson requires a location
	SessionTypeInPerson SessionType = "in-person"
)

// IsValid reports whether s is one of the known session types
func (s SessionType) IsValid() bool {
	switch s {
	case SessionTypeVideo, SessionTypeVoice, SessionTypeChat, SessionTypeInPerson:
		return true
	default:
		return false
	}
}

// SessionStatus is the lifecycle state of a session
type SessionStatus string

const (
	// SessionStatusScheduled is the state of every new session
	SessionStatusScheduled SessionStatus = "scheduled"
	// SessionStatusCompleted is terminal
	SessionStatusCompleted SessionStatus = "completed"
	// SessionStatusCancelled is terminal
	SessionStatusCancelled SessionStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled
}

// Homework is an assignment attached to a session. Titles may repeat, so
// homework is addressed by index.
type Homework struct {
	Title       string              `json:"title" bson:"title"`
	Description string              `json:"description" bson:"description"`
	DueDate     *primitive.DateTime `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	Completed   bool                `json:"completed" bson:"completed"`
}

// MentorshipSession holds the structure for the mentorshipSessions collection in mongo.
// MentorID and MenteeID are copied from the match at creation.
type MentorshipSession struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	MatchID     string             `json:"matchId" bson:"matchId"`
	MentorID    string             `json:"mentorId" bson:"mentorId"`
	MenteeID    string             `json:"menteeId" bson:"menteeId"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	ScheduledAt primitive.DateTime `json:"scheduledAt" bson:"scheduledAt"`
	Duration    int                `json:"duration" bson:"duration"` // minutes
	Type        SessionType        `json:"type" bson:"type"`
	MeetingURL  string             `json:"meetingUrl,omitempty" bson:"meetingUrl,omitempty"`
	Location    string             `json:"location,omitempty" bson:"location,omitempty"`
	Agenda      []string           `json:"agenda" bson:"agenda"`
	Notes       string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Resources   []string           `json:"resources" bson:"resources"`
	Homework    []Homework         `json:"homework" bson:"homework"`
	Status      SessionStatus      `json:"status" bson:"status"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
