package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MatchStatus is the lifecycle state of a mentorship match
type MatchStatus string

const (
	// MatchStatusActive is the state of every newly created match
	MatchStatusActive MatchStatus = "active"
	// MatchStatusCompleted is terminal
	MatchStatusCompleted MatchStatus = "completed"
	// MatchStatusCancelled is terminal
	MatchStatusCancelled MatchStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed
func (s MatchStatus) IsTerminal() bool {
	return s == MatchStatusCompleted || s == MatchStatusCancelled
}

// MentorshipMatch holds the structure for the mentorshipMatches collection in mongo.
// RequestID is unique: one match per accepted request.
type MentorshipMatch struct {
	ID                      primitive.ObjectID  `json:"_id" bson:"_id"`
	RequestID               string              `json:"requestId" bson:"requestId"`
	MentorID                string              `json:"mentorId" bson:"mentorId"`
	MenteeID                string              `json:"menteeId" bson:"menteeId"`
	Status                  MatchStatus         `json:"status" bson:"status"`
	MatchScore              float64             `json:"matchScore" bson:"matchScore"`
	MatchReason             []string            `json:"matchReason" bson:"matchReason"`
	Goals                   []string            `json:"goals" bson:"goals"`
	MeetingFrequency        string              `json:"meetingFrequency" bson:"meetingFrequency"`
	CommunicationPreference string              `json:"communicationPreference" bson:"communicationPreference"`
	SessionsCompleted       int                 `json:"sessionsCompleted" bson:"sessionsCompleted"`
	CreatedAt               primitive.DateTime  `json:"createdAt" bson:"createdAt"`
	UpdatedAt               primitive.DateTime  `json:"updatedAt" bson:"updatedAt"`
	StartDate               primitive.DateTime  `json:"startDate" bson:"startDate"`
	EndDate                 *primitive.DateTime `json:"endDate,omitempty" bson:"endDate,omitempty"`
}

// HasParticipant reports whether userID is the mentor or the mentee of the match
func (m MentorshipMatch) HasParticipant(userID string) bool {
	return userID != "" && (m.MentorID == userID || m.MenteeID == userID)
}
