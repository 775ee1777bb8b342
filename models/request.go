package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestStatus is the lifecycle state of a mentorship request
type RequestStatus string

const (
	// RequestStatusPending is the initial state, awaiting the mentor
	RequestStatusPending RequestStatus = "pending"
	// RequestStatusAccepted is terminal and materializes a match
	RequestStatusAccepted RequestStatus = "accepted"
	// RequestStatusRejected is terminal
	RequestStatusRejected RequestStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusRejected
}

// MentorshipRequest holds the structure for the mentorshipRequests collection in mongo
type MentorshipRequest struct {
	ID                      primitive.ObjectID  `json:"_id" bson:"_id"`
	MentorID                string              `json:"mentorId" bson:"mentorId"`
	MenteeID                string              `json:"menteeId" bson:"menteeId"`
	Message                 string              `json:"message" bson:"message"`
	Goals                   []string            `json:"goals" bson:"goals"`
	ExpectedDuration        string              `json:"expectedDuration" bson:"expectedDuration"`               // "1-month", "3-months", "6-months", "ongoing"
	MeetingFrequency        string              `json:"meetingFrequency" bson:"meetingFrequency"`               // "weekly", "biweekly", "monthly"
	CommunicationPreference string              `json:"communicationPreference" bson:"communicationPreference"` // "video", "voice", "chat", "in-person"
	MatchScore              *float64            `json:"matchScore,omitempty" bson:"matchScore,omitempty"` // nil when the request was never scored
	MatchReasons            []string            `json:"matchReasons,omitempty" bson:"matchReasons,omitempty"`
	Status                  RequestStatus       `json:"status" bson:"status"`
	CreatedAt               primitive.DateTime  `json:"createdAt" bson:"createdAt"`
	RespondedAt             *primitive.DateTime `json:"respondedAt,omitempty" bson:"respondedAt,omitempty"`
	ResponseMessage         string              `json:"responseMessage,omitempty" bson:"responseMessage,omitempty"`
}
