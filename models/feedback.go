package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedbackType is what a feedback entry rates
type FeedbackType string

const (
	// FeedbackTypeSession rates a single session and counts towards totalSessions
	FeedbackTypeSession FeedbackType = "session"
	// FeedbackTypeOverall rates the whole mentorship
	FeedbackTypeOverall FeedbackType = "overall"
)

// MentorshipFeedback holds the structure for the append-only mentorshipFeedback collection in mongo
type MentorshipFeedback struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	FromUserID string             `json:"fromUserId" bson:"fromUserId"`
	ToUserID   string             `json:"toUserId" bson:"toUserId"`
	MatchID    string             `json:"matchId,omitempty" bson:"matchId,omitempty"`
	SessionID  string             `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	Type       FeedbackType       `json:"type" bson:"type"`
	Rating     int                `json:"rating" bson:"rating"` // 1-5
	Comment    string             `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt  primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
