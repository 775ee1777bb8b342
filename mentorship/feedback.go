package mentorship

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/secid/mentorship-api/databases"
	"github.com/secid/mentorship-api/models"
)

// FeedbackInput is a rating given by the calling user
type FeedbackInput struct {
	ToUserID  string              `json:"toUserId"`
	MatchID   string              `json:"matchId"`
	SessionID string              `json:"sessionId"`
	Type      models.FeedbackType `json:"type"`
	Rating    int                 `json:"rating"`
	Comment   string              `json:"comment"`
}

// RatingSummary is the result of recomputing a user's rating
type RatingSummary struct {
	UserID        string  `json:"userId"`
	Rating        float64 `json:"rating"`
	TotalSessions int     `json:"totalSessions"`
	FeedbackCount int     `json:"feedbackCount"`
}

// FeedbackAggregator appends feedback and keeps mentor ratings in sync with it
type FeedbackAggregator struct {
	feedback databases.FeedbackDatabase
	matches  databases.MatchDatabase
	mentors  databases.MentorProfileDatabase
	bus      *Bus
	now      func() time.Time
}

// Submit appends feedback from fromUserID. The rating refresh it triggers is
// best-effort and never fails the submission.
func (a *FeedbackAggregator) Submit(ctx context.Context, fromUserID string, in FeedbackInput) (*models.MentorshipFeedback, error) {
	if err := validateFeedback(fromUserID, in); err != nil {
		return nil, err
	}
	if in.MatchID != "" {
		oid, err := objectID("match", in.MatchID)
		if err != nil {
			return nil, err
		}
		match, err := a.matches.FindOne(ctx, bson.M{"_id": oid})
		if err != nil {
			return nil, lookupError("match", in.MatchID, "get match", err)
		}
		if !match.HasParticipant(fromUserID) || !match.HasParticipant(in.ToUserID) {
			return nil, invalid("matchId", "both users must take part in the match")
		}
	}

	fb := models.MentorshipFeedback{
		ID:         primitive.NewObjectID(),
		FromUserID: fromUserID,
		ToUserID:   in.ToUserID,
		MatchID:    in.MatchID,
		SessionID:  in.SessionID,
		Type:       in.Type,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
		CreatedAt:  primitive.NewDateTimeFromTime(a.now()),
	}
	if _, err := a.feedback.InsertOne(ctx, fb); err != nil {
		return nil, dependency("insert feedback", err)
	}
	if err := a.bus.Publish(ctx, FeedbackSubmitted{Feedback: fb}); err != nil {
		zap.S().Warnw("feedback submitted handlers failed", "feedbackId", fb.ID.Hex(), "error", err)
	}
	return &fb, nil
}

// HandleFeedbackSubmitted refreshes the rating of the rated user
func (a *FeedbackAggregator) HandleFeedbackSubmitted(ctx context.Context, e Event) error {
	ev, ok := e.(FeedbackSubmitted)
	if !ok {
		return nil
	}
	if _, err := a.RecomputeRating(ctx, ev.Feedback.ToUserID); err != nil {
		zap.S().Errorw("failed to recompute rating", "userId", ev.Feedback.ToUserID, "error", err)
	}
	return nil
}

// RecomputeRating rescans all feedback for userID and writes rating, totalSessions
// and feedbackCount to their mentor profile. The write is guarded on
// feedbackCount so a scan that saw fewer entries never overwrites a newer one.
// Users without a mentor profile are left untouched.
func (a *FeedbackAggregator) RecomputeRating(ctx context.Context, userID string) (*RatingSummary, error) {
	entries, err := a.feedback.Find(ctx, bson.M{"toUserId": userID})
	if err != nil {
		return nil, dependency("list feedback", err)
	}

	summary := &RatingSummary{UserID: userID, FeedbackCount: len(entries)}
	total := 0
	for _, fb := range entries {
		total += fb.Rating
		if fb.Type == models.FeedbackTypeSession {
			summary.TotalSessions++
		}
	}
	if len(entries) > 0 {
		summary.Rating = float64(total) / float64(len(entries))
	}

	filter := bson.M{
		"userId": userID,
		"$or": bson.A{
			bson.M{"feedbackCount": bson.M{"$lte": summary.FeedbackCount}},
			bson.M{"feedbackCount": bson.M{"$exists": false}},
		},
	}
	update := bson.M{"$set": bson.M{
		"rating":        summary.Rating,
		"totalSessions": summary.TotalSessions,
		"feedbackCount": summary.FeedbackCount,
		"updatedAt":     primitive.NewDateTimeFromTime(a.now()),
	}}
	res, err := a.mentors.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, dependency("update mentor rating", err)
	}
	if res.MatchedCount == 0 {
		zap.S().Debugw("rating not written", "userId", userID, "feedbackCount", summary.FeedbackCount)
	}
	return summary, nil
}

// List returns the feedback received by toUserID, newest first
func (a *FeedbackAggregator) List(ctx context.Context, toUserID string) ([]models.MentorshipFeedback, error) {
	filter := bson.M{}
	if toUserID != "" {
		filter["toUserId"] = toUserID
	}
	entries, err := a.feedback.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, dependency("list feedback", err)
	}
	if entries == nil {
		entries = []models.MentorshipFeedback{}
	}
	return entries, nil
}

func validateFeedback(fromUserID string, in FeedbackInput) error {
	if fromUserID == "" {
		return invalid("fromUserId", "is required")
	}
	if in.ToUserID == "" {
		return invalid("toUserId", "is required")
	}
	if in.ToUserID == fromUserID {
		return invalid("toUserId", "cannot rate yourself")
	}
	if in.Type != models.FeedbackTypeSession && in.Type != models.FeedbackTypeOverall {
		return invalid("type", "must be %q or %q", models.FeedbackTypeSession, models.FeedbackTypeOverall)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return invalid("rating", "must be between 1 and 5")
	}
	return nil
}
