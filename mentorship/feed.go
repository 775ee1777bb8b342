package mentorship

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/secid/mentorship-api/databases"
	"github.com/secid/mentorship-api/models"
)

// RequestFeed streams live views of the requests collection
type RequestFeed struct {
	requests databases.RequestDatabase
}

// PendingForMentor emits the full list of pending requests for mentorID, first
// immediately and then after every change to that mentor's requests. Each
// emission replaces the previous one. The channel is closed when ctx is done
// or the change stream ends.
func (f *RequestFeed) PendingForMentor(ctx context.Context, mentorID string) (<-chan []models.MentorshipRequest, error) {
	pipeline := bson.A{bson.M{"$match": bson.M{"fullDocument.mentorId": mentorID}}}
	stream, err := f.requests.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, dependency("watch requests", err)
	}

	initial, err := f.snapshot(ctx, mentorID)
	if err != nil {
		_ = stream.Close(context.Background())
		return nil, err
	}

	out := make(chan []models.MentorshipRequest)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		if !emit(ctx, out, initial) {
			return
		}
		for stream.Next(ctx) {
			snap, err := f.snapshot(ctx, mentorID)
			if err != nil {
				zap.S().Warnw("failed to refresh pending requests", "mentorId", mentorID, "error", err)
				continue
			}
			if !emit(ctx, out, snap) {
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			zap.S().Errorw("pending request stream ended", "mentorId", mentorID, "error", err)
		}
	}()
	return out, nil
}

func (f *RequestFeed) snapshot(ctx context.Context, mentorID string) ([]models.MentorshipRequest, error) {
	reqs, err := f.requests.Find(ctx,
		bson.M{"mentorId": mentorID, "status": models.RequestStatusPending},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, dependency("list pending requests", err)
	}
	if reqs == nil {
		reqs = []models.MentorshipRequest{}
	}
	return reqs, nil
}

func emit(ctx context.Context, out chan<- []models.MentorshipRequest, snap []models.MentorshipRequest) bool {
	select {
	case out <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}
