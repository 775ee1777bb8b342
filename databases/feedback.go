package databases

// go generate: mockery --name FeedbackDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/secid/mentorship-api/models"
)

const feedbackCollectionName = "mentorshipFeedback"

// FeedbackDatabase contains the methods to use with the append-only feedback database
type FeedbackDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.MentorshipFeedback, error)
	InsertOne(ctx context.Context, feedback models.MentorshipFeedback, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type feedbackDatabase struct {
	db DatabaseHelper
}

// NewFeedbackDatabase initializes a new instance of feedback database with the provided db connection
func NewFeedbackDatabase(db DatabaseHelper) FeedbackDatabase {
	return &feedbackDatabase{
		db: db,
	}
}

func (f *feedbackDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.MentorshipFeedback, error) {
	var feedback []models.MentorshipFeedback
	cur, err := f.db.Collection(feedbackCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &feedback)
	if err != nil {
		return nil, err
	}
	return feedback, nil
}

func (f *feedbackDatabase) InsertOne(ctx context.Context, feedback models.MentorshipFeedback, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return f.db.Collection(feedbackCollectionName).InsertOne(ctx, feedback, opts...)
}
