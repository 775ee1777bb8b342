package databases

// go generate: mockery --name MatchDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/secid/mentorship-api/models"
)

const matchCollectionName = "mentorshipMatches"

// MatchDatabase contains the methods to use with the mentorship match database
type MatchDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.MentorshipMatch, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.MentorshipMatch, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.MentorshipMatch, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type matchDatabase struct {
	db DatabaseHelper
}

// NewMatchDatabase initializes a new instance of mentorship match database with the provided db connection
func NewMatchDatabase(db DatabaseHelper) MatchDatabase {
	return &matchDatabase{
		db: db,
	}
}

func (m *matchDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.MentorshipMatch, error) {
	match := &models.MentorshipMatch{}
	err := m.db.Collection(matchCollectionName).FindOne(ctx, filter, opts...).Decode(&match)
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (m *matchDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.MentorshipMatch, error) {
	var matches []models.MentorshipMatch
	cur, err := m.db.Collection(matchCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &matches)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func (m *matchDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return m.db.Collection(matchCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (m *matchDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.MentorshipMatch, error) {
	match := &models.MentorshipMatch{}
	err := m.db.Collection(matchCollectionName).FindOneAndUpdate(ctx, filter, update, opts...).Decode(&match)
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (m *matchDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return m.db.Collection(matchCollectionName).CountDocuments(ctx, filter, opts...)
}
