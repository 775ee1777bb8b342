package databases

// go generate: mockery --name MenteeProfileDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/secid/mentorship-api/models"
)

const menteeProfileCollectionName = "menteeProfiles"

// MenteeProfileDatabase contains the methods to use with the mentee profile database
type MenteeProfileDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.MenteeProfile, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type menteeProfileDatabase struct {
	db DatabaseHelper
}

// NewMenteeProfileDatabase initializes a new instance of mentee profile database with the provided db connection
func NewMenteeProfileDatabase(db DatabaseHelper) MenteeProfileDatabase {
	return &menteeProfileDatabase{
		db: db,
	}
}

func (m *menteeProfileDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.MenteeProfile, error) {
	profile := &models.MenteeProfile{}
	err := m.db.Collection(menteeProfileCollectionName).FindOne(ctx, filter, opts...).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (m *menteeProfileDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return m.db.Collection(menteeProfileCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (m *menteeProfileDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return m.db.Collection(menteeProfileCollectionName).CountDocuments(ctx, filter, opts...)
}
