package databases

// go generate: mockery --name MentorProfileDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/secid/mentorship-api/models"
)

const mentorProfileCollectionName = "mentorProfiles"

// MentorProfileDatabase contains the methods to use with the mentor profile database
type MentorProfileDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.MentorProfile, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.MentorProfile, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type mentorProfileDatabase struct {
	db DatabaseHelper
}

// NewMentorProfileDatabase initializes a new instance of mentor profile database with the provided db connection
func NewMentorProfileDatabase(db DatabaseHelper) MentorProfileDatabase {
	return &mentorProfileDatabase{
		db: db,
	}
}

func (m *mentorProfileDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.MentorProfile, error) {
	profile := &models.MentorProfile{}
	err := m.db.Collection(mentorProfileCollectionName).FindOne(ctx, filter, opts...).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (m *mentorProfileDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.MentorProfile, error) {
	var profiles []models.MentorProfile
	cur, err := m.db.Collection(mentorProfileCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &profiles)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (m *mentorProfileDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return m.db.Collection(mentorProfileCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (m *mentorProfileDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return m.db.Collection(mentorProfileCollectionName).CountDocuments(ctx, filter, opts...)
}
