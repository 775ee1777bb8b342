package databases

// go generate: mockery --name RequestDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/secid/mentorship-api/models"
)

const requestCollectionName = "mentorshipRequests"

// RequestDatabase contains the methods to use with the mentorship request database
type RequestDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.MentorshipRequest, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.MentorshipRequest, error)
	InsertOne(ctx context.Context, request models.MentorshipRequest, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.MentorshipRequest, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	Watch(ctx context.Context, pipeline interface{}, opts ...*options.ChangeStreamOptions) (ChangeStreamHelper, error)
}

type requestDatabase struct {
	db DatabaseHelper
}

// NewRequestDatabase initializes a new instance of mentorship request database with the provided db connection
func NewRequestDatabase(db DatabaseHelper) RequestDatabase {
	return &requestDatabase{
		db: db,
	}
}

func (r *requestDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.MentorshipRequest, error) {
	request := &models.MentorshipRequest{}
	err := r.db.Collection(requestCollectionName).FindOne(ctx, filter, opts...).Decode(&request)
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (r *requestDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.MentorshipRequest, error) {
	var requests []models.MentorshipRequest
	cur, err := r.db.Collection(requestCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &requests)
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestDatabase) InsertOne(ctx context.Context, request models.MentorshipRequest, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return r.db.Collection(requestCollectionName).InsertOne(ctx, request, opts...)
}

func (r *requestDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.MentorshipRequest, error) {
	request := &models.MentorshipRequest{}
	err := r.db.Collection(requestCollectionName).FindOneAndUpdate(ctx, filter, update, opts...).Decode(&request)
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (r *requestDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return r.db.Collection(requestCollectionName).CountDocuments(ctx, filter, opts...)
}

func (r *requestDatabase) Watch(ctx context.Context, pipeline interface{}, opts ...*options.ChangeStreamOptions) (ChangeStreamHelper, error) {
	return r.db.Collection(requestCollectionName).Watch(ctx, pipeline, opts...)
}
