package databases

// go generate: mockery --name SessionDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/secid/mentorship-api/models"
)

const sessionCollectionName = "mentorshipSessions"

// SessionDatabase contains the methods to use with the mentorship session database
type SessionDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.MentorshipSession, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.MentorshipSession, error)
	InsertOne(ctx context.Context, session models.MentorshipSession, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.MentorshipSession, error)
}

type sessionDatabase struct {
	db DatabaseHelper
}

// NewSessionDatabase initializes a new instance of mentorship session database with the provided db connection
func NewSessionDatabase(db DatabaseHelper) SessionDatabase {
	return &sessionDatabase{
		db: db,
	}
}

func (s *sessionDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.MentorshipSession, error) {
	session := &models.MentorshipSession{}
	err := s.db.Collection(sessionCollectionName).FindOne(ctx, filter, opts...).Decode(&session)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.MentorshipSession, error) {
	var sessions []models.MentorshipSession
	cur, err := s.db.Collection(sessionCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &sessions)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *sessionDatabase) InsertOne(ctx context.Context, session models.MentorshipSession, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return s.db.Collection(sessionCollectionName).InsertOne(ctx, session, opts...)
}

func (s *sessionDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.MentorshipSession, error) {
	session := &models.MentorshipSession{}
	err := s.db.Collection(sessionCollectionName).FindOneAndUpdate(ctx, filter, update, opts...).Decode(&session)
	if err != nil {
		return nil, err
	}
	return session, nil
}
