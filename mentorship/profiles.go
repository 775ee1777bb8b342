package mentorship

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/secid/mentorship-api/databases"
	"github.com/secid/mentorship-api/matching"
	"github.com/secid/mentorship-api/models"
)

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// ProfileStore reads and writes mentor and mentee profiles. The derived mentor
// counters are only changed by the event handlers and the reconciliation job.
type ProfileStore struct {
	mentors databases.MentorProfileDatabase
	mentees databases.MenteeProfileDatabase
	blobs   BlobStore
	now     func() time.Time
}

// GetMentor returns the mentor profile of userID
func (s *ProfileStore) GetMentor(ctx context.Context, userID string) (*models.MentorProfile, error) {
	m, err := s.mentors.FindOne(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, lookupError("mentor profile", userID, "get mentor profile", err)
	}
	return m, nil
}

// GetMentee returns the mentee profile of userID
func (s *ProfileStore) GetMentee(ctx context.Context, userID string) (*models.MenteeProfile, error) {
	m, err := s.mentees.FindOne(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, lookupError("mentee profile", userID, "get mentee profile", err)
	}
	return m, nil
}

// Save stores either kind of profile
func (s *ProfileStore) Save(ctx context.Context, p models.Profile) (models.Profile, error) {
	switch v := p.(type) {
	case *models.MentorProfile:
		return s.Save(ctx, *v)
	case *models.MenteeProfile:
		return s.Save(ctx, *v)
	case models.MentorProfile:
		saved, err := s.SaveMentor(ctx, v)
		if err != nil {
			return nil, err
		}
		return saved, nil
	case models.MenteeProfile:
		saved, err := s.SaveMentee(ctx, v)
		if err != nil {
			return nil, err
		}
		return saved, nil
	default:
		return nil, invalid("profile", "unsupported profile type %T", p)
	}
}

// SaveMentor creates or replaces the owner-editable fields of a mentor profile
func (s *ProfileStore) SaveMentor(ctx context.Context, p models.MentorProfile) (*models.MentorProfile, error) {
	if err := validateMentor(p); err != nil {
		return nil, err
	}

	existing, err := s.mentors.FindOne(ctx, bson.M{"userId": p.UserID})
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, dependency("get mentor profile", err)
	}
	if existing != nil && p.MaxMentees < existing.CurrentMentees {
		return nil, invalid("maxMentees", "cannot be lower than the %d current mentees", existing.CurrentMentees)
	}

	now := primitive.NewDateTimeFromTime(s.now())
	update := bson.M{
		"$set": bson.M{
			"displayName":     strings.TrimSpace(p.DisplayName),
			"bio":             p.Bio,
			"expertiseAreas":  nonNil(p.ExpertiseAreas),
			"skills":          nonNil(p.Skills),
			"experience":      p.Experience,
			"availability":    normalizeAvailability(p.Availability),
			"mentorshipStyle": nonNil(p.MentorshipStyle),
			"languages":       nonNil(p.Languages),
			"maxMentees":      p.MaxMentees,
			"isActive":        p.IsActive,
			"updatedAt":       now,
		},
		"$setOnInsert": bson.M{
			"createdAt":      now,
			"profileImage":   "",
			"currentMentees": 0,
			"rating":         0.0,
			"totalSessions":  0,
			"feedbackCount":  0,
		},
	}
	res, err := s.mentors.UpdateOne(ctx, bson.M{"userId": p.UserID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, dependency("save mentor profile", err)
	}

	saved := p
	saved.DisplayName = strings.TrimSpace(p.DisplayName)
	saved.Availability = normalizeAvailability(p.Availability)
	saved.UpdatedAt = now
	if existing != nil {
		saved.ID = existing.ID
		saved.ProfileImage = existing.ProfileImage
		saved.CurrentMentees = existing.CurrentMentees
		saved.Rating = existing.Rating
		saved.TotalSessions = existing.TotalSessions
		saved.FeedbackCount = existing.FeedbackCount
		saved.CreatedAt = existing.CreatedAt
	} else {
		if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
			saved.ID = id
		}
		saved.ProfileImage = ""
		saved.CurrentMentees, saved.Rating, saved.TotalSessions, saved.FeedbackCount = 0, 0, 0, 0
		saved.CreatedAt = now
	}
	return &saved, nil
}

// SaveMentee creates or replaces a mentee profile
func (s *ProfileStore) SaveMentee(ctx context.Context, p models.MenteeProfile) (*models.MenteeProfile, error) {
	if p.UserID == "" {
		return nil, invalid("userId", "is required")
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return nil, invalid("displayName", "is required")
	}
	if p.Background.YearsOfExperience < 0 {
		return nil, invalid("background.yearsOfExperience", "must not be negative")
	}
	if err := validateAvailability(p.Availability); err != nil {
		return nil, err
	}

	now := primitive.NewDateTimeFromTime(s.now())
	update := bson.M{
		"$set": bson.M{
			"displayName":              strings.TrimSpace(p.DisplayName),
			"bio":                      p.Bio,
			"goals":                    nonNil(p.Goals),
			"interests":                nonNil(p.Interests),
			"background":               p.Background,
			"availability":             normalizeAvailability(p.Availability),
			"preferredMentorshipStyle": nonNil(p.PreferredMentorshipStyle),
			"languages":                nonNil(p.Languages),
			"updatedAt":                now,
		},
		"$setOnInsert": bson.M{
			"createdAt":    now,
			"profileImage": "",
		},
	}
	res, err := s.mentees.UpdateOne(ctx, bson.M{"userId": p.UserID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, dependency("save mentee profile", err)
	}
	if res.UpsertedCount == 0 {
		return s.GetMentee(ctx, p.UserID)
	}

	saved := p
	saved.DisplayName = strings.TrimSpace(p.DisplayName)
	saved.Availability = normalizeAvailability(p.Availability)
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		saved.ID = id
	}
	saved.ProfileImage = ""
	saved.CreatedAt, saved.UpdatedAt = now, now
	return &saved, nil
}

// ActiveMentors returns the standard candidate pool: active mentors below capacity
func (s *ProfileStore) ActiveMentors(ctx context.Context) ([]models.MentorProfile, error) {
	filter := bson.M{
		"isActive": true,
		"$expr":    bson.M{"$lt": bson.A{"$currentMentees", "$maxMentees"}},
	}
	mentors, err := s.mentors.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, dependency("list active mentors", err)
	}
	return matching.Eligible(mentors), nil
}

// AllMentors returns every mentor profile
func (s *ProfileStore) AllMentors(ctx context.Context) ([]models.MentorProfile, error) {
	mentors, err := s.mentors.Find(ctx, bson.M{})
	if err != nil {
		return nil, dependency("list mentors", err)
	}
	return mentors, nil
}

// Suggestions ranks the candidate pool for the mentee profile of menteeID
func (s *ProfileStore) Suggestions(ctx context.Context, menteeID string, filters matching.Filters, sortBy matching.SortBy) ([]models.MatchResult, error) {
	if err := filters.Validate(); err != nil {
		return nil, invalid("filters", "%s", err.Error())
	}
	mentee, err := s.GetMentee(ctx, menteeID)
	if err != nil {
		return nil, err
	}
	pool, err := s.ActiveMentors(ctx)
	if err != nil {
		return nil, err
	}
	candidates := pool[:0]
	for _, m := range pool {
		if m.UserID != menteeID {
			candidates = append(candidates, m)
		}
	}
	return matching.FindMatches(*mentee, candidates, filters, sortBy), nil
}

// UploadImage stores an image for userID and points their profiles at it
func (s *ProfileStore) UploadImage(ctx context.Context, userID string, r io.Reader) (string, error) {
	if s.blobs == nil {
		return "", dependency("upload profile image", errors.New("blob store is not configured"))
	}

	filter := bson.M{"userId": userID}
	mentors, err := s.mentors.CountDocuments(ctx, filter)
	if err != nil {
		return "", dependency("count mentor profiles", err)
	}
	mentees, err := s.mentees.CountDocuments(ctx, filter)
	if err != nil {
		return "", dependency("count mentee profiles", err)
	}
	if mentors == 0 && mentees == 0 {
		return "", &NotFoundError{Kind: "profile", ID: userID}
	}

	url, err := s.blobs.Upload(ctx, "profiles/"+userID, r)
	if err != nil {
		return "", dependency("upload profile image", err)
	}

	update := bson.M{"$set": bson.M{"profileImage": url, "updatedAt": primitive.NewDateTimeFromTime(s.now())}}
	if mentors > 0 {
		if _, err := s.mentors.UpdateOne(ctx, filter, update); err != nil {
			return "", dependency("set mentor profile image", err)
		}
	}
	if mentees > 0 {
		if _, err := s.mentees.UpdateOne(ctx, filter, update); err != nil {
			return "", dependency("set mentee profile image", err)
		}
	}
	return url, nil
}

// SetMentorLoad overwrites currentMentees with a recount of active matches
func (s *ProfileStore) SetMentorLoad(ctx context.Context, userID string, active int64) error {
	update := bson.M{"$set": bson.M{"currentMentees": active, "updatedAt": primitive.NewDateTimeFromTime(s.now())}}
	if _, err := s.mentors.UpdateOne(ctx, bson.M{"userId": userID}, update); err != nil {
		return dependency("set mentor load", err)
	}
	return nil
}

// HandleMatchEnded releases one slot of the mentor's capacity. Failures are
// logged: drift is repaired by the reconciliation job.
func (s *ProfileStore) HandleMatchEnded(ctx context.Context, e Event) error {
	ev, ok := e.(MatchEnded)
	if !ok {
		return nil
	}
	released, err := releaseSlot(ctx, s.mentors, ev.Match.MentorID, s.now())
	if err != nil {
		zap.S().Errorw("failed to release mentor slot", "mentorId", ev.Match.MentorID, "error", err)
		return nil
	}
	if !released {
		zap.S().Warnw("mentor load already at zero", "mentorId", ev.Match.MentorID)
	}
	return nil
}

// reserveSlot takes one free slot of the mentor in a single conditional
// update. It reports false when the mentor had no free slot.
func reserveSlot(ctx context.Context, mentors databases.MentorProfileDatabase, mentorID string, now time.Time) (bool, error) {
	filter := bson.M{
		"userId": mentorID,
		"$expr":  bson.M{"$lt": bson.A{"$currentMentees", "$maxMentees"}},
	}
	return adjustLoad(ctx, mentors, filter, 1, now)
}

// releaseSlot gives back one slot of the mentor, never going below zero
func releaseSlot(ctx context.Context, mentors databases.MentorProfileDatabase, mentorID string, now time.Time) (bool, error) {
	filter := bson.M{
		"userId":         mentorID,
		"currentMentees": bson.M{"$gt": 0},
	}
	return adjustLoad(ctx, mentors, filter, -1, now)
}

func adjustLoad(ctx context.Context, mentors databases.MentorProfileDatabase, filter bson.M, delta int, now time.Time) (bool, error) {
	update := bson.M{
		"$inc": bson.M{"currentMentees": delta},
		"$set": bson.M{"updatedAt": primitive.NewDateTimeFromTime(now)},
	}
	res, err := mentors.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func validateMentor(p models.MentorProfile) error {
	if p.UserID == "" {
		return invalid("userId", "is required")
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return invalid("displayName", "is required")
	}
	if p.MaxMentees < 1 {
		return invalid("maxMentees", "must be at least 1")
	}
	if p.Experience.YearsInField < 0 {
		return invalid("experience.yearsInField", "must not be negative")
	}
	return validateAvailability(p.Availability)
}

func validateAvailability(a models.Availability) error {
	if a.HoursPerWeek < 0 {
		return invalid("availability.hoursPerWeek", "must not be negative")
	}
	for _, d := range a.PreferredDays {
		if !weekdays[strings.ToLower(strings.TrimSpace(d))] {
			return invalid("availability.preferredDays", "unknown day %q", d)
		}
	}
	return nil
}

func normalizeAvailability(a models.Availability) models.Availability {
	days := make([]string, 0, len(a.PreferredDays))
	for _, d := range a.PreferredDays {
		days = append(days, strings.ToLower(strings.TrimSpace(d)))
	}
	a.PreferredDays = days
	a.PreferredMeetingTimes = nonNil(a.PreferredMeetingTimes)
	return a
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
