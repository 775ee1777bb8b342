package mentorship

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/secid/mentorship-api/databases"
	"github.com/secid/mentorship-api/models"
)

const (
	// StatsCacheKey is where the last stats report is cached
	StatsCacheKey = "mentorship:stats"

	popularSkillsLimit = 10
)

// StatsAggregator computes the platform-wide report from the current collections
type StatsAggregator struct {
	mentors  databases.MentorProfileDatabase
	mentees  databases.MenteeProfileDatabase
	matches  databases.MatchDatabase
	feedback databases.FeedbackDatabase
	cache    StatsCache
	ttl      time.Duration
	now      func() time.Time
}

// Compute scans the collections and builds a fresh report
func (a *StatsAggregator) Compute(ctx context.Context) (*models.MentorshipStats, error) {
	mentors, err := a.mentors.Find(ctx, bson.M{})
	if err != nil {
		return nil, dependency("list mentors", err)
	}
	totalMentees, err := a.mentees.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, dependency("count mentees", err)
	}
	matches, err := a.matches.Find(ctx, bson.M{})
	if err != nil {
		return nil, dependency("list matches", err)
	}
	feedback, err := a.feedback.Find(ctx, bson.M{})
	if err != nil {
		return nil, dependency("list feedback", err)
	}

	stats := &models.MentorshipStats{
		TotalMentees:  totalMentees,
		PopularSkills: popularSkills(mentors),
		GeneratedAt:   a.now(),
	}
	for _, m := range mentors {
		if m.IsActive {
			stats.ActiveMentors++
		}
	}

	activeMentees := map[string]bool{}
	scoreSum := 0.0
	for _, m := range matches {
		switch m.Status {
		case models.MatchStatusActive:
			stats.ActiveMatches++
			scoreSum += m.MatchScore
			activeMentees[m.MenteeID] = true
		case models.MatchStatusCompleted:
			stats.CompletedMatches++
		}
	}
	stats.ActiveMentees = int64(len(activeMentees))
	if stats.ActiveMatches > 0 {
		stats.AverageMatchScore = scoreSum / float64(stats.ActiveMatches)
	}
	if ended := stats.CompletedMatches + stats.ActiveMatches; ended > 0 {
		stats.SuccessRate = float64(stats.CompletedMatches) / float64(ended)
	}

	ratingSum := 0
	for _, fb := range feedback {
		ratingSum += fb.Rating
		if fb.Type == models.FeedbackTypeSession {
			stats.CompletedSessions++
		}
	}
	if len(feedback) > 0 {
		stats.AverageRating = float64(ratingSum) / float64(len(feedback))
	}
	return stats, nil
}

// Get serves the cached report unless fresh is set or the cache has none
func (a *StatsAggregator) Get(ctx context.Context, fresh bool) (*models.MentorshipStats, error) {
	if a.cache != nil && !fresh {
		var cached models.MentorshipStats
		if err := a.cache.GetJSON(ctx, StatsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}
	return a.Refresh(ctx)
}

// Refresh computes the report and stores it in the cache
func (a *StatsAggregator) Refresh(ctx context.Context) (*models.MentorshipStats, error) {
	stats, err := a.Compute(ctx)
	if err != nil {
		return nil, err
	}
	if a.cache != nil {
		if err := a.cache.SetJSON(ctx, StatsCacheKey, stats, a.ttl); err != nil {
			zap.S().Warnw("failed to cache stats", "error", err)
		}
	}
	return stats, nil
}

// popularSkills ranks expertise areas by how many mentor profiles list them.
// Areas are compared case-insensitively and shown as first seen.
func popularSkills(mentors []models.MentorProfile) []models.SkillCount {
	counts := map[string]*models.SkillCount{}
	for _, m := range mentors {
		seen := map[string]bool{}
		for _, area := range m.ExpertiseAreas {
			key := strings.ToLower(strings.TrimSpace(area))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			if c, ok := counts[key]; ok {
				c.Count++
				continue
			}
			counts[key] = &models.SkillCount{Skill: strings.TrimSpace(area), Count: 1}
		}
	}

	out := make([]models.SkillCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.ToLower(out[i].Skill) < strings.ToLower(out[j].Skill)
	})
	if len(out) > popularSkillsLimit {
		out = out[:popularSkillsLimit]
	}
	return out
}
