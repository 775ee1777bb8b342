package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/secid/mentorship-api/models"
)

func mentee() models.MenteeProfile {
	return models.MenteeProfile{
		UserID:    "mentee-1",
		Interests: []string{"python", "sql"},
		Background: models.Background{
			YearsOfExperience: 2,
		},
		Availability: models.Availability{
			PreferredDays: []string{"monday", "wednesday", "friday"},
		},
		PreferredMentorshipStyle: []string{"hands-on", "structured"},
		Languages:                []string{"English"},
	}
}

func mentor() models.MentorProfile {
	return models.MentorProfile{
		UserID:         "mentor-1",
		ExpertiseAreas: []string{"Python Programming", "SQL"},
		Experience:     models.Experience{YearsInField: 10},
		Availability: models.Availability{
			PreferredDays: []string{"monday", "friday"},
		},
		MentorshipStyle: []string{"structured"},
		Languages:       []string{"english", "spanish"},
		MaxMentees:      3,
		Rating:          3,
		IsActive:        true,
	}
}

func TestScoreSkillsSubstringMatch(t *testing.T) {
	res := Score(mentee(), mentor())

	assert.Equal(t, 1.0, res.Compatibility.Skills)
	assert.Equal(t, "Skills overlap: python, sql", res.Reasons[0])
}

func TestScoreIdealExperienceGap(t *testing.T) {
	res := Score(mentee(), mentor())

	assert.Equal(t, 1.0, res.Compatibility.Experience)
	assert.Contains(t, res.Reasons, "Has an ideal experience gap (8 years ahead)")
}

func TestScoreDimensions(t *testing.T) {
	res := Score(mentee(), mentor())

	assert.InDelta(t, 2.0/7.0, res.Compatibility.Availability, 1e-9)
	assert.InDelta(t, 0.5, res.Compatibility.Style, 1e-9)
	assert.Equal(t, 1.0, res.Compatibility.Language)

	want := 0.40 + 0.20*2.0/7.0 + 0.15*0.5 + 0.10 + 0.15
	assert.InDelta(t, want, res.Score, 1e-9)
	assert.Equal(t, []string{
		"Skills overlap: python, sql",
		"2 shared available days",
		"Compatible mentorship style: structured",
		"Shared language: English",
		"Has an ideal experience gap (8 years ahead)",
	}, res.Reasons)
}

func TestScoreExperienceBands(t *testing.T) {
	tests := []struct {
		name  string
		gap   int
		score float64
	}{
		{"lower ideal bound", 3, 1.0},
		{"upper ideal bound", 10, 1.0},
		{"small gap", 1, 0.7},
		{"large gap", 15, 0.7},
		{"no gap", 0, 0.3},
		{"mentee ahead", -4, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			me := mentee()
			me.Background.YearsOfExperience = 5
			mo := mentor()
			mo.Experience.YearsInField = 5 + tt.gap

			assert.Equal(t, tt.score, Score(me, mo).Compatibility.Experience)
		})
	}
}

func TestScoreEmptyInterests(t *testing.T) {
	me := mentee()
	me.Interests = nil

	res := Score(me, mentor())
	assert.Equal(t, 0.0, res.Compatibility.Skills)
}

func TestScoreIsClamped(t *testing.T) {
	tests := []struct {
		name   string
		mentee models.MenteeProfile
		mentor models.MentorProfile
		want   float64
	}{
		{
			name:   "unrated mentor with nothing in common",
			mentee: models.MenteeProfile{Background: models.Background{YearsOfExperience: 9}},
			mentor: models.MentorProfile{Rating: 0},
			want:   0,
		},
		{
			name: "perfect match with top rating",
			mentee: func() models.MenteeProfile {
				m := mentee()
				m.Availability.PreferredDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
				m.PreferredMentorshipStyle = []string{"structured"}
				return m
			}(),
			mentor: func() models.MentorProfile {
				m := mentor()
				m.Availability.PreferredDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
				m.Rating = 5
				return m
			}(),
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(tt.mentee, tt.mentor)
			assert.Equal(t, tt.want, res.Score)
			assert.GreaterOrEqual(t, res.Score, 0.0)
			assert.LessOrEqual(t, res.Score, 1.0)
		})
	}
}

func TestScoreFallbackReason(t *testing.T) {
	res := Score(models.MenteeProfile{}, models.MentorProfile{Rating: 4})

	assert.Equal(t, []string{FallbackReason}, res.Reasons)
}

func TestScoreIsDeterministicAndPure(t *testing.T) {
	me, mo := mentee(), mentor()
	first := Score(me, mo)
	second := Score(me, mo)

	assert.Equal(t, first, second)
	assert.Equal(t, mentee(), me)
	assert.Equal(t, mentor(), mo)
}
