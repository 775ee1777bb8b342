// Package matching scores mentees against mentors and ranks the results.
// Everything here is pure: no I/O, no clocks, inputs are never mutated.
package matching

import (
	"fmt"
	"strings"

	"github.com/secid/mentorship-api/models"
)

// Dimension weights of the compatibility score. They sum to 1.
const (
	SkillsWeight       = 0.40
	AvailabilityWeight = 0.20
	StyleWeight        = 0.15
	LanguageWeight     = 0.10
	ExperienceWeight   = 0.15

	// ratingPivot is the mentor rating that neither helps nor hurts the score
	ratingPivot       = 3.0
	ratingBonusFactor = 0.05

	daysPerWeek = 7

	idealGapMin = 3
	idealGapMax = 10
)

// FallbackReason is used when no dimension contributed to the score
const FallbackReason = "General compatibility based on profile"

// Score computes the compatibility of one mentee with one mentor
func Score(mentee models.MenteeProfile, mentor models.MentorProfile) models.MatchResult {
	var reasons []string

	skills, matched := skillsScore(mentee.Interests, mentor.ExpertiseAreas)
	if len(matched) > 0 {
		reasons = append(reasons, "Skills overlap: "+strings.Join(matched, ", "))
	}

	shared := intersect(mentee.Availability.PreferredDays, mentor.Availability.PreferredDays)
	availability := float64(len(shared)) / daysPerWeek
	switch len(shared) {
	case 0:
	case 1:
		reasons = append(reasons, "1 shared available day")
	default:
		reasons = append(reasons, fmt.Sprintf("%d shared available days", len(shared)))
	}

	prefs := normalizedSet(mentee.PreferredMentorshipStyle)
	styles := intersect(mentee.PreferredMentorshipStyle, mentor.MentorshipStyle)
	style := float64(len(styles)) / float64(max(1, len(prefs)))
	if len(styles) > 0 {
		reasons = append(reasons, "Compatible mentorship style: "+strings.Join(styles, ", "))
	}

	var language float64
	if langs := intersect(mentee.Languages, mentor.Languages); len(langs) > 0 {
		language = 1
		reasons = append(reasons, "Shared language: "+langs[0])
	}

	gap := mentor.Experience.YearsInField - mentee.Background.YearsOfExperience
	experience := experienceScore(gap)
	if experience == 1 {
		reasons = append(reasons, fmt.Sprintf("Has an ideal experience gap (%d years ahead)", gap))
	}

	if len(reasons) == 0 {
		reasons = []string{FallbackReason}
	}

	total := skills*SkillsWeight +
		availability*AvailabilityWeight +
		style*StyleWeight +
		language*LanguageWeight +
		experience*ExperienceWeight
	total += (mentor.Rating - ratingPivot) * ratingBonusFactor

	return models.MatchResult{
		Mentor:  mentor,
		Score:   clamp(total),
		Reasons: reasons,
		Compatibility: models.Compatibility{
			Skills:       skills,
			Availability: availability,
			Style:        style,
			Language:     language,
			Experience:   experience,
		},
	}
}

// skillsScore is the fraction of interests that substring-match an expertise
// area in either direction, ignoring case. It also returns the matched interests.
func skillsScore(interests, expertise []string) (float64, []string) {
	areas := make([]string, 0, len(expertise))
	for _, e := range expertise {
		if e = normalize(e); e != "" {
			areas = append(areas, e)
		}
	}

	var matched []string
	seen := map[string]bool{}
	total := 0
	for _, raw := range interests {
		interest := normalize(raw)
		if interest == "" || seen[interest] {
			continue
		}
		seen[interest] = true
		total++
		for _, area := range areas {
			if strings.Contains(area, interest) || strings.Contains(interest, area) {
				matched = append(matched, strings.TrimSpace(raw))
				break
			}
		}
	}
	return float64(len(matched)) / float64(max(1, total)), matched
}

func experienceScore(gap int) float64 {
	switch {
	case gap >= idealGapMin && gap <= idealGapMax:
		return 1.0
	case gap >= 1:
		return 0.7
	default:
		return 0.3
	}
}

// intersect returns the entries of a that also appear in b, compared
// case-insensitively, in a's order and without duplicates
func intersect(a, b []string) []string {
	other := normalizedSet(b)
	var out []string
	seen := map[string]bool{}
	for _, raw := range a {
		v := normalize(raw)
		if v == "" || seen[v] || !other[v] {
			continue
		}
		seen[v] = true
		out = append(out, strings.TrimSpace(raw))
	}
	return out
}

func normalizedSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v = normalize(v); v != "" {
			set[v] = true
		}
	}
	return set
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
