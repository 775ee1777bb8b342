package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/secid/mentorship-api/models"
)

// SortBy selects the ranking key of FindMatches. All keys sort descending.
type SortBy string

const (
	// SortByScore ranks by compatibility score
	SortByScore SortBy = "score"
	// SortByRating ranks by mentor rating
	SortByRating SortBy = "rating"
	// SortByExperience ranks by mentor years in field
	SortByExperience SortBy = "experience"
)

// ParseSortBy maps a query value to a SortBy, defaulting to SortByScore
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByScore:
		return SortByScore, nil
	case SortByRating:
		return SortByRating, nil
	case SortByExperience:
		return SortByExperience, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Experience brackets accepted by Filters.Experience. An unescaped "10+" in
// a query string arrives as "10", so the senior bracket also answers to
// "10" and "10-plus".
const (
	BracketEntry  = "0-2"
	BracketJunior = "3-5"
	BracketMid    = "6-10"
	BracketSenior = "10+"
)

// Filters narrow a ranked list. Zero values disable a filter.
type Filters struct {
	MinRating  float64  `mapstructure:"minRating"`
	Expertise  []string `mapstructure:"expertise"`
	Styles     []string `mapstructure:"style"`
	Languages  []string `mapstructure:"language"`
	MinHours   int      `mapstructure:"minHours"`
	Days       []string `mapstructure:"days"`
	Experience string   `mapstructure:"experience"`
}

// Validate rejects filter values that can never match
func (f Filters) Validate() error {
	if f.MinRating < 0 || f.MinRating > 5 {
		return fmt.Errorf("minRating must be between 0 and 5")
	}
	if f.MinHours < 0 {
		return fmt.Errorf("minHours must not be negative")
	}
	if _, ok := bracket(f.Experience); !ok && strings.TrimSpace(f.Experience) != "" {
		return fmt.Errorf("unknown experience bracket %q", f.Experience)
	}
	return nil
}

// Predicate reports whether a result survives a filter
type Predicate func(models.MatchResult) bool

type yearsRange struct{ min, max int }

var brackets = map[string]yearsRange{
	BracketEntry:  {0, 2},
	BracketJunior: {3, 5},
	BracketMid:    {6, 10},
	BracketSenior: {11, int(^uint(0) >> 1)},
}

var bracketAliases = map[string]string{
	"10":      BracketSenior,
	"10-plus": BracketSenior,
}

func bracket(name string) (yearsRange, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := bracketAliases[name]; ok {
		name = alias
	}
	rng, ok := brackets[name]
	return rng, ok
}

// Predicates returns one predicate per enabled filter
func (f Filters) Predicates() []Predicate {
	var ps []Predicate
	if f.MinRating > 0 {
		minRating := f.MinRating
		ps = append(ps, func(r models.MatchResult) bool { return r.Mentor.Rating >= minRating })
	}
	if len(f.Expertise) > 0 {
		want := f.Expertise
		ps = append(ps, func(r models.MatchResult) bool { return len(intersect(r.Mentor.ExpertiseAreas, want)) > 0 })
	}
	if len(f.Styles) > 0 {
		want := f.Styles
		ps = append(ps, func(r models.MatchResult) bool { return len(intersect(r.Mentor.MentorshipStyle, want)) > 0 })
	}
	if len(f.Languages) > 0 {
		want := f.Languages
		ps = append(ps, func(r models.MatchResult) bool { return len(intersect(r.Mentor.Languages, want)) > 0 })
	}
	if f.MinHours > 0 {
		minHours := f.MinHours
		ps = append(ps, func(r models.MatchResult) bool { return r.Mentor.Availability.HoursPerWeek >= minHours })
	}
	if len(f.Days) > 0 {
		want := f.Days
		ps = append(ps, func(r models.MatchResult) bool {
			return len(intersect(r.Mentor.Availability.PreferredDays, want)) > 0
		})
	}
	if rng, ok := bracket(f.Experience); ok {
		ps = append(ps, func(r models.MatchResult) bool {
			years := r.Mentor.Experience.YearsInField
			return years >= rng.min && years <= rng.max
		})
	}
	return ps
}

// Eligible keeps the mentors that belong in a candidate pool: active and below capacity
func Eligible(pool []models.MentorProfile) []models.MentorProfile {
	out := make([]models.MentorProfile, 0, len(pool))
	for _, m := range pool {
		if m.HasCapacity() {
			out = append(out, m)
		}
	}
	return out
}

// FindMatches scores every mentor of the pool against the mentee, drops the
// results rejected by filters and ranks the rest by sortBy. Ties keep pool order.
func FindMatches(mentee models.MenteeProfile, pool []models.MentorProfile, filters Filters, sortBy SortBy) []models.MatchResult {
	predicates := filters.Predicates()
	results := make([]models.MatchResult, 0, len(pool))

next:
	for _, mentor := range pool {
		r := Score(mentee, mentor)
		for _, keep := range predicates {
			if !keep(r) {
				continue next
			}
		}
		results = append(results, r)
	}

	key := sortKey(sortBy)
	sort.SliceStable(results, func(i, j int) bool {
		return key(results[i]) > key(results[j])
	})
	return results
}

func sortKey(sortBy SortBy) func(models.MatchResult) float64 {
	switch sortBy {
	case SortByRating:
		return func(r models.MatchResult) float64 { return r.Mentor.Rating }
	case SortByExperience:
		return func(r models.MatchResult) float64 { return float64(r.Mentor.Experience.YearsInField) }
	default:
		return func(r models.MatchResult) float64 { return r.Score }
	}
}
