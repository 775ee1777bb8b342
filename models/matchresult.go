package models

// Compatibility holds the per-dimension scores of a MatchResult, each in [0,1]
type Compatibility struct {
	Skills       float64 `json:"skills"`
	Availability float64 `json:"availability"`
	Style        float64 `json:"style"`
	Language     float64 `json:"language"`
	Experience   float64 `json:"experience"`
}

// MatchResult is a computed, never persisted, compatibility between a mentee and one mentor
type MatchResult struct {
	Mentor        MentorProfile `json:"mentor"`
	Score         float64       `json:"score"`
	Reasons       []string      `json:"reasons"`
	Compatibility Compatibility `json:"compatibility"`
}
