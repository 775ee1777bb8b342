package models

import "time"

// SkillCount is one entry of the popular skills ranking
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// MentorshipStats is a platform-wide report recomputed from the collections on request.
// ActiveMentees counts distinct mentees in active matches; TotalMentees counts mentee profiles.
type MentorshipStats struct {
	ActiveMentors     int64        `json:"activeMentors"`
	ActiveMentees     int64        `json:"activeMentees"`
	TotalMentees      int64        `json:"totalMentees"`
	ActiveMatches     int64        `json:"activeMatches"`
	CompletedMatches  int64        `json:"completedMatches"`
	CompletedSessions int64        `json:"completedSessions"`
	AverageRating     float64      `json:"averageRating"`
	AverageMatchScore float64      `json:"averageMatchScore"`
	PopularSkills     []SkillCount `json:"popularSkills"`
	SuccessRate       float64      `json:"successRate"`
	GeneratedAt       time.Time    `json:"generatedAt"`
}
