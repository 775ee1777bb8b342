package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileKind tags which side of a mentorship a profile belongs to
type ProfileKind string

const (
	// ProfileKindMentor is a mentor profile
	ProfileKindMentor ProfileKind = "mentor"
	// ProfileKindMentee is a mentee profile
	ProfileKindMentee ProfileKind = "mentee"
)

// Profile is implemented by MentorProfile and MenteeProfile only
type Profile interface {
	Kind() ProfileKind
	Identity() string
}

// Availability is shared by mentor and mentee profiles
type Availability struct {
	HoursPerWeek          int      `json:"hoursPerWeek" bson:"hoursPerWeek"`
	PreferredDays         []string `json:"preferredDays" bson:"preferredDays"`                 // "monday" ... "sunday"
	PreferredMeetingTimes []string `json:"preferredMeetingTimes" bson:"preferredMeetingTimes"` // "morning", "afternoon", "evening"
	Timezone              string   `json:"timezone" bson:"timezone"`
}

// Experience holds the professional history of a mentor
type Experience struct {
	CurrentPosition string   `json:"currentPosition" bson:"currentPosition"`
	CurrentCompany  string   `json:"currentCompany" bson:"currentCompany"`
	YearsInField    int      `json:"yearsInField" bson:"yearsInField"`
	PreviousRoles   []string `json:"previousRoles" bson:"previousRoles"`
}

// Background holds the professional level of a mentee
type Background struct {
	YearsOfExperience int    `json:"yearsOfExperience" bson:"yearsOfExperience"`
	CurrentLevel      string `json:"currentLevel" bson:"currentLevel"` // "student", "junior", "mid", "senior"
}

// MentorProfile holds the structure for the mentorProfiles collection in mongo.
// CurrentMentees, Rating, TotalSessions and FeedbackCount are derived and only
// written by the aggregation flows, never by the profile owner.
type MentorProfile struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID          string             `json:"userId" bson:"userId"`
	DisplayName     string             `json:"displayName" bson:"displayName"`
	Bio             string             `json:"bio" bson:"bio"`
	ProfileImage    string             `json:"profileImage" bson:"profileImage"`
	ExpertiseAreas  []string           `json:"expertiseAreas" bson:"expertiseAreas"`
	Skills          []string           `json:"skills" bson:"skills"`
	Experience      Experience         `json:"experience" bson:"experience"`
	Availability    Availability       `json:"availability" bson:"availability"`
	MentorshipStyle []string           `json:"mentorshipStyle" bson:"mentorshipStyle"`
	Languages       []string           `json:"languages" bson:"languages"`
	MaxMentees      int                `json:"maxMentees" bson:"maxMentees"`
	CurrentMentees  int                `json:"currentMentees" bson:"currentMentees"`
	Rating          float64            `json:"rating" bson:"rating"`
	TotalSessions   int                `json:"totalSessions" bson:"totalSessions"`
	FeedbackCount   int                `json:"feedbackCount" bson:"feedbackCount"`
	IsActive        bool               `json:"isActive" bson:"isActive"`
	CreatedAt       primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt       primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// Kind implements Profile
func (m MentorProfile) Kind() ProfileKind { return ProfileKindMentor }

// Identity implements Profile
func (m MentorProfile) Identity() string { return m.UserID }

// HasCapacity reports whether the mentor belongs in a matching candidate pool
func (m MentorProfile) HasCapacity() bool {
	return m.IsActive && m.CurrentMentees < m.MaxMentees
}

// MenteeProfile holds the structure for the menteeProfiles collection in mongo
type MenteeProfile struct {
	ID                       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID                   string             `json:"userId" bson:"userId"`
	DisplayName              string             `json:"displayName" bson:"displayName"`
	Bio                      string             `json:"bio" bson:"bio"`
	ProfileImage             string             `json:"profileImage" bson:"profileImage"`
	Goals                    []string           `json:"goals" bson:"goals"`
	Interests                []string           `json:"interests" bson:"interests"`
	Background               Background         `json:"background" bson:"background"`
	Availability             Availability       `json:"availability" bson:"availability"`
	PreferredMentorshipStyle []string           `json:"preferredMentorshipStyle" bson:"preferredMentorshipStyle"`
	Languages                []string           `json:"languages" bson:"languages"`
	CreatedAt                primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt                primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// Kind implements Profile
func (m MenteeProfile) Kind() ProfileKind { return ProfileKindMentee }

// Identity implements Profile
func (m MenteeProfile) Identity() string { return m.UserID }
