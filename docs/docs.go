// Package docs Mentorship API.
//
// Documentation of the Mentorship API: mentor discovery, requests, matches,
// sessions and feedback.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - bearer
//
//    SecurityDefinitions:
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/secid/mentorship-api/api/handlers"
	"github.com/secid/mentorship-api/mentorship"
	"github.com/secid/mentorship-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// Returned with every 4xx and 5xx status.
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorMessageResponse
}

// swagger:route GET /api/v1/mentors mentors activeMentors
// Lists active mentors with free capacity.
// responses:
//   200: mentorsResponse
//   502: errorResponse

// swagger:response mentorsResponse
type mentorsResponseWrapper struct {
	// in:body
	Body []models.MentorProfile
}

// swagger:route GET /api/v1/mentors/{user_id} mentors mentorByUserID
// Gets the mentor profile of a user.
// responses:
//   200: mentorResponse
//   404: errorResponse

// swagger:route PUT /api/v1/mentors/{user_id} mentors saveMentor
// Creates or replaces the caller's mentor profile.
// responses:
//   200: mentorResponse
//   400: errorResponse
//   403: errorResponse

// swagger:response mentorResponse
type mentorResponseWrapper struct {
	// in:body
	Body models.MentorProfile
}

// swagger:route GET /api/v1/mentees/{user_id} mentees menteeByUserID
// Gets the mentee profile of a user.
// responses:
//   200: menteeResponse
//   404: errorResponse

// swagger:response menteeResponse
type menteeResponseWrapper struct {
	// in:body
	Body models.MenteeProfile
}

// swagger:route GET /api/v1/matches/suggestions matches matchSuggestions
// Ranks active mentors for the calling mentee. Accepts filter and sortBy query parameters.
// responses:
//   200: suggestionsResponse
//   400: errorResponse
//   404: errorResponse

// swagger:response suggestionsResponse
type suggestionsResponseWrapper struct {
	// in:body
	Body []models.MatchResult
}

// swagger:route POST /api/v1/requests requests createRequest
// Files a mentorship request from the caller.
// responses:
//   201: requestResponse
//   400: errorResponse
//   409: errorResponse

// swagger:parameters createRequest
type createRequestParams struct {
	// in:body
	Body mentorship.RequestInput
}

// swagger:route POST /api/v1/requests/{request_id}/respond requests respondRequest
// Accepts or rejects a pending request. Accepting creates the match.
// responses:
//   200: requestResponse
//   403: errorResponse
//   409: errorResponse

// swagger:parameters respondRequest
type respondRequestParams struct {
	// in:body
	Body handlers.RespondBody
}

// swagger:response requestResponse
type requestResponseWrapper struct {
	// in:body
	Body models.MentorshipRequest
}

// swagger:route GET /api/v1/matches/{match_id} matches matchByID
// Gets a match for one of its participants.
// responses:
//   200: matchResponse
//   403: errorResponse
//   404: errorResponse

// swagger:route PUT /api/v1/matches/{match_id}/status matches updateMatchStatus
// Completes or cancels an active match.
// responses:
//   200: matchResponse
//   400: errorResponse
//   409: errorResponse

// swagger:response matchResponse
type matchResponseWrapper struct {
	// in:body
	Body models.MentorshipMatch
}

// swagger:route POST /api/v1/matches/{match_id}/sessions sessions createSession
// Schedules a session under an active match.
// responses:
//   201: sessionResponse
//   400: errorResponse
//   409: errorResponse

// swagger:parameters createSession
type createSessionParams struct {
	// in:body
	Body mentorship.SessionInput
}

// swagger:response sessionResponse
type sessionResponseWrapper struct {
	// in:body
	Body models.MentorshipSession
}

// swagger:route POST /api/v1/feedback feedback createFeedback
// Records a 1 to 5 rating from the caller.
// responses:
//   201: feedbackResponse
//   400: errorResponse

// swagger:response feedbackResponse
type feedbackResponseWrapper struct {
	// in:body
	Body models.MentorshipFeedback
}

// swagger:route GET /api/v1/stats stats platformStats
// Platform-wide mentorship report. fresh=true skips the cache.
// responses:
//   200: statsResponse

// swagger:response statsResponse
type statsResponseWrapper struct {
	// in:body
	Body models.MentorshipStats
}
