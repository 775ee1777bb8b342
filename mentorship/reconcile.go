package mentorship

import (
	"context"

	"go.uber.org/zap"

	"github.com/secid/mentorship-api/models"
)

// ReconcileReport counts what a reconciliation pass touched
type ReconcileReport struct {
	Mentors int `json:"mentors"`
	Failed  int `json:"failed"`
	Matches int `json:"matches"`
}

// Reconcile repairs the derived state the event handlers maintain best-effort:
// the match of every accepted request, then each mentor's rating, session
// count and current load, recounted from the source collections.
func (e *Engine) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}

	accepted, err := e.Requests.List(ctx, RequestQuery{Status: models.RequestStatusAccepted})
	if err != nil {
		return nil, err
	}
	for _, req := range accepted {
		if err := e.Matches.EnsureForRequest(ctx, req); err != nil {
			zap.S().Warnw("failed to ensure match for request", "requestId", req.ID.Hex(), "error", err)
			continue
		}
		report.Matches++
	}

	mentors, err := e.Profiles.AllMentors(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range mentors {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, err := e.Feedback.RecomputeRating(ctx, m.UserID); err != nil {
			zap.S().Warnw("failed to reconcile rating", "mentorId", m.UserID, "error", err)
			report.Failed++
			continue
		}
		active, err := e.Matches.CountActiveForMentor(ctx, m.UserID)
		if err == nil && active > int64(m.MaxMentees) {
			zap.S().Warnw("mentor has more active matches than maxMentees", "mentorId", m.UserID, "active", active, "maxMentees", m.MaxMentees)
		}
		if err == nil {
			err = e.Profiles.SetMentorLoad(ctx, m.UserID, active)
		}
		if err != nil {
			zap.S().Warnw("failed to reconcile mentor load", "mentorId", m.UserID, "error", err)
			report.Failed++
			continue
		}
		report.Mentors++
	}
	return report, nil
}
