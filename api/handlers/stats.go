package handlers

import (
	"net/http"
	"strconv"

	"github.com/secid/mentorship-api/api"
	"github.com/secid/mentorship-api/config"
	"github.com/secid/mentorship-api/mentorship"
)

// Stats exported for testing purposes
type Stats struct {
	SA *mentorship.StatsAggregator
}

// StatsHandler returns the platform report, recomputed when ?fresh=true
func (s Stats) StatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	fresh := false
	if v := r.URL.Query().Get("fresh"); v != "" {
		var err error
		if fresh, err = strconv.ParseBool(v); err != nil {
			config.ErrorStatus("invalid fresh flag", http.StatusBadRequest, w, err)
			return
		}
	}

	stats, err := s.SA.Get(ctx, fresh)
	if err != nil {
		engineError("failed to get stats", w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
