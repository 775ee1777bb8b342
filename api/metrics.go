package api

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/secid/mentorship-api/mentorship"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorship_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mentorship_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	domainEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorship_events_total",
			Help: "Domain events published on the mentorship bus",
		},
		[]string{"type"},
	)
)

// RecordEvent counts a published domain event. It is subscribed to every
// event type of the bus.
func RecordEvent(ctx context.Context, e mentorship.Event) error {
	domainEvents.WithLabelValues(string(e.Type())).Inc()
	return nil
}

var (
	objectIDSegment = regexp.MustCompile(`/[0-9a-fA-F]{24}(/|$)`)
	uuidSegment     = regexp.MustCompile(`/[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}(/|$)`)
	numericSegment  = regexp.MustCompile(`/\d+(/|$)`)
)

// routeLabel is the route template the request matched, so ids do not
// explode the label cardinality. Unmatched paths are normalized instead.
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return normalizeRoutePath(r.URL.Path)
}

// normalizeRoutePath replaces dynamic segments with placeholders
// Examples:
//   - /api/v1/matches/507f1f77bcf86cd799439011/sessions -> /api/v1/matches/{id}/sessions
//   - /api/v1/sessions/507f1f77bcf86cd799439011/homework/2 -> /api/v1/sessions/{id}/homework/{id}
func normalizeRoutePath(path string) string {
	for _, re := range []*regexp.Regexp{objectIDSegment, uuidSegment, numericSegment} {
		// matches can share a slash, so run until nothing changes
		for {
			next := re.ReplaceAllString(path, "/{id}$1")
			if next == path {
				break
			}
			path = next
		}
	}
	path = strings.ReplaceAll(path, "//", "/")
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}
