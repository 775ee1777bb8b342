// Package mentorship implements the request → match → session → feedback
// lifecycle and the aggregates derived from it, on top of the document store.
package mentorship

import (
	"context"
	"io"
	"time"

	"github.com/secid/mentorship-api/databases"
)

// Stores are the collections the engine reads and writes
type Stores struct {
	Mentors  databases.MentorProfileDatabase
	Mentees  databases.MenteeProfileDatabase
	Requests databases.RequestDatabase
	Matches  databases.MatchDatabase
	Sessions databases.SessionDatabase
	Feedback databases.FeedbackDatabase
}

// BlobStore stores uploaded files and returns a public URL for them
type BlobStore interface {
	Upload(ctx context.Context, path string, r io.Reader) (string, error)
}

// StatsCache keeps the last computed stats report
type StatsCache interface {
	GetJSON(ctx context.Context, key string, v interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

// Engine bundles the managers and the bus that connects them
type Engine struct {
	Bus      *Bus
	Profiles *ProfileStore
	Requests *RequestManager
	Matches  *MatchManager
	Sessions *SessionManager
	Feedback *FeedbackAggregator
	Stats    *StatsAggregator
	Feed     *RequestFeed
}

type settings struct {
	now      func() time.Time
	blobs    BlobStore
	cache    StatsCache
	cacheTTL time.Duration
}

// Option configures NewEngine
type Option func(*settings)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithBlobStore enables profile image uploads
func WithBlobStore(b BlobStore) Option {
	return func(s *settings) { s.blobs = b }
}

// WithStatsCache serves stats from c for ttl
func WithStatsCache(c StatsCache, ttl time.Duration) Option {
	return func(s *settings) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// NewEngine builds the managers and subscribes them to each other's events
func NewEngine(stores Stores, opts ...Option) *Engine {
	s := settings{now: time.Now, cacheTTL: 5 * time.Minute}
	for _, opt := range opts {
		opt(&s)
	}
	now := func() time.Time { return s.now().UTC() }
	bus := NewBus()

	e := &Engine{
		Bus:      bus,
		Profiles: &ProfileStore{mentors: stores.Mentors, mentees: stores.Mentees, blobs: s.blobs, now: now},
		Requests: &RequestManager{requests: stores.Requests, mentors: stores.Mentors, mentees: stores.Mentees, bus: bus, now: now},
		Matches:  &MatchManager{matches: stores.Matches, bus: bus, now: now},
		Sessions: &SessionManager{sessions: stores.Sessions, matches: stores.Matches, bus: bus, now: now},
		Feedback: &FeedbackAggregator{feedback: stores.Feedback, matches: stores.Matches, mentors: stores.Mentors, bus: bus, now: now},
		Stats: &StatsAggregator{
			mentors: stores.Mentors, mentees: stores.Mentees, matches: stores.Matches, feedback: stores.Feedback,
			cache: s.cache, ttl: s.cacheTTL, now: now,
		},
		Feed: &RequestFeed{requests: stores.Requests},
	}

	bus.Subscribe(EventRequestAccepted, e.Matches.HandleRequestAccepted)
	bus.Subscribe(EventMatchEnded, e.Profiles.HandleMatchEnded)
	bus.Subscribe(EventSessionCompleted, e.Matches.HandleSessionCompleted)
	bus.Subscribe(EventFeedbackSubmitted, e.Feedback.HandleFeedbackSubmitted)
	return e
}
