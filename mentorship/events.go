package mentorship

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/secid/mentorship-api/models"
)

// EventType names a domain event. It doubles as the subject suffix when events are forwarded.
type EventType string

// Domain events raised by the lifecycle managers
const (
	EventRequestCreated    EventType = "request.created"
	EventRequestAccepted   EventType = "request.accepted"
	EventRequestRejected   EventType = "request.rejected"
	EventMatchCreated      EventType = "match.created"
	EventMatchEnded        EventType = "match.ended"
	EventSessionScheduled  EventType = "session.scheduled"
	EventSessionCompleted  EventType = "session.completed"
	EventFeedbackSubmitted EventType = "feedback.submitted"
)

// Event is a fact that already happened in the document store
type Event interface {
	Type() EventType
}

// RequestCreated is raised after a mentee files a request
type RequestCreated struct {
	Request models.MentorshipRequest `json:"request"`
}

// RequestAccepted is raised after the pending → accepted transition has been written.
// Its handler materializes the match.
type RequestAccepted struct {
	Request models.MentorshipRequest `json:"request"`
}

// RequestRejected is raised after the pending → rejected transition has been written
type RequestRejected struct {
	Request models.MentorshipRequest `json:"request"`
}

// MatchCreated is raised once per accepted request, when its match is inserted
type MatchCreated struct {
	Match models.MentorshipMatch `json:"match"`
}

// MatchEnded is raised when an active match is completed or cancelled
type MatchEnded struct {
	Match models.MentorshipMatch `json:"match"`
}

// SessionScheduled is raised after a session is created
type SessionScheduled struct {
	Session models.MentorshipSession `json:"session"`
}

// SessionCompleted is raised after a session moves to completed
type SessionCompleted struct {
	Session models.MentorshipSession `json:"session"`
}

// FeedbackSubmitted is raised after a feedback entry is appended
type FeedbackSubmitted struct {
	Feedback models.MentorshipFeedback `json:"feedback"`
}

func (RequestCreated) Type() EventType    { return EventRequestCreated }
func (RequestAccepted) Type() EventType   { return EventRequestAccepted }
func (RequestRejected) Type() EventType   { return EventRequestRejected }
func (MatchCreated) Type() EventType      { return EventMatchCreated }
func (MatchEnded) Type() EventType        { return EventMatchEnded }
func (SessionScheduled) Type() EventType  { return EventSessionScheduled }
func (SessionCompleted) Type() EventType  { return EventSessionCompleted }
func (FeedbackSubmitted) Type() EventType { return EventFeedbackSubmitted }

// Handler reacts to an event
type Handler func(ctx context.Context, e Event) error

// Bus dispatches events synchronously in the publisher's goroutine.
// Typed handlers run in subscription order and the first error is returned to
// the publisher. Observers registered with SubscribeAll run afterwards and
// their errors are only logged.
type Bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]Handler
	observers []Handler
}

// NewBus returns an empty bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers h for one event type
func (b *Bus) Subscribe(t EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// SubscribeAll registers a best-effort observer of every event
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, h)
}

// Publish runs the handlers of e
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[e.Type()]...)
	observers := append([]Handler(nil), b.observers...)
	b.mu.RUnlock()

	var firstErr error
	for _, h := range handlers {
		if err := h(ctx, e); err != nil {
			firstErr = err
			break
		}
	}
	for _, h := range observers {
		if err := h(ctx, e); err != nil {
			zap.S().Warnw("event observer failed", "event", e.Type(), "error", err)
		}
	}
	return firstErr
}
