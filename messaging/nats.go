// Package messaging forwards domain events to NATS so other services can follow the mentorship lifecycle.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/secid/mentorship-api/mentorship"
)

// SubjectPrefix is prepended to the event type to form the subject
const SubjectPrefix = "mentorship."

// Conn is the part of *nats.Conn the publisher uses
type Conn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

// Envelope is the message body written for every event
type Envelope struct {
	ID         string               `json:"id"`
	Type       mentorship.EventType `json:"type"`
	OccurredAt time.Time            `json:"occurredAt"`
	Payload    mentorship.Event     `json:"payload"`
}

// Publisher writes events to NATS. A publisher without a connection drops events.
type Publisher struct {
	conn Conn
	now  func() time.Time
}

// Connect dials the servers in url. An empty url returns a disabled publisher.
func Connect(url, name string) (*Publisher, error) {
	if url == "" {
		zap.S().Infow("nats disabled, domain events stay in process")
		return &Publisher{now: time.Now}, nil
	}
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(500*time.Millisecond),
		nats.Timeout(3*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{conn: nc, now: time.Now}, nil
}

// NewPublisher wraps an existing connection
func NewPublisher(conn Conn) *Publisher {
	return &Publisher{conn: conn, now: time.Now}
}

// Enabled reports whether events leave the process
func (p *Publisher) Enabled() bool {
	return p.conn != nil
}

// Forward publishes e. It has the shape of a bus handler.
func (p *Publisher) Forward(ctx context.Context, e mentorship.Event) error {
	if p.conn == nil {
		return nil
	}
	data, err := json.Marshal(Envelope{
		ID:         uuid.NewString(),
		Type:       e.Type(),
		OccurredAt: p.now().UTC(),
		Payload:    e,
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Type(), err)
	}
	return p.conn.Publish(Subject(e.Type()), data)
}

// Close drains the connection
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

// Subject returns the subject events of type t are published on
func Subject(t mentorship.EventType) string {
	return SubjectPrefix + string(t)
}
