package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/learnhub-api/internal/middleware"
)

// Event names published on enrollment lifecycle changes.
const (
	EventEnrollmentCreated = "enrollment.created"
	EventEnrollmentDeleted = "enrollment.deleted"
	EventAssignmentGraded  = "assignment.graded"
)

// Event is the payload broadcast to downstream consumers.
type Event struct {
	Type          string                 `json:"type"`
	UserID        string                 `json:"userId"`
	CourseID      string                 `json:"courseId"`
	OccurredAt    time.Time              `json:"occurredAt"`
	CorrelationID string                 `json:"correlationId,omitempty"`
	Data          map[string]interface{} `json:"data,omitempty"`
}

// EventPublisher broadcasts domain events. Failures never abort the originating operation.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// withCorrelation fills the event correlation identifier from the request context.
func withCorrelation(ctx context.Context, event Event) Event {
	if event.CorrelationID == "" {
		event.CorrelationID = middleware.CorrelationIDFromContext(ctx)
	}
	return event
}

// NATSEventPublisher publishes events as JSON on "<subject>.<event type>". The
// correlation identifier is also sent as a message header.
type NATSEventPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSEventPublisher constructs a publisher bound to a NATS connection.
func NewNATSEventPublisher(conn *nats.Conn, subject string) *NATSEventPublisher {
	return &NATSEventPublisher{conn: conn, subject: subject}
}

func (p *NATSEventPublisher) Publish(ctx context.Context, event Event) error {
	event = withCorrelation(ctx, event)
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := nats.NewMsg(p.subject + "." + event.Type)
	msg.Data = payload
	if event.CorrelationID != "" {
		msg.Header.Set(middleware.CorrelationHeader, event.CorrelationID)
	}
	return p.conn.PublishMsg(msg)
}

// LogEventPublisher records events in the service log when no broker is configured.
type LogEventPublisher struct {
	logger zerolog.Logger
}

// NewLogEventPublisher constructs a logging publisher.
func NewLogEventPublisher(logger zerolog.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logger.With().Str("component", "event_publisher").Logger()}
}

func (p *LogEventPublisher) Publish(ctx context.Context, event Event) error {
	event = withCorrelation(ctx, event)
	p.logger.Debug().
		Str("correlation_id", event.CorrelationID).
		Str("event", event.Type).
		Str("user_id", event.UserID).
		Str("course_id", event.CourseID).
		Msg("event recorded")
	return nil
}
