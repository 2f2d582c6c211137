package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/learnhub-api/internal/middleware"
)

func TestWithCorrelationUsesRequestContext(t *testing.T) {
	ctx := middleware.ContextWithCorrelation(context.Background(), "corr-9")

	event := withCorrelation(ctx, Event{Type: EventEnrollmentCreated})
	require.Equal(t, "corr-9", event.CorrelationID)

	explicit := withCorrelation(ctx, Event{Type: EventEnrollmentCreated, CorrelationID: "given"})
	require.Equal(t, "given", explicit.CorrelationID)

	require.Empty(t, withCorrelation(context.Background(), Event{}).CorrelationID)
}

func TestLogEventPublisherWritesCorrelation(t *testing.T) {
	var buf bytes.Buffer
	publisher := NewLogEventPublisher(zerolog.New(&buf))

	ctx := middleware.ContextWithCorrelation(context.Background(), "corr-10")
	require.NoError(t, publisher.Publish(ctx, Event{Type: EventAssignmentGraded, UserID: "u1", CourseID: "c1"}))

	require.Contains(t, buf.String(), `"correlation_id":"corr-10"`)
	require.Contains(t, buf.String(), `"event":"assignment.graded"`)
}
