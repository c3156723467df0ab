package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topiklearn/srs-api/internal/domain"
)

type recordingHandler struct {
	received []*Event
	err      error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.received = append(h.received, event)
	return h.err
}

func TestNewReviewRecorded(t *testing.T) {
	t.Parallel()

	review := domain.ReviewEvent{
		VocabID:   uuid.New(),
		Grade:     domain.GradePerfect,
		Timestamp: time.Now().UTC(),
	}

	event := NewReviewRecorded(review)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeReviewRecorded, event.Type)
	assert.False(t, event.CreatedAt.IsZero())
	require.NotNil(t, event.Review)
	assert.Equal(t, review, *event.Review)
}

func TestEmitEvent_DeliversToAllHandlers(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEmitter(nil)
	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event := NewReviewRecorded(domain.ReviewEvent{VocabID: uuid.New(), Grade: domain.GradePerfect})
	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	require.Len(t, first.received, 1)
	require.Len(t, second.received, 1)
	assert.Same(t, event, first.received[0])
	assert.Same(t, event, second.received[0])
}

func TestEmitEvent_SwallowsHandlerErrors(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEmitter(nil)
	failing := &recordingHandler{err: errors.New("aggregator unavailable")}
	after := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(after)

	event := NewReviewRecorded(domain.ReviewEvent{VocabID: uuid.New(), Grade: domain.GradeIncorrect})
	err := emitter.EmitEvent(context.Background(), event)

	assert.NoError(t, err, "a failing handler must not fail the emit")
	assert.Len(t, after.received, 1, "later handlers still see the event")
}

func TestEmitEvent_NoHandlers(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEmitter(nil)
	event := NewReviewRecorded(domain.ReviewEvent{VocabID: uuid.New(), Grade: domain.GradePerfect})

	assert.NoError(t, emitter.EmitEvent(context.Background(), event))
}
