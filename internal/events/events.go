// Package events carries review signals from the scheduling path to the
// stats aggregator without a direct dependency between the two.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/topiklearn/srs-api/internal/domain"
)

// Event types
const (
	TypeReviewRecorded = "review.recorded"
)

// Event is one signal on the learner-activity stream.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`

	Review *domain.ReviewEvent `json:"review,omitempty"`
}

// NewReviewRecorded creates a review event signal.
func NewReviewRecorded(review domain.ReviewEvent) *Event {
	return &Event{
		ID:        uuid.New(),
		Type:      TypeReviewRecorded,
		CreatedAt: time.Now().UTC(),
		Review:    &review,
	}
}

// Handler processes events from the stream.
type Handler interface {
	// HandleEvent processes one event. Errors are reported to the emitter
	// for logging; they never propagate back to the producing operation.
	HandleEvent(ctx context.Context, event *Event) error
}

// Emitter publishes events to registered handlers.
type Emitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}
