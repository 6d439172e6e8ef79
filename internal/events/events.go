package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChangeType names the kind of write that produced a ChangeEvent.
type ChangeType string

// Possible change types
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports that an answer sheet was written to storage.
type ChangeEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is the kind of write
	Type ChangeType `json:"type"`

	// SheetID identifies the written sheet
	SheetID int64 `json:"sheet_id"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewChangeEvent creates a ChangeEvent for the given write.
func NewChangeEvent(changeType ChangeType, sheetID int64) *ChangeEvent {
	return &ChangeEvent{
		ID:        uuid.New(),
		Type:      changeType,
		SheetID:   sheetID,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ChangeEvent) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *ChangeEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *ChangeEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows the repository to publish writes without knowing who reacts to them.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *ChangeEvent) error

	// RegisterHandler adds a handler that receives every later event.
	RegisterHandler(handler EventHandler)
}
