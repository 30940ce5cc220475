// Package events carries domain events from services to the notification
// worker. Services publish after their database transaction commits.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
)

const (
	KindTransferCompleted = "fund.transfer.completed"
	KindBillPaid          = "bill.paid"
	KindBillUnpaid        = "bill.unpaid"
	KindOfferingRecorded  = "offering.recorded"
)

// Event is a domain event. Title and Message are ready to show to a user.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	ReferenceID uuid.UUID  `json:"reference_id"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Amount      string     `json:"amount,omitempty"`
	ActorID     *uuid.UUID `json:"actor_id,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

// New stamps an event with a fresh id and the current time.
func New(kind string, referenceID uuid.UUID, title, message string) *Event {
	return &Event{
		ID:          uuid.Must(uuid.NewV4()),
		Kind:        kind,
		ReferenceID: referenceID,
		Title:       title,
		Message:     message,
		OccurredAt:  time.Now().UTC(),
	}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func FromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.Kind == "" {
		return nil, errors.New("event kind is empty")
	}
	return &e, nil
}

type Publisher interface {
	Publish(ctx context.Context, e *Event) error
}

// Handler processes one event. A returned error asks the consumer to
// redeliver when the transport supports it.
type Handler func(ctx context.Context, e *Event) error

type Consumer interface {
	Consume(ctx context.Context, handler Handler) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, *Event) error { return nil }
