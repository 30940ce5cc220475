package events

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// ErrChannelFull is returned when the in-process buffer cannot take another
// event.
var ErrChannelFull = errors.New("events: channel full")

// Channel is an in-process Publisher and Consumer used when no broker is
// configured. Publish never blocks.
type Channel struct {
	events chan *Event
}

func NewChannel(size int) *Channel {
	if size < 1 {
		size = 1
	}
	return &Channel{events: make(chan *Event, size)}
}

func (c *Channel) Publish(_ context.Context, e *Event) error {
	select {
	case c.events <- e:
		return nil
	default:
		return ErrChannelFull
	}
}

// Consume runs handler for each event until ctx ends. Handler errors are
// logged and the event is dropped.
func (c *Channel) Consume(ctx context.Context, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-c.events:
			if err := handler(ctx, e); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"eventID": e.ID.String(),
					"kind":    e.Kind,
				}).Error("events.Channel.Consume.handler failed")
			}
		}
	}
}
