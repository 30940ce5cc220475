// Package worker consumes domain events outside the request path.
package worker

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/events"
)

type deliverer interface {
	Deliver(ctx context.Context, e *events.Event) (int, error)
}

// NotificationWorker turns events into admin notifications.
type NotificationWorker struct {
	notifications deliverer
	log           logrus.FieldLogger
}

func NewNotificationWorker(notifications deliverer, log logrus.FieldLogger) *NotificationWorker {
	return &NotificationWorker{notifications: notifications, log: log}
}

func (w *NotificationWorker) Handle(ctx context.Context, e *events.Event) error {
	fields := logrus.Fields{
		"eventID":     e.ID.String(),
		"kind":        e.Kind,
		"referenceID": e.ReferenceID.String(),
	}
	count, err := w.notifications.Deliver(ctx, e)
	if err != nil {
		w.log.WithError(err).WithFields(fields).Error("NotificationWorker.Handle.deliver failed")
		return err
	}
	w.log.WithFields(fields).WithField("recipients", count).Info("NotificationWorker.Handle.delivered")
	return nil
}

// Run consumes until ctx ends. A cancelled context is a clean stop.
func (w *NotificationWorker) Run(ctx context.Context, consumer events.Consumer) error {
	w.log.Info("NotificationWorker.Run.started")
	err := consumer.Consume(ctx, w.Handle)
	if err == nil || errors.Is(err, context.Canceled) {
		w.log.Info("NotificationWorker.Run.stopped")
		return nil
	}
	return err
}
