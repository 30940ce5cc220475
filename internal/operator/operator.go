package operator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/apperr"
	"github.com/carson-networks/church-finance/internal/logging"
	"github.com/carson-networks/church-finance/internal/operator/actions"
	"github.com/carson-networks/church-finance/internal/storage"
)

// Operator is the worker that processes items from the queue. Each item runs
// inside its own database transaction: a failed Perform rolls back every
// write the action made.
type Operator struct {
	storage *storage.Storage
	queue   chan ActionItem
	logger  logrus.FieldLogger
}

func NewOperator(s *storage.Storage, queue chan ActionItem, logger logrus.FieldLogger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		logger:  logger,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	// Skip items whose caller has gone.
	if err := item.ctx.Err(); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	endTimer := logging.Timed(item.ctx, "operatorMs")
	start := time.Now()
	err := o.perform(item)
	endTimer()

	fields := actionFields(item.action)
	fields["durationMs"] = time.Since(start).Milliseconds()
	switch {
	case err == nil:
		o.logger.WithFields(fields).Debug("Operator.processItem.committed")
	case apperr.KindOf(err) == apperr.KindPersistence:
		o.logger.WithError(err).WithFields(fields).Error("Operator.processItem.failed")
	default:
		o.logger.WithError(err).WithFields(fields).Info("Operator.processItem.rejected")
	}
	item.response <- ActionItemResponse{err: err}
}

// perform runs the action in a fresh transaction, committing only when the
// action succeeds.
func (o *Operator) perform(item ActionItem) error {
	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		return err
	}

	if err := item.action.Perform(item.ctx, writer); err != nil {
		if rbErr := writer.Rollback(context.WithoutCancel(item.ctx)); rbErr != nil {
			o.logger.WithError(rbErr).WithFields(actionFields(item.action)).
				Error("Operator.processItem.rollback failed")
		}
		return err
	}
	return writer.Commit(item.ctx)
}

func actionFields(a actions.IAction) logrus.Fields {
	fields := logrus.Fields{}
	if logged, ok := a.(interface{ LogFields() logrus.Fields }); ok {
		fields = logged.LogFields()
	}
	fields["action"] = fmt.Sprintf("%T", a)
	return fields
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
