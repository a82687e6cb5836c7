package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/notify"
)

// DeliveryWorker drains the notification queue and performs the actual
// delivery. Delivery is a logged stub; the queue contract is the point.
type DeliveryWorker struct {
	queue  *notify.Queue
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewDeliveryWorker builds the worker.
func NewDeliveryWorker(queue *notify.Queue, logger *zap.Logger, cfg config.NotificationConfig) *DeliveryWorker {
	return &DeliveryWorker{queue: queue, logger: logger, cfg: cfg}
}

// Run consumes the queue until ctx is cancelled.
func (w *DeliveryWorker) Run(ctx context.Context) {
	if w.queue == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		notification, err := w.queue.Dequeue(ctx, time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Warn("notification dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if notification == nil {
			continue
		}

		w.logger.Info("delivering notification",
			zap.String("notification_id", notification.ID),
			zap.String("user_id", notification.UserID),
			zap.String("from", w.cfg.EmailFrom),
			zap.String("message", notification.Message))
	}
}
