package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSink writes changes to the log. Used when no broker is configured.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Send(_ context.Context, c Change) error {
	s.log.Info("order status changed",
		zap.String("order_id", c.OrderID.String()),
		zap.String("customer_id", c.CustomerID.String()),
		zap.String("old_status", c.OldStatus),
		zap.String("new_status", c.NewStatus),
		zap.String("tracking_note", c.TrackingNote))
	return nil
}
