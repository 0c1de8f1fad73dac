package services

import (
	"context"

	"go.uber.org/zap"

	"relationmap/application/ports"
	"relationmap/domain/events"
	"relationmap/pkg/observability"
)

// eventSink publishes domain events after a successful write. A failed
// publish is logged and counted but never fails the write.
type eventSink struct {
	publisher ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
}

func (s eventSink) publish(ctx context.Context, evts ...events.DomainEvent) {
	if s.publisher == nil || len(evts) == 0 {
		return
	}

	var err error
	if len(evts) == 1 {
		err = s.publisher.Publish(ctx, evts[0])
	} else {
		err = s.publisher.PublishBatch(ctx, evts)
	}
	if err != nil {
		s.metrics.RecordPublishFailure()
		s.logger.Warn("Failed to publish domain events",
			zap.String("event_type", evts[0].GetEventType()),
			zap.Int("count", len(evts)),
			zap.Error(err),
		)
	}
}
