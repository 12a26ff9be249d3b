package middleware

import (
	"context"
	"time"

	"github.com/Ruthreshjp/tour-app-sub001/pkg/kafka"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/logger"
)

// ProducerLogging logs every publish attempt with its outcome and latency.
func ProducerLogging(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		duration := time.Since(start)

		if err != nil {
			log.Error("Kafka publish failed",
				"event_id", msg.GetEventID(),
				"event_type", msg.GetEventType(),
				"key", msg.Key,
				"duration_ms", duration.Milliseconds(),
				"error", err,
			)
			return err
		}

		log.Debug("Kafka message published",
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"key", msg.Key,
			"duration_ms", duration.Milliseconds(),
		)
		return nil
	}
}

// ConsumerLogging logs every handled message with its outcome and latency.
func ConsumerLogging(log *logger.Logger) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		duration := time.Since(start)

		if err != nil {
			log.Error("Kafka message handling failed",
				"event_id", msg.GetEventID(),
				"event_type", msg.GetEventType(),
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"duration_ms", duration.Milliseconds(),
				"error", err,
			)
			return err
		}

		log.Debug("Kafka message handled",
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"duration_ms", duration.Milliseconds(),
		)
		return nil
	}
}
