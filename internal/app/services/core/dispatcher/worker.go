package dispatcher

import (
	"context"
	"fmt"
	"onboarding-service/internal/app/config"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/app/services/shared/eventqueue"
	"onboarding-service/internal/app/services/shared/metrics"
	"onboarding-service/internal/pkg/constvars"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventQueue is the subset of the event transport the worker consumes.
type EventQueue interface {
	Consume(ctx context.Context, consumerTag string) (<-chan eventqueue.QueuedEvent, error)
	Ack(ctx context.Context, deliveryTag uint64) error
	Nack(ctx context.Context, deliveryTag uint64) error
	Reenqueue(ctx context.Context, event *models.ProfileEvent) error
	EnqueueToDeadQueue(ctx context.Context, event *models.ProfileEvent) error
}

// Worker consumes profile events with at-least-once semantics and runs their reactions.
type Worker struct {
	log        *zap.Logger
	cfg        *config.InternalConfig
	queue      EventQueue
	dispatcher contracts.EventDispatcher
	stop       chan struct{}
	wg         sync.WaitGroup
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, queue EventQueue, dispatcher contracts.EventDispatcher) *Worker {
	return &Worker{
		log:        log,
		cfg:        cfg,
		queue:      queue,
		dispatcher: dispatcher,
		stop:       make(chan struct{}),
	}
}

// Start launches the configured number of consumers. The returned stop function waits
// for in-flight reactions to finish.
func (w *Worker) Start(ctx context.Context) (stop func(), err error) {
	workers := w.cfg.Dispatcher.Workers
	if workers <= 0 {
		workers = 1
	}

	runCtx, cancel := context.WithCancel(ctx)
	deliveries, err := w.queue.Consume(runCtx, "onboarding-dispatcher")
	if err != nil {
		cancel()
		return nil, err
	}

	for i := 0; i < workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for {
				select {
				case <-runCtx.Done():
					return
				case <-w.stop:
					return
				case item, ok := <-deliveries:
					if !ok {
						return
					}
					w.processItem(runCtx, item)
				}
			}
		}()
	}

	w.log.Info("dispatcher worker started", zap.Int("workers", workers))

	var once sync.Once
	return func() {
		once.Do(func() {
			close(w.stop)
			w.wg.Wait()
			cancel()
		})
	}, nil
}

func (w *Worker) processItem(ctx context.Context, item eventqueue.QueuedEvent) {
	event := item.Event
	reactionCtx := context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, fmt.Sprintf("%sEVENT_%s", constvars.REQUEST_ID_PREFIX, event.ID))
	timeout := time.Duration(w.cfg.Dispatcher.ReactionTimeoutInSecs) * time.Second
	if timeout > 0 {
		var cancel context.CancelFunc
		reactionCtx, cancel = context.WithTimeout(reactionCtx, timeout)
		defer cancel()
	}

	err := w.dispatcher.Dispatch(reactionCtx, event)
	if err == nil {
		if ackErr := w.queue.Ack(ctx, item.DeliveryTag); ackErr != nil {
			w.log.Error("dispatcher worker ack failed after success",
				zap.String(constvars.LoggingEventIDKey, event.ID),
				zap.Error(ackErr),
			)
		}
		return
	}

	event.FailedCount++
	if event.FailedCount >= w.cfg.Dispatcher.MaxRetry {
		if dlqErr := w.queue.EnqueueToDeadQueue(ctx, event); dlqErr != nil {
			w.log.Error("dispatcher worker dead-letter failed, returning delivery to broker",
				zap.String(constvars.LoggingEventIDKey, event.ID),
				zap.Error(dlqErr),
			)
			_ = w.queue.Nack(ctx, item.DeliveryTag)
			return
		}
		metrics.DispatcherReactionsTotal.WithLabelValues(event.Kind, metrics.OutcomeDead).Inc()
		_ = w.queue.Ack(ctx, item.DeliveryTag)
		w.log.Warn("dispatcher worker moved event to dead-letter queue",
			zap.String(constvars.LoggingEventIDKey, event.ID),
			zap.Int(constvars.LoggingFailedCountKey, event.FailedCount),
		)
		return
	}

	select {
	case <-time.After(time.Duration(w.cfg.Dispatcher.RetryDelayInSeconds) * time.Second):
	case <-ctx.Done():
		_ = w.queue.Nack(context.Background(), item.DeliveryTag)
		return
	case <-w.stop:
		_ = w.queue.Nack(context.Background(), item.DeliveryTag)
		return
	}

	if reErr := w.queue.Reenqueue(ctx, event); reErr != nil {
		w.log.Error("dispatcher worker reenqueue failed, returning delivery to broker",
			zap.String(constvars.LoggingEventIDKey, event.ID),
			zap.Error(reErr),
		)
		_ = w.queue.Nack(ctx, item.DeliveryTag)
		return
	}
	metrics.DispatcherReactionsTotal.WithLabelValues(event.Kind, metrics.OutcomeRetried).Inc()
	_ = w.queue.Ack(ctx, item.DeliveryTag)
	w.log.Info("dispatcher worker returned event to queue tail",
		zap.String(constvars.LoggingEventIDKey, event.ID),
		zap.Int(constvars.LoggingFailedCountKey, event.FailedCount),
	)
}
