package eventqueue

import (
	"context"
	"fmt"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DeadLetterSuffix is appended to the profile events queue name to form its dead-letter queue.
const DeadLetterSuffix = ".dlq"

// QueuedEvent is a delivery awaiting acknowledgement.
type QueuedEvent struct {
	DeliveryTag uint64
	Event       *models.ProfileEvent
}

// confirmation is the broker acknowledgement of a single publishing.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type publishFunc func(ctx context.Context, queue string, msg amqp.Publishing) (confirmation, error)

// Service carries profile events between the profile store writers and the dispatcher.
// Publishing and consuming use separate channels so publisher confirms never interleave with deliveries.
type Service struct {
	publishCh *amqp.Channel
	consumeCh *amqp.Channel
	publish   publishFunc
	log       *zap.Logger
	queueName string
	dlqName   string
	prefetch  int
}

func NewService(conn *amqp.Connection, log *zap.Logger, queueName string, prefetch int) (*Service, error) {
	publishCh, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	consumeCh, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	dlqName := queueName + DeadLetterSuffix
	for _, name := range []string{queueName, dlqName} {
		_, err = publishCh.QueueDeclare(
			name,  // name
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return nil, err
		}
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := consumeCh.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := publishCh.Confirm(false); err != nil {
		return nil, err
	}

	return &Service{
		publishCh: publishCh,
		consumeCh: consumeCh,
		log:       log,
		queueName: queueName,
		dlqName:   dlqName,
		prefetch:  prefetch,
		publish:   deferredConfirmPublisher(publishCh),
	}, nil
}

// deferredConfirmPublisher ties every confirm to its own publishing, so a confirm that
// arrives after its caller gave up is never read by a later publish.
func deferredConfirmPublisher(ch *amqp.Channel) publishFunc {
	return func(ctx context.Context, queue string, msg amqp.Publishing) (confirmation, error) {
		deferred, err := ch.PublishWithDeferredConfirmWithContext(ctx, "", queue, false, false, msg)
		if err != nil {
			return nil, err
		}
		if deferred == nil {
			return nil, fmt.Errorf("channel is not in confirm mode")
		}
		return deferred, nil
	}
}

// Publish enqueues a freshly committed profile event and waits for the broker confirm.
func (s *Service) Publish(ctx context.Context, event *models.ProfileEvent) error {
	s.log.Info("EventQueue.Publish called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingEventIDKey, event.ID),
		zap.String(constvars.LoggingEventKindKey, event.Kind),
		zap.String(constvars.LoggingTargetIDKey, event.TargetID),
	)
	return s.publishEvent(ctx, s.queueName, event)
}

// Reenqueue returns the event to the tail of the queue, usually with an incremented FailedCount.
func (s *Service) Reenqueue(ctx context.Context, event *models.ProfileEvent) error {
	s.log.Info("EventQueue.Reenqueue called",
		zap.String(constvars.LoggingEventIDKey, event.ID),
		zap.Int(constvars.LoggingFailedCountKey, event.FailedCount),
	)
	return s.publishEvent(ctx, s.queueName, event)
}

func (s *Service) EnqueueToDeadQueue(ctx context.Context, event *models.ProfileEvent) error {
	s.log.Warn("EventQueue.EnqueueToDeadQueue called",
		zap.String(constvars.LoggingEventIDKey, event.ID),
		zap.Int(constvars.LoggingFailedCountKey, event.FailedCount),
	)
	return s.publishEvent(ctx, s.dlqName, event)
}

// Consume starts a manual-ack consumer. Malformed payloads are moved to the dead-letter queue
// and never reach the returned channel. The channel closes when ctx is done or the broker
// channel closes.
func (s *Service) Consume(ctx context.Context, consumerTag string) (<-chan QueuedEvent, error) {
	deliveries, err := s.consumeCh.Consume(
		s.queueName,
		consumerTag,
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, err
	}

	out := make(chan QueuedEvent, s.prefetch)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				var event models.ProfileEvent
				if err := json.Unmarshal(d.Body, &event); err != nil || event.After == nil {
					s.log.Error("EventQueue.Consume malformed payload moved to dead-letter queue",
						zap.String(constvars.LoggingQueueNameKey, s.dlqName),
						zap.Error(err),
					)
					if err := s.publishRaw(ctx, s.dlqName, d.Body); err != nil {
						_ = d.Nack(false, true)
						continue
					}
					_ = d.Ack(false)
					continue
				}
				select {
				case out <- QueuedEvent{DeliveryTag: d.DeliveryTag, Event: &event}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (s *Service) Ack(ctx context.Context, deliveryTag uint64) error {
	return s.consumeCh.Ack(deliveryTag, false)
}

// Nack returns the delivery to the broker for redelivery.
func (s *Service) Nack(ctx context.Context, deliveryTag uint64) error {
	return s.consumeCh.Nack(deliveryTag, false, true)
}

func (s *Service) Close() error {
	if err := s.consumeCh.Close(); err != nil {
		return err
	}
	return s.publishCh.Close()
}

func (s *Service) publishEvent(ctx context.Context, queue string, event *models.ProfileEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return s.publishRaw(ctx, queue, body)
}

func (s *Service) publishRaw(ctx context.Context, queue string, body []byte) error {
	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}
	confirm, err := s.publish(ctx, queue, msg)
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}
	if !acked {
		return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queue)
	}
	return nil
}
