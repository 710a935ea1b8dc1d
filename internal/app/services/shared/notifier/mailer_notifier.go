package notifier

import (
	"context"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"onboarding-service/internal/pkg/utils"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// mailerNotifier hands rendered emails to the mailer service queue. Delivery itself
// happens outside this service.
type mailerNotifier struct {
	Channel     *amqp091.Channel
	Queue       string
	EmailSender string
	Log         *zap.Logger
	mu          sync.Mutex
}

func NewMailerNotifier(rabbitMQConnection *amqp091.Connection, queue, emailSender string, logger *zap.Logger) (contracts.NotificationPort, error) {
	channel, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, err
	}

	_, err = channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return nil, err
	}

	return &mailerNotifier{
		Channel:     channel,
		Queue:       queue,
		EmailSender: emailSender,
		Log:         logger,
	}, nil
}

func (s *mailerNotifier) Send(ctx context.Context, intent *contracts.NotificationIntent) error {
	requestID := utils.GetRequestID(ctx)
	s.Log.Info("mailerNotifier.Send called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateKindKey, intent.TemplateKind),
		zap.String(constvars.LoggingRecipientKey, intent.Recipient),
	)

	payload, err := utils.BuildNotificationEmailPayload(s.EmailSender, intent.Recipient, intent.TemplateKind, intent.ContextFields)
	if err != nil {
		s.Log.Error("mailerNotifier.Send error building email payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Headers: amqp091.Table{
			"message_type":     "JSON",
			"requeue_strategy": "DROP",
			"template_kind":    intent.TemplateKind,
		},
	}

	s.mu.Lock()
	err = s.Channel.PublishWithContext(ctx, "", s.Queue, false, false, message)
	s.mu.Unlock()
	if err != nil {
		s.Log.Error("mailerNotifier.Send error publishing to mailer queue",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueNameKey, s.Queue),
			zap.Error(err),
		)
		return exceptions.ErrNotificationDelivery(exceptions.ErrRabbitMQPublishMessage(err, s.Queue), intent.TemplateKind)
	}

	s.Log.Info("mailerNotifier.Send succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateKindKey, intent.TemplateKind),
	)
	return nil
}
