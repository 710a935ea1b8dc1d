package eventqueue

import (
	"context"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/constvars"
	"onboarding-service/internal/pkg/exceptions"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConfirmation struct {
	ready chan struct{}
	acked bool
}

func newFakeConfirmation() *fakeConfirmation {
	return &fakeConfirmation{ready: make(chan struct{})}
}

func (c *fakeConfirmation) resolve(acked bool) {
	c.acked = acked
	close(c.ready)
}

func (c *fakeConfirmation) WaitContext(ctx context.Context) (bool, error) {
	select {
	case <-c.ready:
		return c.acked, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

type fakeBroker struct {
	mu        sync.Mutex
	published []amqp.Publishing
	queues    []string
	pending   []*fakeConfirmation
}

// next queues the confirmation handed to the following publish.
func (b *fakeBroker) next(c *fakeConfirmation) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, c)
}

func (b *fakeBroker) publish(ctx context.Context, queue string, msg amqp.Publishing) (confirmation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, msg)
	b.queues = append(b.queues, queue)
	c := b.pending[0]
	b.pending = b.pending[1:]
	return c, nil
}

func newTestService(broker *fakeBroker) *Service {
	return &Service{
		publish:   broker.publish,
		log:       zap.NewNop(),
		queueName: "profile-events",
		dlqName:   "profile-events" + DeadLetterSuffix,
		prefetch:  1,
	}
}

func testEvent(id string) *models.ProfileEvent {
	return &models.ProfileEvent{ID: id, Kind: constvars.ProfileEventCreated, TargetID: "u1", After: &models.Profile{ID: "u1"}}
}

func TestPublishConfirms(t *testing.T) {
	t.Run("Acked Publish Succeeds", func(t *testing.T) {
		broker := &fakeBroker{}
		service := newTestService(broker)
		confirm := newFakeConfirmation()
		confirm.resolve(true)
		broker.next(confirm)

		require.NoError(t, service.Publish(context.Background(), testEvent("ev1")))

		require.Len(t, broker.published, 1)
		assert.Equal(t, "profile-events", broker.queues[0])
		assert.Equal(t, amqp.Persistent, broker.published[0].DeliveryMode)

		var decoded models.ProfileEvent
		require.NoError(t, json.Unmarshal(broker.published[0].Body, &decoded))
		assert.Equal(t, "ev1", decoded.ID)
	})

	t.Run("Nacked Publish Fails", func(t *testing.T) {
		broker := &fakeBroker{}
		service := newTestService(broker)
		confirm := newFakeConfirmation()
		confirm.resolve(false)
		broker.next(confirm)

		err := service.Publish(context.Background(), testEvent("ev1"))
		assert.True(t, exceptions.Is(err, constvars.ErrCodeInternal))
	})

	t.Run("Late Confirm Is Not Attributed To Next Publish", func(t *testing.T) {
		broker := &fakeBroker{}
		service := newTestService(broker)

		slow := newFakeConfirmation()
		broker.next(slow)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		require.Error(t, service.Publish(ctx, testEvent("ev1")))

		// the broker rejects the first message only after its caller gave up
		slow.resolve(false)

		second := newFakeConfirmation()
		second.resolve(true)
		broker.next(second)
		assert.NoError(t, service.Publish(context.Background(), testEvent("ev2")))
	})

	t.Run("Dead Letter Uses Its Own Queue", func(t *testing.T) {
		broker := &fakeBroker{}
		service := newTestService(broker)
		confirm := newFakeConfirmation()
		confirm.resolve(true)
		broker.next(confirm)

		require.NoError(t, service.EnqueueToDeadQueue(context.Background(), testEvent("ev1")))
		assert.Equal(t, []string{"profile-events" + DeadLetterSuffix}, broker.queues)
	})
}
