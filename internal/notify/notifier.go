package notify

import (
	"context"
	"time"

	"arenabook/pkg/config"
	"arenabook/pkg/kafka"
	"arenabook/pkg/logger"
)

const publishTimeout = 10 * time.Second

// Notifier queues side-channel notifications. Implementations must never
// block or fail the operation that triggered them.
type Notifier interface {
	NotifyMessage(text string)
	NotifyEmail(recipient, subject, body string)
}

type kafkaNotifier struct {
	opsProducer   *kafka.Producer
	emailProducer *kafka.Producer
	log           *logger.Logger
}

func NewKafkaNotifier(cfg *config.Config, opsProducer, emailProducer *kafka.Producer) Notifier {
	return &kafkaNotifier{
		opsProducer:   opsProducer,
		emailProducer: emailProducer,
		log:           cfg.Log,
	}
}

// NotifyMessage publishes from a detached goroutine with its own context,
// so a finished HTTP request cannot cancel the publish.
func (n *kafkaNotifier) NotifyMessage(text string) {
	msg := kafka.NewMessage().
		WithKey("ops").
		WithEventType(EventTypeOpsMessage).
		WithSource(eventSource).
		WithValue(OpsMessageEvent{
			Text:       text,
			OccurredAt: time.Now().UTC(),
		}).
		Build()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := n.opsProducer.Publish(ctx, msg); err != nil {
			n.log.Error("Failed to publish ops notification", "event_id", msg.GetEventID(), "error", err)
		}
	}()
}

func (n *kafkaNotifier) NotifyEmail(recipient, subject, body string) {
	msg := kafka.NewMessage().
		WithKey(recipient).
		WithEventType(EventTypeEmail).
		WithSource(eventSource).
		WithValue(EmailEvent{
			Recipient:  recipient,
			Subject:    subject,
			Body:       body,
			OccurredAt: time.Now().UTC(),
		}).
		Build()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := n.emailProducer.Publish(ctx, msg); err != nil {
			n.log.Error("Failed to publish email notification", "event_id", msg.GetEventID(), "recipient", recipient, "error", err)
		}
	}()
}

// NopNotifier drops all notifications. Used when Kafka is not configured
// and in tests.
type NopNotifier struct{}

func (NopNotifier) NotifyMessage(string) {}

func (NopNotifier) NotifyEmail(_, _, _ string) {}
