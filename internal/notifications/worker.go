package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"arenabook/internal/notifications/gateway"
	"arenabook/internal/notify"
	"arenabook/pkg/config"
	"arenabook/pkg/kafka"
	kafka_config "arenabook/pkg/kafka/config"
	"arenabook/pkg/logger"
)

// Worker consumes the notification topics and delivers each event through
// the message gateway. Transient gateway failures are retried by the
// consumer; everything else lands in the DLQ.
type Worker struct {
	opsConsumer   *kafka.Consumer
	emailConsumer *kafka.Consumer
	gateway       *gateway.Client
	opsRecipient  string
	log           *logger.Logger
}

func NewWorker(cfg *config.Config, kafkaCfg *kafka_config.Config) (*Worker, error) {
	w := &Worker{
		gateway:      gateway.NewClient(cfg),
		opsRecipient: cfg.OpsRecipient,
		log:          cfg.Log,
	}

	opsConsumer, err := kafka.NewConsumer(kafkaCfg, cfg.NotifyOpsTopic, cfg.NotifyConsumerGroup, cfg.NotifyDLQTopic, w.handleOpsMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to create ops consumer: %w", err)
	}
	w.opsConsumer = opsConsumer

	emailConsumer, err := kafka.NewConsumer(kafkaCfg, cfg.NotifyEmailTopic, cfg.NotifyConsumerGroup, cfg.NotifyDLQTopic, w.handleEmail)
	if err != nil {
		opsConsumer.Close()
		return nil, fmt.Errorf("failed to create email consumer: %w", err)
	}
	w.emailConsumer = emailConsumer

	return w, nil
}

// Run blocks until the context is cancelled or a consumer fails.
func (w *Worker) Run(ctx context.Context) error {
	errs := make(chan error, 2)
	var wg sync.WaitGroup

	for _, c := range []*kafka.Consumer{w.opsConsumer, w.emailConsumer} {
		wg.Add(1)
		go func(consumer *kafka.Consumer) {
			defer wg.Done()
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errs <- err
			}
		}(c)
	}

	go func() {
		wg.Wait()
		close(errs)
	}()

	return <-errs
}

func (w *Worker) Close() error {
	var firstErr error
	if err := w.opsConsumer.Close(); err != nil {
		firstErr = err
	}
	if err := w.emailConsumer.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (w *Worker) handleOpsMessage(ctx context.Context, msg kafka.Message) error {
	var event notify.OpsMessageEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("undecodable ops event", err)
	}

	if err := w.gateway.SendMessage(ctx, w.opsRecipient, event.Text); err != nil {
		return w.classifyDeliveryError(err, msg.GetEventID())
	}

	w.log.Info("Ops notification delivered", "event_id", msg.GetEventID())
	return nil
}

func (w *Worker) handleEmail(ctx context.Context, msg kafka.Message) error {
	var event notify.EmailEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("undecodable email event", err)
	}
	if event.Recipient == "" {
		return kafka.NewPermanentError("email event has no recipient", nil)
	}

	if err := w.gateway.SendEmail(ctx, event.Recipient, event.Subject, event.Body); err != nil {
		return w.classifyDeliveryError(err, msg.GetEventID())
	}

	w.log.Info("Email notification delivered", "event_id", msg.GetEventID(), "recipient", event.Recipient)
	return nil
}

func (w *Worker) classifyDeliveryError(err error, eventID string) error {
	var statusErr *gateway.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Retryable() {
			w.log.Warn("Gateway delivery failed, will retry", "event_id", eventID, "status", statusErr.StatusCode)
			return kafka.NewTransientError("gateway delivery failed", err)
		}
		w.log.Error("Gateway rejected notification", "event_id", eventID, "status", statusErr.StatusCode)
		return kafka.NewPermanentError("gateway rejected notification", err)
	}

	// Network and timeout failures are worth retrying.
	w.log.Warn("Gateway unreachable, will retry", "event_id", eventID, "error", err)
	return kafka.NewTransientError("gateway unreachable", err)
}
