package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	routingKeyLoanPaid        = "loan.paid"
	routingKeyLoanRescheduled = "loan.rescheduled"
	publisherAppID            = "emi-genie"
)

// LoanLifecycleEvent is the broker-facing shape of a loan status transition.
type LoanLifecycleEvent struct {
	LoanID     int64     `json:"loanId"`
	Status     string    `json:"status"`
	NewDueDate string    `json:"newDueDate,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type Publisher interface {
	PublishLoanPaid(ctx context.Context, event LoanLifecycleEvent) error
	PublishLoanRescheduled(ctx context.Context, event LoanLifecycleEvent) error
}

// NoopPublisher is used when no broker is configured; lifecycle fan-out is
// optional and the audit log in the store remains authoritative.
type NoopPublisher struct{}

func (NoopPublisher) PublishLoanPaid(context.Context, LoanLifecycleEvent) error        { return nil }
func (NoopPublisher) PublishLoanRescheduled(context.Context, LoanLifecycleEvent) error { return nil }

type RabbitMQPublisher struct {
	conn         *amqp.Connection
	exchangeName string
	logger       *slog.Logger
}

func NewRabbitMQPublisher(conn *amqp.Connection, exchangeName string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection cannot be nil")
	}
	if exchangeName == "" {
		return nil, fmt.Errorf("RabbitMQ exchange name cannot be empty")
	}

	tempCh, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open temporary channel for exchange declaration: %w", err)
	}
	defer tempCh.Close()

	err = tempCh.ExchangeDeclare(
		exchangeName,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchangeName, err)
	}
	logger.Info("Ensured RabbitMQ exchange exists", "exchange", exchangeName, "type", amqp.ExchangeTopic)

	return &RabbitMQPublisher{
		conn:         conn,
		exchangeName: exchangeName,
		logger:       logger.With("component", "RabbitMQPublisher", "exchange", exchangeName),
	}, nil
}

func (p *RabbitMQPublisher) PublishLoanPaid(ctx context.Context, event LoanLifecycleEvent) error {
	return p.publish(ctx, routingKeyLoanPaid, event)
}

func (p *RabbitMQPublisher) PublishLoanRescheduled(ctx context.Context, event LoanLifecycleEvent) error {
	return p.publish(ctx, routingKeyLoanRescheduled, event)
}

func (p *RabbitMQPublisher) publish(ctx context.Context, routingKey string, payload interface{}) error {
	logCtx := p.logger.With(slog.String("routingKey", routingKey))

	channel, err := p.conn.Channel()
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to open RabbitMQ channel", slog.Any("error", err))
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer channel.Close()

	body, err := json.Marshal(payload)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to marshal event payload to JSON", slog.Any("error", err))
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = channel.PublishWithContext(
		ctx,
		p.exchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			AppId:        publisherAppID,
		},
	)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to publish message to RabbitMQ", slog.Any("error", err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logCtx.InfoContext(ctx, "Successfully published message")
	return nil
}
