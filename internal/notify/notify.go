package notify

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"vendormarket/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventOrderPlaced        = "order.placed"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is the envelope written to the orders topic. Consumers (email,
// SMS) are out-of-band; the request path never waits for them.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"totalCents"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher writes order lifecycle events to Kafka, fire-and-forget.
// A Publisher built with no brokers is disabled and drops every event.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewPublisher parses a comma separated broker list. An empty list yields
// a disabled publisher, which is valid for local development.
func NewPublisher(brokersCSV, topic string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return &Publisher{logger: logger}
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		logger: logger,
	}
}

// Enabled reports whether events will actually be written.
func (p *Publisher) Enabled() bool {
	return p.writer != nil
}

// Close flushes the underlying writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Publisher) OrderPlaced(o *domain.Order) {
	p.publish(EventOrderPlaced, o)
}

func (p *Publisher) OrderCancelled(o *domain.Order) {
	p.publish(EventOrderCancelled, o)
}

func (p *Publisher) OrderStatusChanged(o *domain.Order) {
	p.publish(EventOrderStatusChanged, o)
}

func (p *Publisher) publish(eventType string, o *domain.Order) {
	if p.writer == nil {
		return
	}
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		TotalCents: o.TotalCents,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal order event", zap.String("type", eventType), zap.Error(err))
		return
	}
	// Detached from the request: delivery confirmation is not awaited.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(o.ID),
			Value: payload,
		}); err != nil {
			p.logger.Warn("publish order event",
				zap.String("type", eventType),
				zap.String("order_id", o.ID),
				zap.Error(err))
		}
	}()
}
