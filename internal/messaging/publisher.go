package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// StatusEvent is the message published on every shipment status transition.
type StatusEvent struct {
	ID          uuid.UUID `json:"id"`
	AWBCode     string    `json:"awb_code"`
	Status      string    `json:"status"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type Publisher struct {
	client *RabbitMQClient
	logger *zap.Logger
}

func NewPublisher(client *RabbitMQClient, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// PublishStatusEvent sends a status transition to the topic exchange under
// "shipment.status.<status>".
func (p *Publisher) PublishStatusEvent(event StatusEvent) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("event serialization error: %v", err)
	}

	routingKey := fmt.Sprintf("shipment.status.%s", event.Status)

	err = p.client.Channel().Publish(
		p.client.config.Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    event.Timestamp,
			Headers: amqp.Table{
				"awb_code": event.AWBCode,
				"status":   event.Status,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("event publish error: %v", err)
	}

	p.logger.Debug("status event published",
		zap.String("routing_key", routingKey),
		zap.String("awb_code", event.AWBCode),
	)
	return nil
}
