// Package messaging publishes shipment status events to a RabbitMQ topic
// exchange. Publication is a best-effort side effect: status updates must
// succeed even when the broker is unreachable.
package messaging

import (
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

type RabbitMQClient struct {
	config     *RabbitMQConfig
	logger     *zap.Logger
	mu         sync.RWMutex
	connection *amqp.Connection
	channel    *amqp.Channel
}

func NewRabbitMQClient(config *RabbitMQConfig, logger *zap.Logger) *RabbitMQClient {
	return &RabbitMQClient{config: config, logger: logger}
}

func (r *RabbitMQClient) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	for i := 0; i < r.config.RetryCount; i++ {
		r.connection, err = amqp.Dial(r.config.ConnectionURL())
		if err != nil {
			r.logger.Warn("rabbitmq connection failed",
				zap.Int("attempt", i+1),
				zap.Int("max", r.config.RetryCount),
				zap.Error(err),
			)
			if i < r.config.RetryCount-1 {
				time.Sleep(r.config.RetryDelay)
				continue
			}
			return fmt.Errorf("failed to connect to RabbitMQ: %v", err)
		}

		r.channel, err = r.connection.Channel()
		if err != nil {
			r.connection.Close()
			return fmt.Errorf("rabbitmq channel open error: %v", err)
		}

		err = r.channel.ExchangeDeclare(
			r.config.Exchange, // name
			"topic",           // type
			true,              // durable
			false,             // auto-deleted
			false,             // internal
			false,             // no-wait
			nil,               // arguments
		)
		if err != nil {
			r.channel.Close()
			r.connection.Close()
			return fmt.Errorf("failed to declare exchange: %v", err)
		}

		r.logger.Info("connected to rabbitmq", zap.String("host", r.config.Host))
		return nil
	}

	return err
}

func (r *RabbitMQClient) Channel() *amqp.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channel
}

func (r *RabbitMQClient) IsConnected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connection != nil && !r.connection.IsClosed()
}

func (r *RabbitMQClient) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.channel != nil {
		r.channel.Close()
	}
	if r.connection != nil {
		r.connection.Close()
	}
}
