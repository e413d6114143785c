package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/ecommerce-cloud/backend/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeType = "topic"

// Publisher is satisfied by *amqp.Channel.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQSink struct {
	pub        Publisher
	exchange   string
	routingKey string
}

func NewRabbitMQSink(pub Publisher, exchange, routingKey string) *RabbitMQSink {
	return &RabbitMQSink{pub: pub, exchange: exchange, routingKey: routingKey}
}

// DialRabbitMQ connects and declares the durable topic exchange sales are
// published to.
func DialRabbitMQ(url, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.Printf("[ANALYTICS] Failed to connect to RabbitMQ (attempt %d): %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,     // name
		exchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return conn, ch, nil
}

func (s *RabbitMQSink) Name() string { return "rabbitmq" }

func (s *RabbitMQSink) Deliver(ctx context.Context, summary models.SalesSummary) error {
	body, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("could not marshal sale: %w", err)
	}

	return s.pub.PublishWithContext(ctx,
		s.exchange,   // exchange
		s.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    summary.OrderID,
			Timestamp:    time.Now().UTC(),
			Headers: amqp.Table{
				"eventType":   saleEventType,
				"orderId":     summary.OrderID,
				"userId":      strconv.FormatInt(summary.UserID, 10),
				"totalAmount": summary.TotalAmount.String(),
			},
			Body: body,
		},
	)
}
