package analytics

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/segmentio/kafka-go"
)

const saleEventType = "sale"

// MessageWriter is the subset of *kafka.Writer the sink needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaSink struct {
	writer MessageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

func NewKafkaSink(writer MessageWriter) *KafkaSink {
	return &KafkaSink{writer: writer}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Deliver(ctx context.Context, summary models.SalesSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(summary.OrderID),
		Value:   data,
		Headers: saleHeaders(summary),
		Time:    time.Now().UTC(),
	})
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func saleHeaders(summary models.SalesSummary) []kafka.Header {
	return []kafka.Header{
		{Key: "eventType", Value: []byte(saleEventType)},
		{Key: "orderId", Value: []byte(summary.OrderID)},
		{Key: "userId", Value: []byte(strconv.FormatInt(summary.UserID, 10))},
		{Key: "totalAmount", Value: []byte(summary.TotalAmount.String())},
	}
}
