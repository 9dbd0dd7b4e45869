package mykafka

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicUserEvents    = "user_events"
	TopicProductEvents = "product_events"
	TopicMailEvents    = "mail_events"
)

type Producer struct {
	writer *kafka.Writer
}

// NewProducer builds a writer for the brokers and makes sure the topics
// exist. Topic creation is best effort: a broker with auto-create on
// will have made them already.
func NewProducer(brokers []string, topics []string) (*Producer, error) {
	if len(brokers) > 0 && brokers[0] != "" {
		if err := ensureTopics(brokers[0], topics); err != nil {
			return nil, err
		}
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Producer{writer: w}, nil
}

func ensureTopics(broker string, topics []string) error {
	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return fmt.Errorf("kafka: dial failed: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("kafka: controller lookup failed: %w", err)
	}
	ctrlConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("kafka: controller dial failed: %w", err)
	}
	defer ctrlConn.Close()

	configs := make([]kafka.TopicConfig, 0, len(topics))
	for _, t := range topics {
		configs = append(configs, kafka.TopicConfig{
			Topic:             t,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
	}
	if err := ctrlConn.CreateTopics(configs...); err != nil {
		return fmt.Errorf("kafka: create topics failed: %w", err)
	}
	return nil
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event interface{}) error {
	if p == nil || p.writer == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
