package utils

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sharath018/accreditation-data-backend/config"
)

var (
	kafkaBrokers []string
	kafkaWriter  *kafka.Writer
)

// InitKafka wires the shared writer. Like redis, kafka is optional in dev:
// publishing with no writer logs and drops the message.
func InitKafka(cfg *config.Config) {
	kafkaBrokers = cfg.KafkaBrokers

	kafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	log.Printf("✅ Kafka writer ready (brokers: %v)", cfg.KafkaBrokers)
}

// KafkaBrokers exposes the configured broker list for consumers.
func KafkaBrokers() []string {
	return kafkaBrokers
}

// PublishMessage JSON-encodes payload and writes it to topic.
func PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	if kafkaWriter == nil {
		log.Printf("⚠️ Kafka not initialized, dropping message for topic %s", topic)
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	err = kafkaWriter.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: data,
	})
	if err != nil {
		log.Printf("❌ Kafka publish to %s failed: %v", topic, err)
		return err
	}
	return nil
}

// CloseKafka flushes and closes the shared writer.
func CloseKafka() {
	if kafkaWriter == nil {
		return
	}
	if err := kafkaWriter.Close(); err != nil {
		log.Printf("⚠️ Kafka writer close: %v", err)
	}
}
