package kafka

import (
	"context"
	"crypto/tls"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
)

// Config structure
type Config struct {
	Brokers []string          `mapstructure:"brokers"`
	UseTLS  bool              `mapstructure:"use_tls"`
	Topics  map[string]string `mapstructure:"topics"`
}

// KafkaProducer interface
type KafkaProducer interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

type producer struct {
	writer *kafkaGo.Writer
}

// NewKafkaProducer creates a new producer for the given topic
func NewKafkaProducer(brokers []string, useTLS bool, topic string) KafkaProducer {
	dialer := &kafkaGo.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if useTLS {
		dialer.TLS = &tls.Config{}
	}
	writer := kafkaGo.NewWriter(kafkaGo.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafkaGo.LeastBytes{},
		Dialer:   dialer,
	})
	return &producer{writer: writer}
}

func (p *producer) WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error {
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *producer) Close() error {
	return p.writer.Close()
}
