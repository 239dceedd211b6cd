package kafka

import (
	"context"
	"time"

	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/pkg/types/common"
)

// Config is the messaging.kafka configuration section.
type Config struct {
	Enabled           bool          `mapstructure:"enabled" yaml:"enabled"`
	Brokers           []string      `mapstructure:"brokers" yaml:"brokers"`
	ClientID          string        `mapstructure:"client_id" yaml:"client_id"`
	GroupID           string        `mapstructure:"group_id" yaml:"group_id"`
	Acks              string        `mapstructure:"acks" yaml:"acks"`
	Compression       string        `mapstructure:"compression" yaml:"compression"`
	MaxRetries        int           `mapstructure:"max_retries" yaml:"max_retries"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	PublishTimeout    time.Duration `mapstructure:"publish_timeout" yaml:"publish_timeout"`
	AutoOffsetReset   string        `mapstructure:"auto_offset_reset" yaml:"auto_offset_reset"`
	DeadLetterTopic   string        `mapstructure:"dead_letter_topic" yaml:"dead_letter_topic"`
	AutoCreateTopics  bool          `mapstructure:"auto_create_topics" yaml:"auto_create_topics"`
	Partitions        int           `mapstructure:"partitions" yaml:"partitions"`
	ReplicationFactor int           `mapstructure:"replication_factor" yaml:"replication_factor"`
	SASL              SASLConfig    `mapstructure:"sasl" yaml:"sasl"`
	TLS               TLSConfig     `mapstructure:"tls" yaml:"tls"`
}

func (c Config) ProducerConfig() ProducerConfig {
	return ProducerConfig{
		Brokers:          c.Brokers,
		ClientID:         c.ClientID,
		Acks:             c.Acks,
		MaxRetries:       c.MaxRetries,
		CompressionCodec: c.Compression,
		WriteTimeout:     c.WriteTimeout,
		SASL:             c.SASL,
		TLS:              c.TLS,
	}
}

func (c Config) ConsumerConfig(topics ...string) ConsumerConfig {
	return ConsumerConfig{
		Brokers:         c.Brokers,
		GroupID:         c.GroupID,
		Topics:          topics,
		AutoOffsetReset: c.AutoOffsetReset,
		SASL:            c.SASL,
		TLS:             c.TLS,
		Retry: RetryConfig{
			MaxRetries:      c.MaxRetries,
			DeadLetterTopic: c.DeadLetterTopic,
		},
	}
}

// MessagePublisher is satisfied by *Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *common.ProducerMessage) error
}

// EventPublisher publishes domain events to the topic named by their type.
type EventPublisher struct {
	producer MessagePublisher
	timeout  time.Duration
	logger   logging.Logger
}

func NewEventPublisher(p MessagePublisher, timeout time.Duration, logger logging.Logger) *EventPublisher {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &EventPublisher{producer: p, timeout: timeout, logger: logger}
}

// Publish sends ev and waits at most the configured timeout for the write.
func (p *EventPublisher) Publish(ctx context.Context, ev common.DomainEvent) error {
	env, err := NewEventEnvelope(ev)
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(ev.EventType())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.producer.Publish(ctx, msg); err != nil {
		return err
	}
	p.logger.Debug("Event published", logging.String("type", ev.EventType()), logging.String("event_id", ev.EventID()))
	return nil
}

// NopPublisher discards events. It stands in when messaging is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, common.DomainEvent) error { return nil }

//Personal.AI order the ending
