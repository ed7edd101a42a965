package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	kafkaPorts "github.com/cybersmrt-tony/cnctd.ai/internal/ports/kafka"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/service"
)

var (
	_ kafkaPorts.IKafkaProducer = (*Producer)(nil)
	_ service.IEventPublisher   = (*Producer)(nil)
)

// Producer синхронный producer в один топик
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

func NewProducer(cfg *Config, log *slog.Logger) (*Producer, error) {
	config := cfg.Sarama()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(cfg.GetBrokers(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic)

	return newProducer(producer, cfg.Topic, log), nil
}

func newProducer(producer sarama.SyncProducer, topic string, log *slog.Logger) *Producer {
	return &Producer{producer: producer, topic: topic, log: log}
}

// Send отправляет сообщение в топик producer'а
func (p *Producer) Send(ctx context.Context, key string, value []byte) error {
	return p.send(key, value, nil)
}

func (p *Producer) send(key string, value []byte, headers []sarama.RecordHeader) error {
	msg := &sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(value),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Debug("kafka send failed",
			"error", err,
			"topic", p.topic,
			"key", key)
		return fmt.Errorf("kafka send failed [topic=%s, key=%s]: %w", p.topic, key, err)
	}

	p.log.Debug("message sent to kafka",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"key", key)
	return nil
}

// PublishImageSent событие image_sent, ключ сообщения user_id: события одного пользователя идут по порядку
func (p *Producer) PublishImageSent(ctx context.Context, event domain.ImageSentEvent) error {
	value, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal image_sent event: %w", err)
	}
	return p.send(event.UserID, value, []sarama.RecordHeader{
		{Key: []byte("event"), Value: []byte(event.Event)},
		{Key: []byte("avatar_id"), Value: []byte(event.AvatarID)},
	})
}

func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	p.log.Info("kafka producer closed", "topic", p.topic)
	return nil
}
