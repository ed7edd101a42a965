package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"

	kafkaAdapter "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/kafka"
	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/metrics"
	kafkaPorts "github.com/cybersmrt-tony/cnctd.ai/internal/ports/kafka"
)

// Consumer реализация Kafka consumer
type Consumer struct {
	consumer sarama.ConsumerGroup
	cfg      *kafkaAdapter.Config
	handler  kafkaPorts.MessageHandler
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewConsumer создаёт новый Kafka consumer
func NewConsumer(cfg *kafkaAdapter.Config, handler kafkaPorts.MessageHandler, m *metrics.Metrics, log *slog.Logger) (*Consumer, error) {
	config := cfg.Sarama()
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumer, err := sarama.NewConsumerGroup(cfg.GetBrokers(), cfg.ConsumerGroup, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	log.Info("kafka consumer created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
		"consumer_group", cfg.ConsumerGroup,
	)

	return &Consumer{
		consumer: consumer,
		cfg:      cfg,
		handler:  handler,
		metrics:  m,
		log:      log,
	}, nil
}

// Start читает топик до отмены контекста
func (c *Consumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{
		handler: c.handler,
		metrics: c.metrics,
		log:     c.log,
		topic:   c.cfg.Topic,
	}

	for {
		if err := c.consumer.Consume(ctx, []string{c.cfg.Topic}, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			c.log.Error("error from consumer",
				"error", err,
				"topic", c.cfg.Topic,
			)
			return fmt.Errorf("consumer error: %w", err)
		}
		if ctx.Err() != nil {
			c.log.Info("kafka consumer stopping", "topic", c.cfg.Topic)
			return nil
		}
	}
}

// Close закрывает consumer
func (c *Consumer) Close() error {
	if err := c.consumer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka consumer: %w", err)
	}
	c.log.Info("kafka consumer closed", "topic", c.cfg.Topic)
	return nil
}

// consumerGroupHandler реализует sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	handler kafkaPorts.MessageHandler
	metrics *metrics.Metrics
	log     *slog.Logger
	topic   string
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.log.Info("kafka consumer group session setup", "topic", h.topic)
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	h.log.Info("kafka consumer group session cleanup", "topic", h.topic)
	return nil
}

// ConsumeClaim обрабатывает сообщения из Kafka
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case <-session.Context().Done():
			return nil
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if h.process(session.Context(), message) {
				session.MarkMessage(message, "")
			}
		}
	}
}

// process возвращает true, если offset можно коммитить
func (h *consumerGroupHandler) process(ctx context.Context, message *sarama.ConsumerMessage) bool {
	key := string(message.Key)

	err := h.handler.HandleMessage(ctx, key, message.Value)
	switch {
	case err == nil:
		h.observe("ok")
		return true
	case domain.IsBusinessError(err):
		// битое сообщение не станет валидным при повторе
		h.log.Warn("kafka message skipped",
			"error", err,
			"topic", message.Topic,
			"key", key,
			"offset", message.Offset,
		)
		h.observe("skipped")
		return true
	default:
		h.log.Error("failed to handle kafka message",
			"error", err,
			"topic", message.Topic,
			"key", key,
			"partition", message.Partition,
			"offset", message.Offset,
		)
		h.observe("error")
		return false
	}
}

func (h *consumerGroupHandler) observe(result string) {
	if h.metrics == nil {
		return
	}
	h.metrics.KafkaMessages.WithLabelValues(h.topic, result).Inc()
}
