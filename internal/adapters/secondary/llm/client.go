package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/metrics"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/service"
	"github.com/sashabaranov/go-openai"
)

var ErrNoChoices = errors.New("llm returned no choices")

// Client генератор ответов аватара через chat completions
type Client struct {
	client  *openai.Client
	cfg     Config
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewClient(cfg Config, m *metrics.Metrics, log *slog.Logger) service.ITextGenerator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 256
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.8
	}

	return &Client{
		client:  openai.NewClientWithConfig(clientConfig),
		cfg:     cfg,
		metrics: m,
		log:     log,
	}
}

// Generate системный промпт = личность аватара, дальше история в хронологическом порядке.
// Пустой ответ модели возвращается как пустая строка
func (c *Client) Generate(ctx context.Context, avatar *domain.Avatar, history []domain.ChatTurn) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    buildMessages(avatar, history),
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	c.observe(start, err)
	if err != nil {
		c.log.Error("llm request failed",
			"error", err,
			"avatar_id", avatar.ID,
			"model", c.cfg.Model)
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	c.log.Debug("llm reply generated",
		"avatar_id", avatar.ID,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) observe(start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.ReplyDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ReplyErrors.Inc()
	}
}

func buildMessages(avatar *domain.Avatar, history []domain.ChatTurn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: avatar.PersonalityPrompt,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		switch turn.Role {
		case domain.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		case domain.RoleSystem:
			role = openai.ChatMessageRoleSystem
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	return messages
}
