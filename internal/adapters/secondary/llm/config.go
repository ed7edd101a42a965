package llm

import "time"

// Config OpenAI-совместимый endpoint генерации ответов
type Config struct {
	APIKey      string        `envconfig:"API_KEY"`
	BaseURL     string        `envconfig:"BASE_URL"` // пусто = api.openai.com
	Model       string        `envconfig:"MODEL" default:"gpt-4o-mini"`
	MaxTokens   int           `envconfig:"MAX_TOKENS" default:"256"`
	Temperature float32       `envconfig:"TEMPERATURE" default:"0.8"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"30s"`
}
