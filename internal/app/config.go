package app

import (
	"fmt"

	server "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http"
	alerterAdapter "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/kafka"
	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/llm"
	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/storage/s3"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/logger"
	"github.com/cybersmrt-tony/cnctd.ai/internal/usecases/chat"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Postgres *pg.Config                `envconfig:"POSTGRES"`
	Log      *logger.Config            `envconfig:"LOG"`
	Server   *server.Config            `envconfig:"APISERVER"`
	CORS     *server.CORSConfig        `envconfig:"CORS"`
	Redis    *redisAdapter.Config      `envconfig:"REDIS"`
	S3       *s3Adapter.Config         `envconfig:"S3"`
	LLM      llm.Config                `envconfig:"LLM"`
	Kafka    kafkaAdapter.KafkaConfigs `envconfig:"KAFKA"`
	Alerter  *alerterAdapter.Config    `envconfig:"ALERTER"`
	Chat     chat.Config               `envconfig:"CHAT"`
}

// NewEnvConfig читает конфиг из окружения, локально подхватывает deployments/local/.env
func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	// Kafka загружаем вручную: envconfig не умеет определять размер слайса
	if err := cfg.Kafka.Load(envPrefix); err != nil {
		return nil, fmt.Errorf("failed to load kafka config: %w", err)
	}

	if err := cfg.Log.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}

	return cfg, nil
}
