package kafka

import (
	"fmt"
	"strings"

	"github.com/IBM/sarama"
	"github.com/kelseyhightower/envconfig"
)

const (
	// ImageSentName поток событий об отправленных картинках (producer)
	ImageSentName = "image_sent"
	// ImageLibraryName поток обновлений библиотеки картинок (consumer)
	ImageLibraryName = "image_library"
)

// Config подключение к одному топику
type Config struct {
	Brokers          string `envconfig:"BROKERS"` // "broker1:9092,broker2:9092"
	Topic            string `envconfig:"TOPIC"`
	ConsumerGroup    string `envconfig:"CONSUMER_GROUP"`    // только для consumer
	SecurityProtocol string `envconfig:"SECURITY_PROTOCOL"` // "SASL_SSL", "SASL_PLAINTEXT", "PLAINTEXT"
	SASLMechanism    string `envconfig:"SASL_MECHANISM"`    // поддерживается только "PLAIN"
	SASLUsername     string `envconfig:"SASL_USERNAME"`
	SASLPassword     string `envconfig:"SASL_PASSWORD"`
}

func (c *Config) GetBrokers() []string {
	if c.Brokers == "" {
		return []string{"localhost:9092"}
	}
	brokers := strings.Split(c.Brokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return brokers
}

// Sarama базовый конфиг клиента с настройками безопасности
func (c *Config) Sarama() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "cnctd"

	if c.SecurityProtocol == "SASL_SSL" || c.SecurityProtocol == "SASL_PLAINTEXT" {
		config.Net.SASL.Enable = true
		config.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		config.Net.SASL.User = c.SASLUsername
		config.Net.SASL.Password = c.SASLPassword
		config.Net.TLS.Enable = c.SecurityProtocol == "SASL_SSL"
	}

	return config
}

// KafkaConfigs набор подключений: CNCTD_KAFKA_0_NAME, CNCTD_KAFKA_0_CONFIG_TOPIC, ...
type KafkaConfigs struct {
	Count int           `envconfig:"COUNT" default:"0"`
	List  []KafkaConfig `envconfig:"-"`
}

type KafkaConfig struct {
	Name   string  `envconfig:"NAME"` // image_sent, image_library
	Config *Config `envconfig:"CONFIG"`
}

// Load загружает Count подключений из окружения
func (kc *KafkaConfigs) Load(envPrefix string) error {
	kc.List = make([]KafkaConfig, kc.Count)
	for i := 0; i < kc.Count; i++ {
		prefix := fmt.Sprintf("%s_KAFKA_%d", envPrefix, i)
		var kafkaCfg KafkaConfig
		if err := envconfig.Process(prefix, &kafkaCfg); err != nil {
			return fmt.Errorf("failed to load kafka config %d: %w", i, err)
		}
		if kafkaCfg.Config == nil || kafkaCfg.Config.Topic == "" {
			return fmt.Errorf("kafka config %d (%s): topic is required", i, kafkaCfg.Name)
		}
		kc.List[i] = kafkaCfg
	}
	return nil
}

// Find конфиг по имени или nil
func (kc *KafkaConfigs) Find(name string) *Config {
	for _, c := range kc.List {
		if c.Name == name {
			return c.Config
		}
	}
	return nil
}
