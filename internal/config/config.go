package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":8082"`
	ServiceBaseURL string        `envconfig:"ORDER_SERVICE_URL" default:"http://order-service:8000/api/v1"`
	ServiceTimeout time.Duration `envconfig:"ORDER_SERVICE_TIMEOUT" default:"5s"`
	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"redis:6379"`
	KafkaBrokers   []string      `envconfig:"KAFKA_BROKERS" default:"kafka:9092"`
	ServiceName    string        `envconfig:"SERVICE_NAME" default:"fooddist-admin"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
