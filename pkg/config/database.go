package config

import (
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// MongoConfig holds the document store connection configuration.
// The quiz content and the quiz_users credential collection live in the
// same database.
type MongoConfig struct {
	URI            string `env:"QUIZ_MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database       string `env:"QUIZ_MONGO_DATABASE" env-default:"quizdb"`
	ConnectTimeout string `env:"QUIZ_MONGO_CONNECT_TIMEOUT" env-default:"5s"`
	RetryInterval  string `env:"QUIZ_MONGO_RETRY_INTERVAL" env-default:"5s"`
	MaxPoolSize    uint64 `env:"QUIZ_MONGO_MAX_POOL_SIZE" env-default:"50"`
}

// ParseConnectTimeout parses the connect/server-selection timeout
func (m MongoConfig) ParseConnectTimeout() (time.Duration, error) {
	return ParseDuration(m.ConnectTimeout)
}

// ParseRetryInterval parses the reconnect supervisor backoff
func (m MongoConfig) ParseRetryInterval() (time.Duration, error) {
	return ParseDuration(m.RetryInterval)
}

// NewMongoConfigFromEnv creates a MongoConfig from environment variables
func NewMongoConfigFromEnv() MongoConfig {
	var cfg MongoConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read mongo config from env", "err", err)
	}
	return cfg
}
