package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string `env:"PORT,        default=8080"`
	Env        string `env:"ENV,         default=development"`
	JWTSecret  string `env:"JWT_SECRET"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	BaseURL    string `env:"BASE_URL,    default=http://localhost:8080"`
	BcryptCost int    `env:"BCRYPT_COST, default=10"`

	Mongo    MongoConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Reminder ReminderConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=clinic_booking"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT, default=465"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
	SSL      bool   `env:"SMTP_SSL,  default=true"`
}

type ReminderConfig struct {
	// Interval is the sweep cadence; Lookahead is how far ahead of now an
	// appointment must be to receive a reminder.
	Interval  time.Duration `env:"REMINDER_INTERVAL,  default=1m"`
	Lookahead time.Duration `env:"REMINDER_LOOKAHEAD, default=1h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
