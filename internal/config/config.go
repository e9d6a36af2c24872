package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	DBHost            string        `env:"DB_HOST,required"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,required"`
	DBPassword        string        `env:"DB_PASSWORD,required"`
	DBName            string        `env:"DB_NAME,required"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	ResendAPIKey    string        `env:"RESEND_API_KEY"`
	ResendBaseURL   string        `env:"RESEND_BASE_URL,default=https://api.resend.com"`
	ResendFromEmail string        `env:"RESEND_FROM_EMAIL,default=alerts@dealsight.co"`
	ResendTimeout   time.Duration `env:"RESEND_TIMEOUT,default=10s"`

	// DeliveryChannel selects the digest transport: "email" or "telegram".
	DeliveryChannel  string `env:"DELIVERY_CHANNEL,default=email"`
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	// IngestFeedWSURL points at the ingestion service's event feed; empty
	// disables the instant-alert trigger path.
	IngestFeedWSURL         string        `env:"INGEST_FEED_WS_URL"`
	IngestFeedReadTimeout   time.Duration `env:"INGEST_FEED_READ_TIMEOUT,default=0s"`
	IngestFeedReconnectWait time.Duration `env:"INGEST_FEED_RECONNECT_WAIT,default=10s"`

	EvaluateCron string `env:"EVALUATE_CRON,default=0 * * * *"`
	ProcessCron  string `env:"PROCESS_CRON,default=*/5 * * * *"`
	RecoverCron  string `env:"RECOVER_CRON,default=*/15 * * * *"`

	DeliveryTimeout      time.Duration `env:"DELIVERY_TIMEOUT,default=30s"`
	SweepTimeout         time.Duration `env:"SWEEP_TIMEOUT,default=10m"`
	ProcessingStaleAfter time.Duration `env:"PROCESSING_STALE_AFTER,default=30m"`

	HTTPAddr string `env:"HTTP_ADDR,default=:8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
