package config

import (
	"context"
	"sync"

	"endurance-api/internal/common/enum"
	database "endurance-api/internal/pkg/db"
	"endurance-api/internal/pkg/gateway"
	"endurance-api/internal/pkg/geocode"
	"endurance-api/internal/pkg/rabbitmq"
	"endurance-api/internal/pkg/redis"
	s3aws "endurance-api/internal/pkg/storage/s3"
)

// Config holds all application configuration loaded from environment variables
type Config struct {
	AppEnv     enum.EnvEnum `env:"APP_ENV" envDefault:"development"`
	AppPort    int          `env:"APP_PORT" envDefault:"8080"`
	AppBaseURL string       `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisUser     string `env:"REDIS_USER" envDefault:"default"`
	RedisPass     string `env:"REDIS_PASS" envDefault:""`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	RabbitHost string `env:"RABBIT_HOST" envDefault:"localhost"`
	RabbitPort int    `env:"RABBIT_PORT" envDefault:"5672"`
	RabbitUser string `env:"RABBIT_USER" envDefault:"guest"`
	RabbitPass string `env:"RABBIT_PASS" envDefault:"guest"`

	DBHost string `env:"DB_HOST" envDefault:"localhost"`
	DBPort int    `env:"DB_PORT" envDefault:"5432"`
	DBUser string `env:"DB_USER" envDefault:"postgres"`
	DBPass string `env:"DB_PASS" envDefault:""`
	DBName string `env:"DB_NAME" envDefault:"endurance"`

	ViaCEPBaseURL string `env:"VIACEP_BASE_URL" envDefault:"https://viacep.com.br/ws"`
	// GeocodingAPIKey empty means the deterministic offline validator is used.
	GeocodingAPIKey string `env:"GEOCODING_API_KEY" envDefault:""`

	GatewayBaseURL        string `env:"GATEWAY_BASE_URL" envDefault:""`
	GatewayAPIKey         string `env:"GATEWAY_API_KEY" envDefault:""`
	GatewayCallbackSecret string `env:"GATEWAY_CALLBACK_SECRET" envDefault:""`

	PaymentExpiryMinutes int `env:"PAYMENT_EXPIRY_MINUTES" envDefault:"3"`
	DraftTTLHours        int `env:"DRAFT_TTL_HOURS" envDefault:"24"`

	// AWS is optional; boleto slips are only archived when a bucket is set.
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" envDefault:""`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" envDefault:""`
	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSBucketName      string `env:"AWS_BUCKET_NAME" envDefault:""`
}

// SetupServerDto contains dependencies for server setup
type SetupServerDto struct {
	Ctx      *context.Context
	Cancel   context.CancelFunc
	Wg       *sync.WaitGroup
	Env      *Config
	Db       *database.Database
	Rds      redis.IRedis
	Rb       *rabbitmq.ConnectionManager
	S3       s3aws.Is3
	Gw       *gateway.Client
	Resolver *geocode.Resolver
}
