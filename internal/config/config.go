package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	LogLevel string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	// PushProvider selects the delivery backend: "fcm" or "sns".
	PushProvider       string
	FCMCredentialsFile string
	SNSRegion          string

	StreamEnabled      bool
	StreamPollInterval time.Duration

	WebhookJWTSecret string
	WebhookJWTExpiry time.Duration
	AllowedOrigins   []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users     string
	Companies string
	Orders    string
	Suppliers string
	Products  string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		AWSRegion:      getEnv("AWS_REGION", "eu-west-4"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:     getEnv("DYNAMO_TABLE_USERS", "users"),
			Companies: getEnv("DYNAMO_TABLE_COMPANIES", "companies"),
			Orders:    getEnv("DYNAMO_TABLE_ORDERS", "orders"),
			Suppliers: getEnv("DYNAMO_TABLE_SUPPLIERS", "suppliers"),
			Products:  getEnv("DYNAMO_TABLE_PRODUCTS", "products"),
		},

		PushProvider:       getEnv("PUSH_PROVIDER", "fcm"),
		FCMCredentialsFile: getEnv("FCM_CREDENTIALS_FILE", ""),
		SNSRegion:          getEnv("SNS_REGION", "eu-west-4"),

		StreamEnabled:      getEnvBool("STREAM_ENABLED", true),
		StreamPollInterval: getEnvDuration("STREAM_POLL_INTERVAL", 2*time.Second),

		WebhookJWTSecret: getEnv("WEBHOOK_JWT_SECRET", ""),
		WebhookJWTExpiry: getEnvDuration("WEBHOOK_JWT_EXPIRY", 24*time.Hour),
		AllowedOrigins:   strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
