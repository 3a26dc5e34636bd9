package cmd

import (
	"os"

	"dropmarket/internal/pkg/errs"

	"github.com/joho/godotenv"
)

// Config carries every runtime setting of the service. Optional subsystems
// (Kafka bridge, external payment gateway, S3 storage, Redis cache,
// Telegram notifications) stay disabled when their settings are empty.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	AuthSecret string

	GeoServiceURL string

	KafkaHosts               string
	KafkaConsumerGroup       string
	KafkaPartnerOrdersTopic  string
	KafkaDeliveryEventsTopic string

	PaymentBaseURL string
	PaymentAPIKey  string

	StorageEndpoint      string
	StorageRegion        string
	StorageBucket        string
	StorageAccessKey     string
	StorageSecretKey     string
	StorageUsePathStyle  bool
	StoragePublicBaseURL string

	RedisAddr     string
	RedisPassword string

	TelegramToken string
}

// LoadConfig reads configuration from the environment, with a .env file as
// an optional local override.
func LoadConfig() (Config, error) {
	// A missing .env file is fine: production reads the environment directly.
	_ = godotenv.Load(".env")

	config := Config{
		HTTPPort:                 envOr("HTTP_PORT", "8080"),
		DBHost:                   os.Getenv("DB_HOST"),
		DBPort:                   envOr("DB_PORT", "5432"),
		DBUser:                   os.Getenv("DB_USER"),
		DBPassword:               os.Getenv("DB_PASSWORD"),
		DBName:                   os.Getenv("DB_NAME"),
		DBSslMode:                envOr("DB_SSLMODE", "disable"),
		AuthSecret:               os.Getenv("AUTH_SECRET"),
		GeoServiceURL:            os.Getenv("GEO_SERVICE_URL"),
		KafkaHosts:               os.Getenv("KAFKA_HOSTS"),
		KafkaConsumerGroup:       envOr("KAFKA_CONSUMER_GROUP", "dropmarket"),
		KafkaPartnerOrdersTopic:  envOr("KAFKA_PARTNER_ORDERS_TOPIC", "partner.orders"),
		KafkaDeliveryEventsTopic: envOr("KAFKA_DELIVERY_EVENTS_TOPIC", "delivery.events"),
		PaymentBaseURL:           os.Getenv("PAYMENT_BASE_URL"),
		PaymentAPIKey:            os.Getenv("PAYMENT_API_KEY"),
		StorageEndpoint:          os.Getenv("STORAGE_ENDPOINT"),
		StorageRegion:            os.Getenv("STORAGE_REGION"),
		StorageBucket:            os.Getenv("STORAGE_BUCKET"),
		StorageAccessKey:         os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey:         os.Getenv("STORAGE_SECRET_KEY"),
		StorageUsePathStyle:      os.Getenv("STORAGE_USE_PATH_STYLE") == "true",
		StoragePublicBaseURL:     os.Getenv("STORAGE_PUBLIC_BASE_URL"),
		RedisAddr:                os.Getenv("REDIS_ADDR"),
		RedisPassword:            os.Getenv("REDIS_PASSWORD"),
		TelegramToken:            os.Getenv("TELEGRAM_TOKEN"),
	}

	if config.DBHost == "" {
		return Config{}, errs.NewValueIsRequiredError("DB_HOST")
	}
	if config.DBUser == "" {
		return Config{}, errs.NewValueIsRequiredError("DB_USER")
	}
	if config.DBName == "" {
		return Config{}, errs.NewValueIsRequiredError("DB_NAME")
	}
	if config.AuthSecret == "" {
		return Config{}, errs.NewValueIsRequiredError("AUTH_SECRET")
	}

	return config, nil
}

func envOr(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
