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

	// Storage backend for OTP records and verified-email entries:
	// "memory" keeps everything process-resident (lost on restart),
	// "dynamo" uses the DynamoDB tables below.
	StoreBackend string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	// PricingDataURI points at the seed dataset: either a local JSON file
	// path or s3://bucket/key.
	PricingDataURI string

	SessionSecret string
	TokenExpiry   time.Duration

	OTPExpiry      time.Duration
	OTPMaxAttempts int
	VerifiedWindow time.Duration

	ResendAPIKey string
	EmailFrom    string
	EmailTimeout time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Otps           string
	VerifiedEmails string
	CityCosts      string
	PlanRates      string
	Visits         string
	VisitStats     string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		StoreBackend: getEnv("STORE_BACKEND", "memory"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Otps:           getEnv("DYNAMO_TABLE_OTPS", "otps"),
			VerifiedEmails: getEnv("DYNAMO_TABLE_VERIFIED_EMAILS", "verified_emails"),
			CityCosts:      getEnv("DYNAMO_TABLE_CITY_COSTS", "city_costs"),
			PlanRates:      getEnv("DYNAMO_TABLE_PLAN_RATES", "plan_rates"),
			Visits:         getEnv("DYNAMO_TABLE_VISITS", "user_visits"),
			VisitStats:     getEnv("DYNAMO_TABLE_VISIT_STATS", "user_stats"),
		},

		PricingDataURI: getEnv("PRICING_DATA_URI", "./pricing.json"),

		SessionSecret: getEnv("SESSION_SECRET", "dev-local-secret-key-12345"),
		TokenExpiry:   time.Duration(getEnvInt("TOKEN_EXPIRY_HOURS", 24)) * time.Hour,

		OTPExpiry:      time.Duration(getEnvInt("OTP_EXPIRY_MINUTES", 10)) * time.Minute,
		OTPMaxAttempts: getEnvInt("OTP_MAX_ATTEMPTS", 3),
		VerifiedWindow: time.Duration(getEnvInt("VERIFIED_WINDOW_HOURS", 24)) * time.Hour,

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "noreply@example.com"),
		EmailTimeout: time.Duration(getEnvInt("EMAIL_TIMEOUT_SECONDS", 10)) * time.Second,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
