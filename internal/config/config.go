package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppEnv              string
	Port                string
	JWTSecret           string
	TokenTTL            time.Duration
	AllowedOrigins      string
	LogLevel            string
	SettlementThreshold decimal.Decimal
	SettlementInterval  time.Duration
	LoginRatePerMinute  int
	IdempotencyTTL      time.Duration
	MailgunDomain       string
	MailgunAPIKey       string
	MailSender          string
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, using environment: %v", err)
	}
	return Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		JWTSecret:           getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:            getDuration("TOKEN_TTL_MINUTES", 60),
		AllowedOrigins:      getEnv("ALLOWED_ORIGINS", "*"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		SettlementThreshold: getDecimal("SETTLEMENT_THRESHOLD", decimal.NewFromInt(1000)),
		SettlementInterval:  time.Duration(getInt("SETTLEMENT_CHECK_SECONDS", 60)) * time.Second,
		LoginRatePerMinute:  getInt("LOGIN_RATE_PER_MINUTE", 30),
		IdempotencyTTL:      getDuration("IDEMPOTENCY_TTL_MINUTES", 10),
		MailgunDomain:       getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:       getEnv("MAILGUN_API_KEY", ""),
		MailSender:          getEnv("MAIL_SENDER", "Sauti Pay <no-reply@sautipay.test>"),
	}
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "test"
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallbackMinutes int) time.Duration {
	return time.Duration(getInt(key, fallbackMinutes)) * time.Minute
}

func getDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil || parsed.IsNegative() {
		return fallback
	}
	return parsed
}
