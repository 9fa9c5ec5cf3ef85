package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config centralises all environment and runtime configuration for one
// service. Every service binary builds its own Config at startup and passes
// it down explicitly; there is no process-wide mutable state.
type Config struct {
	Logger *log.Logger

	ServiceName string
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Peer service base URLs.
	UserServiceURL        string
	TreatmentServiceURL   string
	AppointmentServiceURL string
	PaymentServiceURL     string

	// Optional treatment catalog read cache. Empty disables caching.
	RedisAddr string

	// SMTP settings for reminder mail. Empty host disables the mailer.
	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string

	// Amount used for an invoice when the appointment lookup fails.
	DefaultInvoiceAmount int64
}

// Load builds the Config for the named service, validating critical env vars.
func Load(serviceName, defaultPort string) *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file found. Using environment variables directly.")
	}

	logger := log.New(os.Stdout, serviceName+" ", log.LstdFlags)

	cfg := &Config{
		Logger:      logger,
		ServiceName: serviceName,
		Port:        getEnvOrDefault("PORT", defaultPort),
		DatabaseURL: getEnvOrFail(logger, "DATABASE_URL"),
		JWTSecret:   getEnvOrFail(logger, "JWT_SECRET"),

		UserServiceURL:        getEnvOrDefault("USER_SERVICE_URL", "http://localhost:5001"),
		TreatmentServiceURL:   getEnvOrDefault("TREATMENT_SERVICE_URL", "http://localhost:5002"),
		AppointmentServiceURL: getEnvOrDefault("APPOINTMENT_SERVICE_URL", "http://localhost:5003"),
		PaymentServiceURL:     getEnvOrDefault("PAYMENT_SERVICE_URL", "http://localhost:5004"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		SMTPHost:  os.Getenv("SMTP_HOST"),
		SMTPPort:  parseIntEnv("SMTP_PORT", 587),
		EmailUser: os.Getenv("EMAIL_USER"),
		EmailPass: os.Getenv("EMAIL_PASS"),

		DefaultInvoiceAmount: int64(parseIntEnv("DEFAULT_INVOICE_AMOUNT", 150000)),
	}

	return cfg
}

func getEnvOrFail(logger *log.Logger, key string) string {
	v := os.Getenv(key)
	if v == "" {
		logger.Fatalf("%s is not set", key)
	}
	return v
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
