package config

import (
	"os"
	"strconv"
)

// Config collects every environment-driven setting read at boot.
type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWTSecret   string

	MaxRequestsPerDay int
	ExpireSweepCron   string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	CloudinaryURL string
}

// Load reads the configuration from environment variables, applying defaults
// where sensible. godotenv.Load is expected to have run already.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		MaxRequestsPerDay: getEnvInt("MAX_REQUEST_PER_DAY", 2),
		ExpireSweepCron:   getEnv("EXPIRE_SWEEP_CRON", "@every 15m"),

		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "TamVems"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),

		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
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
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
