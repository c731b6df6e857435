package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Admin        AdminConfig
	Registration RegistrationConfig
	Email        EmailConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Logging      LoggingConfig
	Environment  string
}

type ServerConfig struct {
	Host    string
	Port    int
	BaseURL string
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
}

// AdminConfig holds the shared secret for the admin dashboard. Every
// /admin route except login requires the X-Admin-Key header to match.
type AdminConfig struct {
	SecretKey string
}

type RegistrationConfig struct {
	// AllowedDomain is the single email domain permitted to register.
	AllowedDomain string
	OTPExpiry     time.Duration
}

const (
	EmailProviderSMTP   = "smtp"
	EmailProviderResend = "resend"
)

type EmailConfig struct {
	Enabled      bool
	Provider     string // "smtp" or "resend"
	From         string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	ResendAPIKey string
}

type RateLimitConfig struct {
	PublicPerMinute int
	OTPPerMinute    int
	AdminPerMinute  int
}

type CORSConfig struct {
	AllowedOrigins  []string
	AllowAllOrigins bool
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvInt("SERVER_PORT", 8080),
			BaseURL: getEnv("SERVER_BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConnections: getEnvInt("DATABASE_MAX_CONNECTIONS", 25),
		},
		Admin: AdminConfig{
			SecretKey: getEnv("ADMIN_SECRET_KEY", ""),
		},
		Registration: RegistrationConfig{
			AllowedDomain: strings.ToLower(getEnv("ALLOWED_EMAIL_DOMAIN", "example.edu")),
			OTPExpiry:     time.Duration(getEnvInt("OTP_EXPIRY_MINUTES", 10)) * time.Minute,
		},
		Email: EmailConfig{
			Enabled:      getEnvBool("EMAIL_ENABLED", true),
			Provider:     getEnv("EMAIL_PROVIDER", "smtp"),
			From:         getEnv("EMAIL_FROM", ""),
			SMTPHost:     getEnv("EMAIL_SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getEnvInt("EMAIL_SMTP_PORT", 587),
			SMTPUser:     getEnv("EMAIL_SMTP_USER", ""),
			SMTPPassword: getEnv("EMAIL_SMTP_PASSWORD", ""),
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		},
		RateLimit: RateLimitConfig{
			PublicPerMinute: getEnvInt("RATE_LIMIT_PUBLIC", 120),
			OTPPerMinute:    getEnvInt("RATE_LIMIT_OTP", 10),
			AdminPerMinute:  getEnvInt("RATE_LIMIT_ADMIN", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	origins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if cfg.Environment == "production" {
		if origins == "" {
			return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS is required in production")
		}
		cfg.CORS.AllowedOrigins = splitOrigins(origins)
	} else {
		cfg.CORS.AllowAllOrigins = true
		if origins != "" {
			cfg.CORS.AllowedOrigins = splitOrigins(origins)
		}
	}

	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Admin.SecretKey == "" {
		return Config{}, fmt.Errorf("ADMIN_SECRET_KEY is required")
	}
	if cfg.Registration.OTPExpiry <= 0 {
		return Config{}, fmt.Errorf("OTP_EXPIRY_MINUTES must be positive")
	}
	if cfg.Email.Enabled && cfg.Email.From == "" {
		return Config{}, fmt.Errorf("EMAIL_FROM is required when email is enabled")
	}
	switch cfg.Email.Provider {
	case EmailProviderSMTP, EmailProviderResend:
	default:
		return Config{}, fmt.Errorf("EMAIL_PROVIDER must be smtp or resend, got %q", cfg.Email.Provider)
	}
	return cfg, nil
}

func splitOrigins(value string) []string {
	parts := strings.Split(value, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
