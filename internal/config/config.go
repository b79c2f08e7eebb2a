package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/portfolio/internal/mailer"
)

type Config struct {
	// Server
	Port     string
	Env      string // development, production
	LogLevel string

	// Mail
	MailProvider     string
	ContactRecipient string
	MailFromAddress  string
	MailFromName     string
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPass         string
	SendGridAPIKey   string
	SendGridHost     string

	// Limits
	RateLimitPerMinute int
	ClientHashKey      []byte
}

// Option adjusts a Config after it is read from the environment and before
// it is validated. Command-line flags are applied this way.
type Option func(*Config)

func Load(opts ...Option) (*Config, error) {
	// Load .env file if it exists (don't error if missing)
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", ""),

		ContactRecipient: getEnv("CONTACT_RECIPIENT", ""),
		MailFromAddress:  getEnv("MAIL_FROM_ADDRESS", ""),
		MailFromName:     getEnv("MAIL_FROM_NAME", "Portfolio"),
		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPass:         getEnv("SMTP_PASS", ""),
		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		SendGridHost:     getEnv("SENDGRID_HOST", ""),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 5),
	}
	cfg.MailProvider = getEnv("MAIL_PROVIDER", "")

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.MailProvider == "" {
		cfg.MailProvider = mailer.ProviderSMTP
		if cfg.IsDevelopment() {
			cfg.MailProvider = mailer.ProviderLog
		}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
		if cfg.IsDevelopment() {
			cfg.LogLevel = "debug"
		}
	}

	if key := getEnv("CLIENT_HASH_KEY", ""); key != "" {
		cfg.ClientHashKey = []byte(key)
	} else {
		cfg.ClientHashKey = make([]byte, 32)
		if _, err := rand.Read(cfg.ClientHashKey); err != nil {
			return nil, fmt.Errorf("generate client hash key: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.Env != "development" && c.Env != "production" {
		errs = append(errs, fmt.Errorf("ENV must be development or production, got %q", c.Env))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must not be negative"))
	}
	if len(c.ClientHashKey) > 64 {
		errs = append(errs, errors.New("CLIENT_HASH_KEY must be at most 64 bytes"))
	}

	switch c.MailProvider {
	case mailer.ProviderLog:
	case mailer.ProviderSMTP:
		if c.SMTPUser == "" || c.SMTPPass == "" {
			errs = append(errs, errors.New("SMTP_USER and SMTP_PASS are required for the smtp provider"))
		}
		if c.SMTPPort <= 0 {
			errs = append(errs, errors.New("SMTP_PORT must be positive"))
		}
	case mailer.ProviderSendGrid:
		if c.SendGridAPIKey == "" {
			errs = append(errs, errors.New("SENDGRID_API_KEY is required for the sendgrid provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("MAIL_PROVIDER must be smtp, sendgrid or log, got %q", c.MailProvider))
	}

	if c.MailProvider != mailer.ProviderLog {
		if c.ContactRecipient == "" {
			errs = append(errs, errors.New("CONTACT_RECIPIENT is required"))
		}
		if c.fromAddress() == "" {
			errs = append(errs, errors.New("MAIL_FROM_ADDRESS is required"))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// fromAddress falls back to the SMTP account, which is what Gmail sends as.
func (c *Config) fromAddress() string {
	if c.MailFromAddress != "" {
		return c.MailFromAddress
	}
	if c.MailProvider == mailer.ProviderSMTP {
		return c.SMTPUser
	}
	if c.MailProvider == mailer.ProviderLog {
		return "noreply@localhost"
	}
	return ""
}

// MailFrom is the formatted From header for outbound mail.
func (c *Config) MailFrom() string {
	addr := mail.Address{Name: c.MailFromName, Address: c.fromAddress()}
	return addr.String()
}

// Recipient is the address contact submissions are forwarded to.
func (c *Config) Recipient() string {
	if c.ContactRecipient == "" && c.MailProvider == mailer.ProviderLog {
		return "owner@localhost"
	}
	return c.ContactRecipient
}

// Mailer returns the transport configuration.
func (c *Config) Mailer() mailer.Config {
	return mailer.Config{
		Provider:       c.MailProvider,
		SMTPHost:       c.SMTPHost,
		SMTPPort:       c.SMTPPort,
		SMTPUser:       c.SMTPUser,
		SMTPPass:       c.SMTPPass,
		SendGridAPIKey: c.SendGridAPIKey,
		SendGridHost:   c.SendGridHost,
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := getEnv(key, ""); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}
