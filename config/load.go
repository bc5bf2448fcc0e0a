package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"

	SMSNone     = "none"
	SMSTwilio   = "twilio"
	SMSHardware = "hardware"
)

// Load reads the env file at path, if any, and builds the configuration from
// the process environment.
func Load(path string) (*AppConfig, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			log.Printf("Warning: Could not load %s. Falling back to system environment variables", path)
		}
	}

	cfg := &AppConfig{
		ServerPort:    getenvDefault("SERVER_PORT", "5643"),
		GinMode:       getenvDefault("GIN_MODE", "release"),
		AllowedOrigin: getenvDefault("ALLOWED_ORIGIN", "*"),

		RateLimitMax:     getenvPositiveInt("RATE_LIMIT_MAX", 5),
		RateLimitWindow:  getenvPositiveDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitCleanup: getenvPositiveDuration("RATE_LIMIT_CLEANUP", 5*time.Minute),

		RateStatsEnabled:       getenvBoolDefault("RATE_STATS_ENABLED", false),
		RateStatsRedisAddr:     os.Getenv("RATE_STATS_REDIS_ADDR"),
		RateStatsRedisPassword: os.Getenv("RATE_STATS_REDIS_PASSWORD"),
		RateStatsRedisDB:       getenvIntDefault("RATE_STATS_REDIS_DB", 0),
		RateStatsPrefix:        getenvDefault("RATE_STATS_PREFIX", "leads:ratelimit"),
		RateStatsTTL:           getenvPositiveDuration("RATE_STATS_TTL", 24*time.Hour),

		MailFrom:      getenvDefault("MAIL_FROM", "Стеклопром <onboarding@resend.dev>"),
		MailTo:        splitList(os.Getenv("MAIL_TO")),
		MailTimeout:   getenvPositiveDuration("MAIL_TIMEOUT", 10*time.Second),
		MailRate:      getenvPositiveFloat("MAIL_RATE", 1),
		MailBurst:     getenvPositiveInt("MAIL_BURST", 5),
		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		ResendBaseURL: getenvDefault("RESEND_BASE_URL", "https://api.resend.com"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getenvPositiveInt("SMTP_PORT", 587),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),

		SMSProvider:     strings.ToLower(getenvDefault("SMS_PROVIDER", SMSNone)),
		SMSAlertTo:      os.Getenv("SMS_ALERT_TO"),
		TwilioSID:       os.Getenv("TWILIO_SID"),
		TwilioAuthToken: os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhone:     os.Getenv("TWILIO_PHONE"),
		DevicePath:      os.Getenv("DEVICE_PATH"),
		SerialBaud:      getenvPositiveInt("SERIAL_BAUD", 115200),
		MaxQueueSize:    getenvPositiveInt("MAX_QUEUE_SIZE", 100),
	}

	cfg.MailProvider = strings.ToLower(os.Getenv("MAIL_PROVIDER"))
	if cfg.MailProvider == "" {
		cfg.MailProvider = ProviderSMTP
		if cfg.ResendAPIKey != "" {
			cfg.MailProvider = ProviderResend
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first structural problem in cfg.
func (cfg *AppConfig) Validate() error {
	if len(cfg.MailTo) == 0 {
		return errors.New("MAIL_TO is required")
	}
	switch cfg.MailProvider {
	case ProviderResend:
		if cfg.ResendAPIKey == "" {
			return errors.New("RESEND_API_KEY is required when MAIL_PROVIDER=resend")
		}
	case ProviderSMTP:
		if cfg.SMTPHost == "" {
			return errors.New("SMTP_HOST is required when MAIL_PROVIDER=smtp")
		}
	default:
		return errors.New("MAIL_PROVIDER must be resend or smtp")
	}
	if cfg.RateLimitMax <= 0 {
		return errors.New("RATE_LIMIT_MAX must be > 0")
	}
	if cfg.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be > 0")
	}
	if cfg.RateLimitCleanup <= 0 {
		return errors.New("RATE_LIMIT_CLEANUP must be > 0")
	}
	if cfg.MailTimeout <= 0 {
		return errors.New("MAIL_TIMEOUT must be > 0")
	}
	if cfg.MailRate <= 0 || cfg.MailBurst <= 0 {
		return errors.New("MAIL_RATE and MAIL_BURST must be > 0")
	}
	if cfg.RateStatsEnabled && strings.TrimSpace(cfg.RateStatsRedisAddr) == "" {
		return errors.New("RATE_STATS_REDIS_ADDR is required when RATE_STATS_ENABLED=true")
	}
	switch cfg.SMSProvider {
	case SMSNone:
	case SMSTwilio:
		if cfg.TwilioSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioPhone == "" {
			return errors.New("TWILIO_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE are required when SMS_PROVIDER=twilio")
		}
	case SMSHardware:
		if cfg.DevicePath == "" {
			return errors.New("DEVICE_PATH is required when SMS_PROVIDER=hardware")
		}
	default:
		return errors.New("SMS_PROVIDER must be none, twilio or hardware")
	}
	if cfg.SMSProvider != SMSNone && cfg.SMSAlertTo == "" {
		return errors.New("SMS_ALERT_TO is required when SMS alerts are enabled")
	}
	if cfg.SMSProvider != SMSNone && cfg.MaxQueueSize <= 0 {
		return errors.New("MAX_QUEUE_SIZE must be > 0 when SMS alerts are enabled")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	i, err := strconv.Atoi(os.Getenv(k))
	if err != nil || i < 0 {
		return def
	}
	return i
}

// The positive variants treat zero and negative values as unset.
func getenvPositiveInt(k string, def int) int {
	i, err := strconv.Atoi(os.Getenv(k))
	if err != nil || i <= 0 {
		return def
	}
	return i
}

func getenvPositiveFloat(k string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(k), 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(k))
	if err != nil {
		return def
	}
	return b
}

func getenvPositiveDuration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
