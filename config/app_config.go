package config

import "time"

type AppConfig struct {
	ServerPort    string
	GinMode       string
	AllowedOrigin string // Access-Control-Allow-Origin value

	RateLimitMax     int           // Submissions per window per client
	RateLimitWindow  time.Duration // Window length, counted from the first submission
	RateLimitCleanup time.Duration // Interval of the expired-entry sweep

	RateStatsEnabled       bool
	RateStatsRedisAddr     string
	RateStatsRedisPassword string
	RateStatsRedisDB       int
	RateStatsPrefix        string
	RateStatsTTL           time.Duration

	MailProvider  string // "resend" or "smtp"
	MailFrom      string
	MailTo        []string
	MailTimeout   time.Duration
	MailRate      float64 // Provider calls per second
	MailBurst     int
	ResendAPIKey  string
	ResendBaseURL string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string

	SMSProvider     string // "none", "twilio" or "hardware"
	SMSAlertTo      string
	TwilioSID       string
	TwilioAuthToken string
	TwilioPhone     string
	DevicePath      string // Path to the serial device
	SerialBaud      int
	MaxQueueSize    int // Maximum SMS queue size
}
