package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppPort       string
	AppBaseURL    string
	DBDSN         string
	JWTSecret     string
	JWTExpiresMin int

	RedisAddr     string
	RedisPassword string

	// console | smtp | resend
	MailDriver   string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromEmail    string
	ResendAPIKey string

	// log | twilio
	SMSDriver        string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
}

func Load() Config {
	expires, _ := strconv.Atoi(get("JWT_EXPIRES_MIN", "10080"))
	smtpPort, _ := strconv.Atoi(get("SMTP_PORT", "587"))
	return Config{
		AppPort:       get("APP_PORT", "8080"),
		AppBaseURL:    get("APP_BASE_URL", "http://localhost:8080"),
		DBDSN:         must("DB_DSN"),
		JWTSecret:     must("JWT_SECRET"),
		JWTExpiresMin: expires,

		RedisAddr:     get("REDIS_ADDR", "localhost:6379"),
		RedisPassword: get("REDIS_PASSWORD", ""),

		MailDriver:   get("MAIL_DRIVER", "console"),
		SMTPHost:     get("SMTP_HOST", ""),
		SMTPPort:     smtpPort,
		SMTPUser:     get("SMTP_USER", ""),
		SMTPPassword: get("SMTP_PASSWORD", ""),
		FromEmail:    get("FROM_EMAIL", "noreply@techsense.local"),
		ResendAPIKey: get("RESEND_API_KEY", ""),

		SMSDriver:        get("SMS_DRIVER", "log"),
		TwilioAccountSID: get("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  get("TWILIO_AUTH_TOKEN", ""),
		TwilioFrom:       get("TWILIO_FROM", ""),
	}
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
