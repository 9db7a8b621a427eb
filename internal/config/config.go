package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Booking endpoint, the system of record.
	BookingAPIURL  string        `mapstructure:"BOOKING_API_URL"`
	BookingTimeout time.Duration `mapstructure:"BOOKING_TIMEOUT"`
	EmailTimeout   time.Duration `mapstructure:"EMAIL_TIMEOUT"`

	ServiceName     string `mapstructure:"SERVICE_NAME"`
	ServiceDuration string `mapstructure:"SERVICE_DURATION"`
	ServicePrice    string `mapstructure:"SERVICE_PRICE"`
	BusinessName    string `mapstructure:"BUSINESS_NAME"`
	BusinessEmail   string `mapstructure:"BUSINESS_EMAIL"`

	// Confirmation email: EmailJS wins over SendGrid when both are set.
	EmailJSURL        string `mapstructure:"EMAILJS_URL"`
	EmailJSServiceID  string `mapstructure:"EMAILJS_SERVICE_ID"`
	EmailJSTemplateID string `mapstructure:"EMAILJS_TEMPLATE_ID"`
	EmailJSPublicKey  string `mapstructure:"EMAILJS_PUBLIC_KEY"`
	SendGridAPIKey    string `mapstructure:"SENDGRID_API_KEY"`
	SendGridFromEmail string `mapstructure:"SENDGRID_FROM_EMAIL"`
	SendGridFromName  string `mapstructure:"SENDGRID_FROM_NAME"`

	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `mapstructure:"TWILIO_FROM_NUMBER"`

	FormspreeURL      string `mapstructure:"FORMSPREE_URL"`
	ContactRatePerMin int    `mapstructure:"CONTACT_RATE_PER_MIN"`

	// Optional backing stores. Empty means in-process defaults.
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`
	SessionSecret string        `mapstructure:"SESSION_SECRET"`
	CORSOrigins   string        `mapstructure:"CORS_ORIGINS"`
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"ENV":                  "development",
	"LOG_LEVEL":            "info",
	"BOOKING_API_URL":      "http://localhost:3000/api/bookings",
	"BOOKING_TIMEOUT":      "15s",
	"EMAIL_TIMEOUT":        "10s",
	"SERVICE_NAME":         "Personal Styling",
	"SERVICE_DURATION":     "90 minutes",
	"SERVICE_PRICE":        "$150",
	"BUSINESS_NAME":        "LWS Styling",
	"BUSINESS_EMAIL":       "hello@lwsstyling.com",
	"EMAILJS_URL":          "https://api.emailjs.com/api/v1.0/email/send-form",
	"EMAILJS_SERVICE_ID":   "",
	"EMAILJS_TEMPLATE_ID":  "",
	"EMAILJS_PUBLIC_KEY":   "",
	"SENDGRID_API_KEY":     "",
	"SENDGRID_FROM_EMAIL":  "",
	"SENDGRID_FROM_NAME":   "LWS Styling",
	"TWILIO_ACCOUNT_SID":   "",
	"TWILIO_AUTH_TOKEN":    "",
	"TWILIO_FROM_NUMBER":   "",
	"FORMSPREE_URL":        "",
	"CONTACT_RATE_PER_MIN": 5,
	"DATABASE_URL":         "",
	"REDIS_ADDR":           "",
	"REDIS_PASSWORD":       "",
	"REDIS_DB":             0,
	"SESSION_TTL":          "2h",
	"SESSION_SECRET":       "",
	"CORS_ORIGINS":         "http://localhost:3000",
}

// Load reads a .env file when present, then the environment, over the defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) EmailJSEnabled() bool {
	return c.EmailJSServiceID != "" && c.EmailJSTemplateID != "" && c.EmailJSPublicKey != ""
}

func (c *Config) SendGridEnabled() bool {
	return c.SendGridAPIKey != "" && c.SendGridFromEmail != ""
}

func (c *Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
