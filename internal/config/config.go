package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	SMS       SMSConfig       `yaml:"sms"`
	GST       GSTConfig       `yaml:"gst"`
	Storage   StorageConfig   `yaml:"storage"`
	Links     LinksConfig     `yaml:"links"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Bypass    BypassConfig    `yaml:"bypass"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains SendGrid settings. An empty API key switches the
// email adapter into mock mode (messages logged, reported as sent).
type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
}

// SMSConfig contains SMS gateway settings. An empty gateway URL switches
// the SMS adapter into mock mode.
type SMSConfig struct {
	GatewayURL     string `yaml:"gateway_url"`
	APIKey         string `yaml:"api_key"`
	SenderID       string `yaml:"sender_id"`
	DefaultCountry string `yaml:"default_country"` // prefix applied to bare numbers, e.g. "+91"
}

// GSTConfig contains GSTIN verification settings. An empty API key puts the
// verification service into demo mode where only the sentinel GSTIN verifies.
type GSTConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	CacheTTLHours  int    `yaml:"cache_ttl_hours"`
	RateLimit      int    `yaml:"rate_limit"`
	RateWindowSecs int    `yaml:"rate_window_seconds"`
}

// StorageConfig contains QR image storage settings
type StorageConfig struct {
	Type      string `yaml:"type"`       // "local" or "s3"
	UploadDir string `yaml:"upload_dir"` // for local storage
	BaseURL   string `yaml:"base_url"`   // public base URL for stored files
}

// LinksConfig contains externally visible link bases
type LinksConfig struct {
	InviteBase       string `yaml:"invite_base"`
	RegistrationBase string `yaml:"registration_base"`
	LoginBase        string `yaml:"login_base"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SweepGSTCache       string `yaml:"sweep_gst_cache"`
	PurgeExpiredInvites string `yaml:"purge_expired_invites"`
}

// BypassConfig lists identities allowed to re-request invites without the
// duplicate-pending check (admin testing accounts).
type BypassConfig struct {
	Emails  []string `yaml:"emails"`
	Mobiles []string `yaml:"mobiles"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Email / SMS
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.FromEmail = val
	}
	if val := os.Getenv("SMS_GATEWAY_URL"); val != "" {
		c.SMS.GatewayURL = val
	}
	if val := os.Getenv("SMS_API_KEY"); val != "" {
		c.SMS.APIKey = val
	}

	// GST
	if val := os.Getenv("GST_API_KEY"); val != "" {
		c.GST.APIKey = val
	}

	// Storage
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}

	// Links
	if val := os.Getenv("INVITE_LINK_BASE"); val != "" {
		c.Links.InviteBase = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Storage defaults and validation
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.Type == "local" && c.Storage.UploadDir == "" {
		return fmt.Errorf("upload directory is required for local storage")
	}

	// Email defaults
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = "no-reply@example.com"
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Expo Events"
	}

	// SMS defaults
	if c.SMS.SenderID == "" {
		c.SMS.SenderID = "EXPO"
	}
	if c.SMS.DefaultCountry == "" {
		c.SMS.DefaultCountry = "+91"
	}

	// GST defaults
	if c.GST.BaseURL == "" {
		c.GST.BaseURL = "https://sheet.gstincheck.co.in/check"
	}
	if c.GST.TimeoutSeconds <= 0 {
		c.GST.TimeoutSeconds = 10
	}
	if c.GST.CacheTTLHours <= 0 {
		c.GST.CacheTTLHours = 24
	}
	if c.GST.RateLimit <= 0 {
		c.GST.RateLimit = 10
	}
	if c.GST.RateWindowSecs <= 0 {
		c.GST.RateWindowSecs = 60
	}

	// Link defaults
	if c.Links.InviteBase == "" {
		c.Links.InviteBase = "https://app.example.com/organization/register"
	}
	if c.Links.RegistrationBase == "" {
		c.Links.RegistrationBase = "https://app.example.com"
	}
	if c.Links.LoginBase == "" {
		c.Links.LoginBase = "https://app.example.com"
	}

	// Scheduler defaults (cron with seconds precision, UTC)
	if c.Scheduler.SweepGSTCache == "" {
		c.Scheduler.SweepGSTCache = "0 0 * * * *" // hourly
	}
	if c.Scheduler.PurgeExpiredInvites == "" {
		c.Scheduler.PurgeExpiredInvites = "0 0 2 * * *" // 2 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsBypassIdentity reports whether the email or mobile belongs to a
// configured admin-testing identity that skips duplicate-invite checks.
func (c *Config) IsBypassIdentity(email, mobile string) bool {
	for _, e := range c.Bypass.Emails {
		if e != "" && strings.EqualFold(e, email) {
			return true
		}
	}
	for _, m := range c.Bypass.Mobiles {
		if m != "" && m == mobile {
			return true
		}
	}
	return false
}
