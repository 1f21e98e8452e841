package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App          AppSettings       `yaml:"app"`
	Server       ServerSettings    `yaml:"server"`
	Session      SessionSettings   `yaml:"session"`
	Store        StoreSettings     `yaml:"store"`
	PasswordHash HashSettings      `yaml:"password_hash"`
	Reset        ResetSettings     `yaml:"reset"`
	Chat         ChatSettings      `yaml:"chat"`
	Mail         MailSettings      `yaml:"mail"`
	RateLimit    RateLimitSettings `yaml:"rate_limit"`
	Logging      LoggingSettings   `yaml:"logging"`
	CORS         CORSSettings      `yaml:"cors"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT"`
	StaticDir       string        `yaml:"static_dir" env:"SERVER_STATIC_DIR"`
}

// SessionSettings controls the signed browser session cookie
type SessionSettings struct {
	Secret     string        `yaml:"secret" env:"SESSION_SECRET"`
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
	TTL        time.Duration `yaml:"ttl" env:"SESSION_TTL"`
	Secure     bool          `yaml:"secure" env:"SESSION_COOKIE_SECURE"`
	Issuer     string        `yaml:"issuer" env:"SESSION_ISSUER"`
}

// StoreSettings selects and configures the key-value store backend
type StoreSettings struct {
	Backend         string           `yaml:"backend" env:"STORE_BACKEND"`
	CleanupInterval time.Duration    `yaml:"cleanup_interval" env:"STORE_CLEANUP_INTERVAL"`
	EncryptionKey   string           `yaml:"encryption_key" env:"STORE_ENCRYPTION_KEY"`
	Redis           RedisSettings    `yaml:"redis"`
	Database        DatabaseSettings `yaml:"database"`
}

// RedisSettings contains redis connection settings
type RedisSettings struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

// DatabaseSettings contains database connection settings
type DatabaseSettings struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	Name     string `yaml:"name" env:"DB_NAME"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	MaxConns int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
}

// HashSettings contains password hashing settings
type HashSettings struct {
	Memory      uint32 `yaml:"memory" env:"HASH_MEMORY"`
	Iterations  uint32 `yaml:"iterations" env:"HASH_ITERATIONS"`
	Parallelism uint8  `yaml:"parallelism" env:"HASH_PARALLELISM"`
	SaltLength  uint32 `yaml:"salt_length" env:"HASH_SALT_LENGTH"`
	KeyLength   uint32 `yaml:"key_length" env:"HASH_KEY_LENGTH"`
}

// ResetSettings contains password reset settings
type ResetSettings struct {
	CodeTTL time.Duration `yaml:"code_ttl" env:"RESET_CODE_TTL"`
}

// ChatSettings configures the generative chat API client
type ChatSettings struct {
	APIKey  string        `yaml:"api_key" env:"GEMINI_API_KEY"`
	BaseURL string        `yaml:"base_url" env:"GEMINI_BASE_URL"`
	Model   string        `yaml:"model" env:"GEMINI_MODEL"`
	Timeout time.Duration `yaml:"timeout" env:"GEMINI_TIMEOUT"`
}

// MailSettings configures how reset codes are delivered
type MailSettings struct {
	Provider       string       `yaml:"provider" env:"MAIL_PROVIDER"`
	From           string       `yaml:"from" env:"MAIL_FROM"`
	FromName       string       `yaml:"from_name" env:"MAIL_FROM_NAME"`
	SendGridAPIKey string       `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
	SMTP           SMTPSettings `yaml:"smtp"`
}

// SMTPSettings contains SMTP relay settings
type SMTPSettings struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
}

// RateLimitSettings contains per-client throttling settings
type RateLimitSettings struct {
	Enabled           bool `yaml:"enabled" env:"RATE_LIMIT_ENABLED"`
	RequestsPerMinute int  `yaml:"requests_per_minute" env:"RATE_LIMIT_RPM"`
	Burst             int  `yaml:"burst" env:"RATE_LIMIT_BURST"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Pretty     bool   `yaml:"pretty" env:"LOG_PRETTY"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// DSN returns the driver specific connection string
func (dbs *DatabaseSettings) DSN() string {
	if dbs.Driver == constants.DriverPostgres {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s %s",
			dbs.Host, dbs.Port, dbs.User, dbs.Password, dbs.Name, constants.PostgresSSLDisable,
		)
	}

	// MariaDB/MySQL connection string format: username:password@tcp(host:port)/dbname
	password := dbs.Password
	if password != "" {
		password = ":" + password
	}

	return fmt.Sprintf(
		"%s%s@tcp(%s:%d)/%s?%s",
		dbs.User, password, dbs.Host, dbs.Port, dbs.Name, constants.MySQLParams,
	)
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// Configured reports whether an API key is available for the chat proxy
func (cs *ChatSettings) Configured() bool {
	return strings.TrimSpace(cs.APIKey) != ""
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

var (
	// cfg holds the current application configuration
	cfg *AppConfig
)

// Load loads the configuration from a config file and environment variables
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = config

	logConfig(config)

	return config, nil
}

// Get returns the current application configuration
func Get() *AppConfig {
	if cfg == nil {
		log.Fatal().Msg("configuration not loaded")
	}
	return cfg
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = constants.DefaultSessionIssuer
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}

	// Server defaults
	if config.Server.Host == "" {
		config.Server.Host = constants.DefaultServerHost
	}
	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}
	if config.Server.IdleTimeout == 0 {
		config.Server.IdleTimeout = constants.DefaultIdleTimeout
	}

	// Session defaults
	if config.Session.CookieName == "" {
		config.Session.CookieName = constants.DefaultSessionCookieName
	}
	if config.Session.TTL == 0 {
		config.Session.TTL = constants.DefaultSessionTTL
	}
	if config.Session.Issuer == "" {
		config.Session.Issuer = constants.DefaultSessionIssuer
	}

	// Store defaults
	if config.Store.Backend == "" {
		config.Store.Backend = constants.StoreBackendMemory
	}
	if config.Store.CleanupInterval == 0 {
		config.Store.CleanupInterval = constants.StoreCleanupInterval
	}
	if config.Store.Redis.Addr == "" {
		config.Store.Redis.Addr = "localhost:6379"
	}
	if config.Store.Database.Driver == "" {
		config.Store.Database.Driver = constants.DriverMySQL
	}
	if config.Store.Database.Port == 0 {
		if config.Store.Database.Driver == constants.DriverPostgres {
			config.Store.Database.Port = 5432
		} else {
			config.Store.Database.Port = 3306
		}
	}
	if config.Store.Database.MaxConns == 0 {
		config.Store.Database.MaxConns = 20
	}
	if config.Store.Database.MinConns == 0 {
		config.Store.Database.MinConns = 5
	}

	// Password hash defaults, lower outside production
	if config.PasswordHash.Memory == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Memory = constants.DefaultPasswordHashMemory
		} else {
			config.PasswordHash.Memory = constants.DevPasswordHashMemory
		}
	}
	if config.PasswordHash.Iterations == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Iterations = constants.DefaultPasswordHashIterations
		} else {
			config.PasswordHash.Iterations = constants.DevPasswordHashIterations
		}
	}
	if config.PasswordHash.Parallelism == 0 {
		config.PasswordHash.Parallelism = constants.DefaultPasswordHashParallelism
	}
	if config.PasswordHash.SaltLength == 0 {
		config.PasswordHash.SaltLength = constants.DefaultPasswordHashSaltLength
	}
	if config.PasswordHash.KeyLength == 0 {
		config.PasswordHash.KeyLength = constants.DefaultPasswordHashKeyLength
	}

	if config.Reset.CodeTTL == 0 {
		config.Reset.CodeTTL = constants.DefaultResetCodeTTL
	}

	// Chat defaults
	if config.Chat.BaseURL == "" {
		config.Chat.BaseURL = constants.DefaultChatBaseURL
	}
	if config.Chat.Model == "" {
		config.Chat.Model = constants.DefaultChatModel
	}
	if config.Chat.Timeout == 0 {
		config.Chat.Timeout = constants.DefaultChatTimeout
	}

	// Mail defaults
	if config.Mail.Provider == "" {
		config.Mail.Provider = constants.MailProviderLog
	}
	if config.Mail.From == "" {
		config.Mail.From = constants.DefaultMailFrom
	}
	if config.Mail.FromName == "" {
		config.Mail.FromName = constants.DefaultMailFromName
	}
	if config.Mail.SMTP.Port == 0 {
		config.Mail.SMTP.Port = 587
	}

	if config.RateLimit.RequestsPerMinute == 0 {
		config.RateLimit.RequestsPerMinute = constants.DefaultRateLimitPerMinute
	}
	if config.RateLimit.Burst == 0 {
		config.RateLimit.Burst = constants.DefaultRateLimitBurst
	}

	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}

	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"*"}
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	if config.Session.Secret == "" || config.Session.Secret == "changeme" {
		if config.App.IsProduction() {
			return fmt.Errorf("session secret must be set in production")
		}
		log.Warn().Msg("Session secret not set, using an insecure development secret")
		config.Session.Secret = "insecure-development-secret"
	}

	switch config.Store.Backend {
	case constants.StoreBackendMemory, constants.StoreBackendRedis:
	case constants.StoreBackendSQL:
		if config.Store.Database.User == "" {
			return fmt.Errorf("database user must be set for the sql store backend")
		}
		if config.Store.Database.Driver != constants.DriverMySQL && config.Store.Database.Driver != constants.DriverPostgres {
			return fmt.Errorf("unsupported database driver: %s", config.Store.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported store backend: %s", config.Store.Backend)
	}

	switch config.Mail.Provider {
	case constants.MailProviderLog:
	case constants.MailProviderSMTP:
		if config.Mail.SMTP.Host == "" {
			return fmt.Errorf("smtp host must be set for the smtp mail provider")
		}
	case constants.MailProviderSendGrid:
		if config.Mail.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid api key must be set for the sendgrid mail provider")
		}
	default:
		return fmt.Errorf("unsupported mail provider: %s", config.Mail.Provider)
	}

	if config.Store.EncryptionKey != "" && len(config.Store.EncryptionKey) < 32 {
		return fmt.Errorf("store encryption key must be at least 32 bytes")
	}

	if config.Reset.CodeTTL < 0 {
		return fmt.Errorf("reset code ttl must be positive")
	}

	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	chatKey := ""
	if config.Chat.Configured() {
		chatKey = constants.LogRedactedValue
	}

	log.Info().
		Str("environment", config.App.Environment).
		Str("version", config.App.Version).
		Str("server", config.Server.ServerAddress()).
		Str("store_backend", config.Store.Backend).
		Str("mail_provider", config.Mail.Provider).
		Str("chat_model", config.Chat.Model).
		Str("chat_api_key", chatKey).
		Str("session_secret", constants.LogRedactedValue).
		Str("log_level", config.Logging.Level).
		Bool("rate_limit", config.RateLimit.Enabled).
		Msg("Configuration loaded")
}
