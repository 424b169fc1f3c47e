package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port           int      `yaml:"port"`
	GinMode        string   `yaml:"gin_mode"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	PublicURL      string   `yaml:"public_url"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	LogLevel string `yaml:"log_level"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	TTL         string `yaml:"ttl"`
	TokenSecret string `yaml:"token_secret"`
	Issuer      string `yaml:"issuer"`
}

type AdminConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

type ThrottleConfig struct {
	MaxFailures int    `yaml:"max_failures"`
	Window      string `yaml:"window"`
}

type RealtimeConfig struct {
	EventChannel     string   `yaml:"event_channel"`
	LegacyEventNames bool     `yaml:"legacy_event_names"`
	KafkaBrokers     []string `yaml:"kafka_brokers"`
	KafkaTopic       string   `yaml:"kafka_topic"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type EmailConfig struct {
	From string `yaml:"from"`
}

type ClientConfig struct {
	RequestTimeout   string `yaml:"request_timeout"`
	PollInterval     string `yaml:"poll_interval"`
	ReconnectBase    string `yaml:"reconnect_base"`
	ReconnectMax     string `yaml:"reconnect_max"`
	ReconnectRetries int    `yaml:"reconnect_retries"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	Admin    AdminConfig    `yaml:"admin"`
	Throttle ThrottleConfig `yaml:"throttle"`
	Realtime RealtimeConfig `yaml:"realtime"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Email    EmailConfig    `yaml:"email"`
	Client   ClientConfig   `yaml:"client"`
}

type Config struct {
	Port             string
	GinMode          string
	AllowedOrigins   []string
	PublicURL        string
	DSN              string
	DBLogLevel       string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	SessionTTL       time.Duration
	TokenSecret      string
	TokenIssuer      string
	AdminUsername    string
	AdminPassHash    string
	ThrottleFailures int
	ThrottleWindow   time.Duration
	EventChannel     string
	LegacyEventNames bool
	KafkaBrokers     []string
	KafkaTopic       string
	TwilioSID        string
	TwilioToken      string
	TwilioFrom       string
	EmailFrom        string
	RequestTimeout   time.Duration
	PollInterval     time.Duration
	ReconnectBase    time.Duration
	ReconnectMax     time.Duration
	ReconnectRetries int
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml after applying a local .env file
func Load() (*Config, error) {
	return LoadFile(env("MARKET_CONFIG", "config/config.yml"))
}

// LoadFile reads the yaml config at path; MARKET_* environment variables override secrets
func LoadFile(path string) (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return fromFile(configFile)
}

// Default returns the configuration used when no file is present, e.g. in tests
func Default() *Config {
	cfg, _ := fromFile(&ConfigFile{})
	return cfg
}

func fromFile(f *ConfigFile) (*Config, error) {
	ttl, err := parseDuration(f.Session.TTL, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}
	window, err := parseDuration(f.Throttle.Window, 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid throttle window: %w", err)
	}
	reqTimeout, err := parseDuration(f.Client.RequestTimeout, 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid client request timeout: %w", err)
	}
	poll, err := parseDuration(f.Client.PollInterval, 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid client poll interval: %w", err)
	}
	base, err := parseDuration(f.Client.ReconnectBase, time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid reconnect base delay: %w", err)
	}
	maxDelay, err := parseDuration(f.Client.ReconnectMax, 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid reconnect max delay: %w", err)
	}

	port := f.App.Port
	if port == 0 {
		port = 8080
	}
	failures := f.Throttle.MaxFailures
	if failures == 0 {
		failures = 5
	}
	retries := f.Client.ReconnectRetries
	if retries == 0 {
		retries = 20
	}
	channel := f.Realtime.EventChannel
	if channel == "" {
		channel = "market:orders"
	}
	topic := f.Realtime.KafkaTopic
	if topic == "" {
		topic = "order-events"
	}
	publicURL := f.App.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("http://localhost:%d", port)
	}
	origins := f.App.AllowedOrigins
	if v := os.Getenv("MARKET_ALLOWED_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}
	redisDB := f.Redis.DB
	if v := os.Getenv("MARKET_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	return &Config{
		Port:             env("MARKET_PORT", strconv.Itoa(port)),
		GinMode:          env("GIN_MODE", f.App.GinMode),
		AllowedOrigins:   origins,
		PublicURL:        strings.TrimRight(env("MARKET_PUBLIC_URL", publicURL), "/"),
		DSN:              env("MARKET_DATABASE_DSN", f.Database.DSN),
		DBLogLevel:       f.Database.LogLevel,
		RedisAddr:        env("MARKET_REDIS_ADDR", f.Redis.Addr),
		RedisPassword:    env("MARKET_REDIS_PASSWORD", f.Redis.Password),
		RedisDB:          redisDB,
		SessionTTL:       ttl,
		TokenSecret:      env("MARKET_TOKEN_SECRET", f.Session.TokenSecret),
		TokenIssuer:      env("MARKET_TOKEN_ISSUER", f.Session.Issuer),
		AdminUsername:    env("MARKET_ADMIN_USERNAME", f.Admin.Username),
		AdminPassHash:    env("MARKET_ADMIN_PASSWORD_HASH", f.Admin.PasswordHash),
		ThrottleFailures: failures,
		ThrottleWindow:   window,
		EventChannel:     channel,
		LegacyEventNames: f.Realtime.LegacyEventNames || env("MARKET_LEGACY_EVENTS", "false") == "true",
		KafkaBrokers:     f.Realtime.KafkaBrokers,
		KafkaTopic:       topic,
		TwilioSID:        env("TWILIO_ACCOUNT_SID", f.Twilio.AccountSID),
		TwilioToken:      env("TWILIO_AUTH_TOKEN", f.Twilio.AuthToken),
		TwilioFrom:       env("TWILIO_FROM_NUMBER", f.Twilio.FromNumber),
		EmailFrom:        f.Email.From,
		RequestTimeout:   reqTimeout,
		PollInterval:     poll,
		ReconnectBase:    base,
		ReconnectMax:     maxDelay,
		ReconnectRetries: retries,
	}, nil
}

// Validate reports the first setting that would keep the service from starting
func (c *Config) Validate() error {
	if c.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if c.TokenSecret == "" || c.TokenSecret == "change" {
		return fmt.Errorf("session token secret must be set")
	}
	if c.AdminUsername == "" || c.AdminPassHash == "" {
		return fmt.Errorf("admin credential must be configured")
	}
	if c.SessionTTL <= 0 || c.ThrottleWindow <= 0 {
		return fmt.Errorf("durations must be positive")
	}
	return nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}
